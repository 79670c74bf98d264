package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dividas/internal/core"
	"dividas/internal/store"
)

func sample() core.Debt {
	return core.Debt{
		ID:                "m1",
		Description:       "Geladeira",
		TotalValue:        2400,
		TotalInstallments: 12,
		PaidInstallments:  2,
		NextDueDate:       core.NewDate(2025, 7, 10),
		ReminderDays:      3,
	}
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.CreateDebt(ctx, sample()); err != nil {
		t.Fatalf("CreateDebt: %v", err)
	}

	got, err := s.GetDebt(ctx, "m1")
	if err != nil {
		t.Fatalf("GetDebt: %v", err)
	}
	if got.Description != "Geladeira" {
		t.Errorf("Description = %q", got.Description)
	}

	got.Description = "Geladeira nova"
	if err := s.UpdateDebt(ctx, got); err != nil {
		t.Fatalf("UpdateDebt: %v", err)
	}

	all, err := s.ListDebts(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("ListDebts: %v, len %d", err, len(all))
	}
	if all[0].Description != "Geladeira nova" {
		t.Errorf("updated Description = %q", all[0].Description)
	}

	if err := s.DeleteDebt(ctx, "m1"); err != nil {
		t.Fatalf("DeleteDebt: %v", err)
	}
	if _, err := s.GetDebt(ctx, "m1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetDebt after delete: %v", err)
	}
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.UpdateDebt(ctx, sample()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateDebt: %v", err)
	}
	if err := s.DeleteDebt(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeleteDebt: %v", err)
	}
	if _, err := s.RegisterPayment(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("RegisterPayment: %v", err)
	}
}

func TestRegisterPaymentClamp(t *testing.T) {
	ctx := context.Background()
	s := New()
	d := sample()
	d.PaidInstallments = d.TotalInstallments
	if err := s.CreateDebt(ctx, d); err != nil {
		t.Fatalf("CreateDebt: %v", err)
	}

	got, err := s.RegisterPayment(ctx, d.ID)
	if err != nil {
		t.Fatalf("RegisterPayment: %v", err)
	}
	if got.PaidInstallments != d.TotalInstallments {
		t.Errorf("PaidInstallments = %d, want %d", got.PaidInstallments, d.TotalInstallments)
	}
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()
	seed := `[
		{"id":"s1","description":"Antiga","totalValue":500,"totalInstallments":5,"paidInstallments":1,"nextDueDate":"2025-08-01"},
		{"id":"s2","description":"Nova","totalValue":900,"totalInstallments":9,"paidInstallments":0,"nextDueDate":"2025-09-01","reminderDays":7},
		{"id":"bad","description":"","totalValue":0,"totalInstallments":0,"paidInstallments":0,"nextDueDate":"2025-09-01"}
	]`
	if err := os.WriteFile(filepath.Join(dir, "seed_debts.json"), []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewFromFiles(dir)
	all, err := s.ListDebts(context.Background())
	if err != nil {
		t.Fatalf("ListDebts: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("seeded %d debts, want 2 (invalid record skipped)", len(all))
	}
	// Record without reminderDays gets the migration default.
	if all[0].ReminderDays != core.DefaultReminderDays {
		t.Errorf("defaulted ReminderDays = %d", all[0].ReminderDays)
	}
	if all[1].ReminderDays != 7 {
		t.Errorf("explicit ReminderDays = %d", all[1].ReminderDays)
	}
}

func TestNewFromFilesMissing(t *testing.T) {
	s := NewFromFiles(t.TempDir())
	all, _ := s.ListDebts(context.Background())
	if len(all) != 0 {
		t.Errorf("expected empty store, got %d", len(all))
	}
}
