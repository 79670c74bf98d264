package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"dividas/internal/amqp"
	"dividas/internal/core"
	"dividas/internal/store"
)

type fakeReader struct {
	debts map[string]core.Debt
	err   error
}

func (f *fakeReader) ListDebts(ctx context.Context) ([]core.Debt, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]core.Debt, 0, len(f.debts))
	for _, d := range f.debts {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeReader) GetDebt(ctx context.Context, id string) (core.Debt, error) {
	if f.err != nil {
		return core.Debt{}, f.err
	}
	d, ok := f.debts[id]
	if !ok {
		return core.Debt{}, store.ErrNotFound
	}
	return d, nil
}

type fakeMirror struct {
	upserted  []string
	deleted   []string
	wroteAll  int
	lastCount int
	err       error
}

func (f *fakeMirror) UpsertDebt(ctx context.Context, d core.Debt, today time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, d.ID)
	return nil
}

func (f *fakeMirror) DeleteDebt(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeMirror) WriteAll(ctx context.Context, debts []core.Debt, today time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.wroteAll++
	f.lastCount = len(debts)
	return nil
}

func testDebt(id string) core.Debt {
	return core.Debt{
		ID:                id,
		Description:       "Financiamento do carro",
		TotalValue:        1200,
		TotalInstallments: 12,
		PaidInstallments:  4,
		NextDueDate:       core.NewDate(2025, 6, 20),
		ReminderDays:      3,
	}
}

func TestSyncWorker_HandleSyncMessage(t *testing.T) {
	reader := &fakeReader{debts: map[string]core.Debt{"d1": testDebt("d1")}}
	mirror := &fakeMirror{}
	w := NewSyncWorker(reader, mirror)

	msg := &amqp.DebtSyncMessage{Type: amqp.TypeDebtSync, ID: "d1", Version: 2}
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleSyncMessage() error = %v", err)
	}

	if len(mirror.upserted) != 1 || mirror.upserted[0] != "d1" {
		t.Errorf("upserted = %v, want [d1]", mirror.upserted)
	}
}

func TestSyncWorker_HandleSyncMessageMissingDebt(t *testing.T) {
	reader := &fakeReader{debts: map[string]core.Debt{}}
	mirror := &fakeMirror{}
	w := NewSyncWorker(reader, mirror)

	msg := &amqp.DebtSyncMessage{Type: amqp.TypeDebtSync, ID: "gone", Version: 1}
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleSyncMessage() for missing debt should not fail, got %v", err)
	}
	if len(mirror.upserted) != 0 {
		t.Errorf("upserted = %v, want none", mirror.upserted)
	}
}

func TestSyncWorker_HandleSyncMessageStorageError(t *testing.T) {
	reader := &fakeReader{err: errors.New("disk gone")}
	w := NewSyncWorker(reader, &fakeMirror{})

	msg := &amqp.DebtSyncMessage{Type: amqp.TypeDebtSync, ID: "d1", Version: 1}
	if err := w.HandleSyncMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error from storage failure")
	}
}

func TestSyncWorker_HandleDeleteMessage(t *testing.T) {
	mirror := &fakeMirror{}
	w := NewSyncWorker(&fakeReader{}, mirror)

	msg := &amqp.DebtDeleteMessage{Type: amqp.TypeDebtDelete, ID: "d1"}
	if err := w.HandleDeleteMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleDeleteMessage() error = %v", err)
	}
	if len(mirror.deleted) != 1 || mirror.deleted[0] != "d1" {
		t.Errorf("deleted = %v, want [d1]", mirror.deleted)
	}
}

func TestSyncWorker_HandleDeleteMessageMirrorError(t *testing.T) {
	mirror := &fakeMirror{err: errors.New("sheet unavailable")}
	w := NewSyncWorker(&fakeReader{}, mirror)

	msg := &amqp.DebtDeleteMessage{Type: amqp.TypeDebtDelete, ID: "d1"}
	if err := w.HandleDeleteMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error from mirror failure")
	}
}

func TestSyncWorker_MirrorAll(t *testing.T) {
	reader := &fakeReader{debts: map[string]core.Debt{
		"d1": testDebt("d1"),
		"d2": testDebt("d2"),
	}}
	mirror := &fakeMirror{}
	w := NewSyncWorker(reader, mirror)

	if err := w.MirrorAll(context.Background()); err != nil {
		t.Fatalf("MirrorAll() error = %v", err)
	}
	if mirror.wroteAll != 1 {
		t.Errorf("WriteAll calls = %d, want 1", mirror.wroteAll)
	}
	if mirror.lastCount != 2 {
		t.Errorf("mirrored count = %d, want 2", mirror.lastCount)
	}
}
