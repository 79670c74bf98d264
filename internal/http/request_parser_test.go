package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"dividas/internal/core"
)

func validForm() url.Values {
	return url.Values{
		"description":       {"Financiamento do carro"},
		"totalValue":        {"1200,00"},
		"totalInstallments": {"12"},
		"paidInstallments":  {"4"},
		"nextDueDate":       {"2025-06-20"},
		"reminderDays":      {"5"},
	}
}

func TestParseDebtForm(t *testing.T) {
	d, err := ParseDebtForm(validForm())
	if err != nil {
		t.Fatalf("ParseDebtForm() error = %v", err)
	}
	if d.Description != "Financiamento do carro" {
		t.Errorf("Description = %q", d.Description)
	}
	if d.TotalValue != 1200 {
		t.Errorf("TotalValue = %v, want 1200", d.TotalValue)
	}
	if d.TotalInstallments != 12 || d.PaidInstallments != 4 {
		t.Errorf("installments = %d/%d, want 4/12", d.PaidInstallments, d.TotalInstallments)
	}
	if got := d.NextDueDate.Format("2006-01-02"); got != "2025-06-20" {
		t.Errorf("NextDueDate = %s", got)
	}
	if d.ReminderDays != 5 {
		t.Errorf("ReminderDays = %d, want 5", d.ReminderDays)
	}
	if d.ID != "" {
		t.Errorf("ID should be left empty for callers, got %q", d.ID)
	}
}

func TestParseDebtFormDefaults(t *testing.T) {
	form := validForm()
	form.Del("paidInstallments")
	form.Del("reminderDays")

	d, err := ParseDebtForm(form)
	if err != nil {
		t.Fatalf("ParseDebtForm() error = %v", err)
	}
	if d.PaidInstallments != 0 {
		t.Errorf("PaidInstallments = %d, want 0", d.PaidInstallments)
	}
	if d.ReminderDays != core.DefaultReminderDays {
		t.Errorf("ReminderDays = %d, want default %d", d.ReminderDays, core.DefaultReminderDays)
	}
}

func TestParseDebtFormExplicitZeroReminder(t *testing.T) {
	form := validForm()
	form.Set("reminderDays", "0")

	d, err := ParseDebtForm(form)
	if err != nil {
		t.Fatalf("ParseDebtForm() error = %v", err)
	}
	if d.ReminderDays != 0 {
		t.Errorf("ReminderDays = %d, want explicit 0", d.ReminderDays)
	}
}

func TestParseDebtFormErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(url.Values)
	}{
		{"empty description", func(f url.Values) { f.Set("description", "  ") }},
		{"bad amount", func(f url.Values) { f.Set("totalValue", "abc") }},
		{"zero amount", func(f url.Values) { f.Set("totalValue", "0") }},
		{"bad installments", func(f url.Values) { f.Set("totalInstallments", "doze") }},
		{"zero installments", func(f url.Values) { f.Set("totalInstallments", "0") }},
		{"paid above total", func(f url.Values) { f.Set("paidInstallments", "13") }},
		{"negative paid", func(f url.Values) { f.Set("paidInstallments", "-1") }},
		{"bad date", func(f url.Values) { f.Set("nextDueDate", "20/06/2025") }},
		{"missing date", func(f url.Values) { f.Del("nextDueDate") }},
		{"negative reminder", func(f url.Values) { f.Set("reminderDays", "-2") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(form)
			if _, err := ParseDebtForm(form); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseDebtFormSanitizesDescription(t *testing.T) {
	form := validForm()
	form.Set("description", "  Cartão\x00 de crédito  ")

	d, err := ParseDebtForm(form)
	if err != nil {
		t.Fatalf("ParseDebtForm() error = %v", err)
	}
	if strings.ContainsRune(d.Description, '\x00') {
		t.Errorf("control characters kept: %q", d.Description)
	}
	if d.Description != "Cartão de crédito" {
		t.Errorf("Description = %q, want trimmed %q", d.Description, "Cartão de crédito")
	}
}

func TestRequireMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/debts", nil)
	if resp := RequirePOST(req); resp == nil {
		t.Error("GET against POST-only should be rejected")
	}

	req = httptest.NewRequest(http.MethodPost, "/debts", nil)
	if resp := RequirePOST(req); resp != nil {
		t.Error("POST should be accepted")
	}

	req = httptest.NewRequest(http.MethodDelete, "/debts/delete", nil)
	if resp := RequireMethod(req, http.MethodPost, http.MethodDelete); resp != nil {
		t.Error("DELETE should be accepted when listed")
	}
}

func TestRequireID(t *testing.T) {
	if _, resp := RequireID(url.Values{}); resp == nil {
		t.Error("missing id should be rejected")
	}
	id, resp := RequireID(url.Values{"id": {" abc-123 "}})
	if resp != nil {
		t.Fatalf("unexpected rejection")
	}
	if id != "abc-123" {
		t.Errorf("id = %q, want trimmed abc-123", id)
	}
}
