package google

import (
	"context"
	"testing"
	"time"

	"dividas/internal/core"
)

func TestFindRowByID(t *testing.T) {
	ids := []string{"ID", "aaa-111", "", "bbb-222"}

	tests := []struct {
		name string
		id   string
		want int
	}{
		{"first data row", "aaa-111", 2},
		{"after blank row", "bbb-222", 4},
		{"absent", "ccc-333", 0},
		{"empty id never matches header", "", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findRowByID(ids, tt.id); got != tt.want {
				t.Errorf("findRowByID(%q) = %d, want %d", tt.id, got, tt.want)
			}
		})
	}
}

func TestDebtRow(t *testing.T) {
	today := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	d := core.Debt{
		ID:                "aaa-111",
		Description:       "Financiamento do carro",
		TotalValue:        1200,
		TotalInstallments: 12,
		PaidInstallments:  4,
		NextDueDate:       core.Date{Time: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)},
		ReminderDays:      3,
	}

	row := debtRow(d, today)
	if len(row) != len(sheetHeader) {
		t.Fatalf("row has %d columns, header has %d", len(row), len(sheetHeader))
	}
	if row[0] != "aaa-111" {
		t.Errorf("ID column = %v", row[0])
	}
	if row[5] != "2025-06-20" {
		t.Errorf("due date column = %v, want 2025-06-20", row[5])
	}
	if row[7] != "Em dia" {
		t.Errorf("status column = %v, want Em dia", row[7])
	}
	if row[8] != 400.0 {
		t.Errorf("paid value column = %v, want 400", row[8])
	}
	if row[9] != 800.0 {
		t.Errorf("remaining value column = %v, want 800", row[9])
	}
}

func TestNewFromEnvRequiresSpreadsheetID(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")

	if _, err := NewFromEnv(context.Background()); err == nil {
		t.Error("NewFromEnv should fail without GOOGLE_SPREADSHEET_ID")
	}
}

func TestClientRequiresService(t *testing.T) {
	c := &Client{spreadsheetID: "sheet", sheetName: "Dividas"}
	ctx := context.Background()

	if err := c.UpsertDebt(ctx, core.Debt{}, time.Now()); err == nil {
		t.Error("UpsertDebt should fail without an initialized service")
	}
	if err := c.DeleteDebt(ctx, "id"); err == nil {
		t.Error("DeleteDebt should fail without an initialized service")
	}
	if err := c.WriteAll(ctx, nil, time.Now()); err == nil {
		t.Error("WriteAll should fail without an initialized service")
	}
}
