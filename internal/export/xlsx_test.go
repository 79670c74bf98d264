package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"dividas/internal/core"
)

func exportDebts() []core.Debt {
	return []core.Debt{
		{
			ID:                "d1",
			Description:       "Financiamento do carro",
			TotalValue:        1200,
			TotalInstallments: 12,
			PaidInstallments:  4,
			NextDueDate:       core.Date{Time: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)},
			ReminderDays:      3,
		},
		{
			ID:                "d2",
			Description:       "Empréstimo pessoal",
			TotalValue:        600,
			TotalInstallments: 6,
			PaidInstallments:  6,
			NextDueDate:       core.Date{Time: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)},
			ReminderDays:      3,
		},
	}
}

func TestWriteDebtBook(t *testing.T) {
	today := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := WriteDebtBook(&buf, exportDebts(), today); err != nil {
		t.Fatalf("WriteDebtBook: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Dividas")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}

	// Header, two debts, blank spacer, totals.
	if len(rows) < 4 {
		t.Fatalf("got %d rows, want at least 4", len(rows))
	}
	if rows[0][0] != "Descrição" {
		t.Errorf("header[0] = %q", rows[0][0])
	}
	if rows[1][0] != "Financiamento do carro" {
		t.Errorf("row 2 description = %q", rows[1][0])
	}
	if rows[1][9] != "Em dia" {
		t.Errorf("row 2 status = %q, want Em dia", rows[1][9])
	}
	if rows[2][9] != "Quitada" {
		t.Errorf("row 3 status = %q, want Quitada", rows[2][9])
	}

	totals := rows[len(rows)-1]
	if totals[0] != "Total" {
		t.Errorf("totals label = %q", totals[0])
	}
	if totals[1] != "1800" {
		t.Errorf("total debt = %q, want 1800", totals[1])
	}
	if totals[5] != "1000" {
		t.Errorf("total paid = %q, want 1000", totals[5])
	}
}

func TestWriteDebtBookEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDebtBook(&buf, nil, time.Now()); err != nil {
		t.Fatalf("WriteDebtBook with no debts: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Dividas")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	totals := rows[len(rows)-1]
	if totals[0] != "Total" || totals[1] != "0" {
		t.Errorf("empty book totals = %v", totals)
	}
}
