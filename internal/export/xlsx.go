// Package export writes the debt book as a spreadsheet download.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"dividas/internal/core"
)

const sheetName = "Dividas"

var columns = []string{
	"Descrição", "Valor Total", "Valor da Parcela", "Parcelas", "Parcelas Pagas",
	"Valor Pago", "Valor Restante", "Progresso (%)", "Vencimento", "Status",
}

// WriteDebtBook writes an XLSX workbook with one row per debt, derived
// values computed as of today, and a totals row at the bottom.
func WriteDebtBook(w io.Writer, debts []core.Debt, today time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, d := range debts {
		row := []any{
			d.Description,
			d.TotalValue,
			d.InstallmentValue(),
			d.TotalInstallments,
			d.PaidInstallments,
			d.PaidValue(),
			d.RemainingValue(),
			d.Progress(),
			d.NextDueDate.ISO(),
			core.Status(d, today).String(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	stats := core.Summarize(debts)
	totals := []any{
		"Total", stats.TotalDebt, "", "", "",
		stats.TotalPaid, stats.RemainingDebt, stats.ProgressPercentage, "", "",
	}
	cell, err := excelize.CoordinatesToCellName(1, len(debts)+3)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheetName, cell, &totals); err != nil {
		return fmt.Errorf("write totals row: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
