// Package google mirrors the debt book into a Google Sheets spreadsheet.
// The sheet is a read-only copy for the account owner; the SQLite database
// stays authoritative.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"dividas/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// sheetHeader is row 1 of the mirror sheet. Column A carries the debt ID so
// rows can be found again on update.
var sheetHeader = []any{
	"ID", "Descrição", "Valor Total", "Parcelas", "Parcelas Pagas",
	"Vencimento", "Dias de Aviso", "Status", "Valor Pago", "Valor Restante",
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Credentials: GOOGLE_CREDENTIALS_JSON, GOOGLE_CREDENTIALS_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS (service account).
// Optional: GOOGLE_SHEET_NAME (default "Dividas").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Dividas"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// newSheetsService initializes a Sheets Service using service account
// credentials from the environment.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	credentialsJSON := strings.TrimSpace(os.Getenv("GOOGLE_CREDENTIALS_JSON"))
	credentialsFile := strings.TrimSpace(os.Getenv("GOOGLE_CREDENTIALS_FILE"))
	if credentialsJSON == "" && credentialsFile == "" {
		credentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var raw []byte
	var err error
	switch {
	case credentialsJSON != "":
		raw = []byte(credentialsJSON)
	case credentialsFile != "":
		raw, err = os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_CREDENTIALS_JSON, GOOGLE_CREDENTIALS_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(raw),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created")
	return service, nil
}

// UpsertDebt writes one debt to the sheet, updating its existing row when
// the ID is already present and appending otherwise.
func (c *Client) UpsertDebt(ctx context.Context, d core.Debt, today time.Time) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	ids, err := c.readIDColumn(ctx)
	if err != nil {
		return err
	}

	row := findRowByID(ids, d.ID)
	if row == 0 {
		row = len(ids) + 1
		if row == 1 {
			// Empty sheet: write the header first.
			if err := c.writeRow(ctx, 1, sheetHeader); err != nil {
				return err
			}
			row = 2
		}
	}

	if err := c.writeRow(ctx, row, debtRow(d, today)); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Mirrored debt to sheet",
		"id", d.ID, "sheet", c.sheetName, "row", row)
	return nil
}

// DeleteDebt clears the row holding the given debt ID. A missing row is not
// an error; a delete message can arrive after a full mirror pass already
// dropped it.
func (c *Client) DeleteDebt(ctx context.Context, id string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	ids, err := c.readIDColumn(ctx)
	if err != nil {
		return err
	}

	row := findRowByID(ids, id)
	if row == 0 {
		slog.WarnContext(ctx, "Debt not found in sheet, skipping delete", "id", id)
		return nil
	}

	rng := fmt.Sprintf("%s!A%d:J%d", c.sheetName, row, row)
	_, err = c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear row %d: %w", row, err)
	}

	slog.InfoContext(ctx, "Cleared debt row in sheet", "id", id, "row", row)
	return nil
}

// WriteAll replaces the whole sheet with the given debt book.
func (c *Client) WriteAll(ctx context.Context, debts []core.Debt, today time.Time) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:J", c.sheetName)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear sheet %s: %w", c.sheetName, err)
	}

	values := [][]any{sheetHeader}
	for _, d := range debts {
		values = append(values, debtRow(d, today))
	}

	writeRange := fmt.Sprintf("%s!A1", c.sheetName)
	vr := &gsheet.ValueRange{Values: values}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write sheet %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Mirrored full debt book", "sheet", c.sheetName, "debts", len(debts))
	return nil
}

func (c *Client) readIDColumn(ctx context.Context) ([]string, error) {
	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read ID column: %w", err)
	}

	ids := make([]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		if len(row) == 0 {
			ids = append(ids, "")
			continue
		}
		ids = append(ids, strings.TrimSpace(fmt.Sprint(row[0])))
	}
	return ids, nil
}

func (c *Client) writeRow(ctx context.Context, row int, values []any) error {
	rng := fmt.Sprintf("%s!A%d:J%d", c.sheetName, row, row)
	vr := &gsheet.ValueRange{Values: [][]any{values}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

// findRowByID returns the 1-based sheet row holding id, or 0 when absent.
// The header row never matches because IDs are UUIDs.
func findRowByID(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i + 1
		}
	}
	return 0
}

// debtRow builds the sheet row for one debt with its derived values as of
// today.
func debtRow(d core.Debt, today time.Time) []any {
	return []any{
		d.ID,
		d.Description,
		d.TotalValue,
		d.TotalInstallments,
		d.PaidInstallments,
		d.NextDueDate.ISO(),
		d.ReminderDays,
		core.Status(d, today).String(),
		d.PaidValue(),
		d.RemainingValue(),
	}
}
