package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dividas/internal/core"
	"dividas/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const debtColumns = "id, description, total_value, total_installments, paid_installments, next_due_date, reminder_days, version"

// scanDebt reads one row into a core.Debt, mapping a NULL reminder window to
// the marker core.MigrateDebt resolves, and returns the record's version.
func scanDebt(scan func(...any) error) (core.Debt, int64, error) {
	var (
		d            core.Debt
		due          string
		reminderDays sql.NullInt64
		version      int64
	)
	err := scan(&d.ID, &d.Description, &d.TotalValue, &d.TotalInstallments,
		&d.PaidInstallments, &due, &reminderDays, &version)
	if err != nil {
		return core.Debt{}, 0, err
	}

	date, err := core.ParseDate(due)
	if err != nil {
		return core.Debt{}, 0, fmt.Errorf("parse due date %q: %w", due, err)
	}
	d.NextDueDate = date

	if reminderDays.Valid {
		d.ReminderDays = int(reminderDays.Int64)
	} else {
		d.ReminderDays = -1
	}
	return core.MigrateDebt(d), version, nil
}

// ListDebts implements store.DebtReader.
func (r *SQLiteRepository) ListDebts(ctx context.Context) ([]core.Debt, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+debtColumns+" FROM debts ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer rows.Close()

	var debts []core.Debt
	for rows.Next() {
		d, _, err := scanDebt(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate debts: %w", err)
	}
	return debts, nil
}

// GetDebt implements store.DebtReader.
func (r *SQLiteRepository) GetDebt(ctx context.Context, id string) (core.Debt, error) {
	d, _, err := r.getDebtVersion(ctx, id)
	return d, err
}

// GetDebtVersion returns a record together with its sync version.
func (r *SQLiteRepository) GetDebtVersion(ctx context.Context, id string) (core.Debt, int64, error) {
	return r.getDebtVersion(ctx, id)
}

func (r *SQLiteRepository) getDebtVersion(ctx context.Context, id string) (core.Debt, int64, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+debtColumns+" FROM debts WHERE id = ?", id)
	d, version, err := scanDebt(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Debt{}, 0, store.ErrNotFound
	}
	if err != nil {
		return core.Debt{}, 0, fmt.Errorf("get debt %s: %w", id, err)
	}
	return d, version, nil
}

// CreateDebt implements store.DebtWriter.
func (r *SQLiteRepository) CreateDebt(ctx context.Context, d core.Debt) error {
	if err := d.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO debts (id, description, total_value, total_installments, paid_installments, next_due_date, reminder_days)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Description, d.TotalValue, d.TotalInstallments,
		d.PaidInstallments, d.NextDueDate.ISO(), d.ReminderDays)
	if err != nil {
		return fmt.Errorf("create debt: %w", err)
	}

	slog.InfoContext(ctx, "Debt saved",
		"id", d.ID,
		"description", d.Description,
		"total_value", d.TotalValue,
		"installments", d.TotalInstallments)
	return nil
}

// UpdateDebt implements store.DebtWriter. The sync version is bumped so the
// mirror worker can tell stale messages apart.
func (r *SQLiteRepository) UpdateDebt(ctx context.Context, d core.Debt) error {
	if err := d.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE debts
		SET description = ?, total_value = ?, total_installments = ?,
		    paid_installments = ?, next_due_date = ?, reminder_days = ?,
		    version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		d.Description, d.TotalValue, d.TotalInstallments,
		d.PaidInstallments, d.NextDueDate.ISO(), d.ReminderDays, d.ID)
	if err != nil {
		return fmt.Errorf("update debt: %w", err)
	}
	return requireRow(res, d.ID)
}

// DeleteDebt implements store.DebtDeleter.
func (r *SQLiteRepository) DeleteDebt(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM debts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	if err := requireRow(res, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Debt deleted", "id", id)
	return nil
}

// RegisterPayment implements store.PaymentRegistrar. The clamp lives in the
// statement itself, so a concurrent double-click cannot push the counter
// past the total.
func (r *SQLiteRepository) RegisterPayment(ctx context.Context, id string) (core.Debt, error) {
	_, err := r.db.ExecContext(ctx, `
		UPDATE debts
		SET paid_installments = paid_installments + 1,
		    version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND paid_installments < total_installments`, id)
	if err != nil {
		return core.Debt{}, fmt.Errorf("register payment: %w", err)
	}

	d, _, err := r.getDebtVersion(ctx, id)
	if err != nil {
		return core.Debt{}, err
	}

	slog.InfoContext(ctx, "Payment registered",
		"id", id,
		"paid", d.PaidInstallments,
		"total", d.TotalInstallments)
	return d, nil
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
