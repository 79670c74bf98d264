package adapters

import (
	"context"

	"dividas/internal/core"
	"dividas/internal/services"
	"dividas/internal/storage"
)

// SQLiteAdapter joins the SQLite repository and the debt service behind the
// backend interface. Reads go straight to storage; writes go through the
// service so the worker gets its mirror messages.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
	service *services.DebtService
}

func NewSQLiteAdapter(storage *storage.SQLiteRepository, service *services.DebtService) *SQLiteAdapter {
	return &SQLiteAdapter{
		storage: storage,
		service: service,
	}
}

// ListDebts implements store.DebtReader
func (a *SQLiteAdapter) ListDebts(ctx context.Context) ([]core.Debt, error) {
	return a.storage.ListDebts(ctx)
}

// GetDebt implements store.DebtReader
func (a *SQLiteAdapter) GetDebt(ctx context.Context, id string) (core.Debt, error) {
	return a.storage.GetDebt(ctx, id)
}

// CreateDebt implements store.DebtWriter
func (a *SQLiteAdapter) CreateDebt(ctx context.Context, d core.Debt) error {
	return a.service.CreateDebt(ctx, d)
}

// UpdateDebt implements store.DebtWriter
func (a *SQLiteAdapter) UpdateDebt(ctx context.Context, d core.Debt) error {
	return a.service.UpdateDebt(ctx, d)
}

// DeleteDebt implements store.DebtDeleter
func (a *SQLiteAdapter) DeleteDebt(ctx context.Context, id string) error {
	return a.service.DeleteDebt(ctx, id)
}

// RegisterPayment implements store.PaymentRegistrar
func (a *SQLiteAdapter) RegisterPayment(ctx context.Context, id string) (core.Debt, error) {
	return a.service.RegisterPayment(ctx, id)
}
