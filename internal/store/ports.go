package store

import (
	"context"
	"errors"

	"dividas/internal/core"
)

// ErrNotFound is returned when no debt with the requested id exists.
var ErrNotFound = errors.New("debt not found")

// Ports for the debt stores. The derivation core never touches a store; it
// receives the snapshot these readers produce. Every implementation must
// run core.MigrateDebt on records it loads, so optional-field defaults are
// applied before a record is ever seen by a derivation.
type (
	DebtReader interface {
		// ListDebts returns a snapshot of the full collection in insertion order.
		ListDebts(ctx context.Context) ([]core.Debt, error)
		// GetDebt returns a single record by id.
		GetDebt(ctx context.Context, id string) (core.Debt, error)
	}

	DebtWriter interface {
		CreateDebt(ctx context.Context, d core.Debt) error
		UpdateDebt(ctx context.Context, d core.Debt) error
	}

	DebtDeleter interface {
		DeleteDebt(ctx context.Context, id string) error
	}

	// PaymentRegistrar increments a debt's paid-installments count by one,
	// clamped at the total, and returns the updated record.
	PaymentRegistrar interface {
		RegisterPayment(ctx context.Context, id string) (core.Debt, error)
	}
)
