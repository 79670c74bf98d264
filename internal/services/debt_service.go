package services

import (
	"context"
	"fmt"
	"log/slog"

	"dividas/internal/core"
)

// debtStorage is the slice of the SQLite repository the service needs.
type debtStorage interface {
	CreateDebt(ctx context.Context, d core.Debt) error
	UpdateDebt(ctx context.Context, d core.Debt) error
	DeleteDebt(ctx context.Context, id string) error
	RegisterPayment(ctx context.Context, id string) (core.Debt, error)
	GetDebtVersion(ctx context.Context, id string) (core.Debt, int64, error)
	Close() error
}

// syncPublisher publishes mirror messages for the worker.
type syncPublisher interface {
	PublishDebtSync(ctx context.Context, id string, version int64) error
	PublishDebtDelete(ctx context.Context, id string) error
	Close() error
}

// DebtService orchestrates debt writes across SQLite and AMQP. Every write
// lands in SQLite first; the mirror message is best effort and never fails
// the request.
type DebtService struct {
	storage    debtStorage
	amqpClient syncPublisher
}

func NewDebtService(storage debtStorage, amqpClient syncPublisher) *DebtService {
	return &DebtService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateDebt saves a debt locally and publishes a sync message.
func (s *DebtService) CreateDebt(ctx context.Context, d core.Debt) error {
	if err := s.storage.CreateDebt(ctx, d); err != nil {
		return fmt.Errorf("save debt: %w", err)
	}

	// New records start at version 1.
	if err := s.publishSync(ctx, d.ID, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", d.ID, "error", err)
	}
	return nil
}

// UpdateDebt updates a debt locally and publishes a sync message with the
// new version.
func (s *DebtService) UpdateDebt(ctx context.Context, d core.Debt) error {
	if err := s.storage.UpdateDebt(ctx, d); err != nil {
		return fmt.Errorf("update debt: %w", err)
	}

	_, version, err := s.storage.GetDebtVersion(ctx, d.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read version after update",
			"id", d.ID, "error", err)
		return nil
	}
	if err := s.publishSync(ctx, d.ID, version); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", d.ID, "error", err)
	}
	return nil
}

// DeleteDebt removes a debt locally and publishes a delete message.
func (s *DebtService) DeleteDebt(ctx context.Context, id string) error {
	if err := s.storage.DeleteDebt(ctx, id); err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}

	if err := s.publishDelete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"id", id, "error", err)
	}
	return nil
}

// RegisterPayment advances the paid counter and publishes a sync message.
func (s *DebtService) RegisterPayment(ctx context.Context, id string) (core.Debt, error) {
	d, err := s.storage.RegisterPayment(ctx, id)
	if err != nil {
		return core.Debt{}, fmt.Errorf("register payment: %w", err)
	}

	_, version, err := s.storage.GetDebtVersion(ctx, id)
	if err == nil {
		if err := s.publishSync(ctx, id, version); err != nil {
			slog.ErrorContext(ctx, "Failed to publish sync message",
				"id", id, "error", err)
		}
	}
	return d, nil
}

func (s *DebtService) publishSync(ctx context.Context, id string, version int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.amqpClient.PublishDebtSync(ctx, id, version)
}

func (s *DebtService) publishDelete(ctx context.Context, id string) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping delete message")
		return nil
	}
	return s.amqpClient.PublishDebtDelete(ctx, id)
}

// Close closes both storage and AMQP connections
func (s *DebtService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close debt service: %v", errs)
	}
	return nil
}
