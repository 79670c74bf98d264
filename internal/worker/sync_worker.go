package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dividas/internal/amqp"
	"dividas/internal/core"
	"dividas/internal/store"
)

// DebtMirror is the spreadsheet side of the worker. The Google Sheets
// client satisfies it.
type DebtMirror interface {
	UpsertDebt(ctx context.Context, d core.Debt, today time.Time) error
	DeleteDebt(ctx context.Context, id string) error
	WriteAll(ctx context.Context, debts []core.Debt, today time.Time) error
}

// SyncWorker mirrors the local debt collection into a spreadsheet. It
// consumes sync and delete messages and periodically rewrites the whole
// sheet as a catch-up for any message the broker lost.
type SyncWorker struct {
	reader store.DebtReader
	mirror DebtMirror
}

func NewSyncWorker(reader store.DebtReader, mirror DebtMirror) *SyncWorker {
	return &SyncWorker{
		reader: reader,
		mirror: mirror,
	}
}

// HandleSyncMessage re-reads the debt and upserts its spreadsheet row.
// A debt deleted between publish and consume is treated as already
// handled, not as an error.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.DebtSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	debt, err := w.reader.GetDebt(ctx, msg.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.WarnContext(ctx, "Debt gone before sync, skipping",
				"id", msg.ID,
				"version", msg.Version)
			return nil
		}
		return fmt.Errorf("get debt from storage: %w", err)
	}

	if err := w.mirror.UpsertDebt(ctx, debt, time.Now()); err != nil {
		return fmt.Errorf("upsert debt in sheet: %w", err)
	}

	slog.InfoContext(ctx, "Successfully synced debt",
		"id", msg.ID,
		"version", msg.Version,
		"description", debt.Description)
	return nil
}

// HandleDeleteMessage removes the debt's row from the spreadsheet.
func (w *SyncWorker) HandleDeleteMessage(ctx context.Context, msg *amqp.DebtDeleteMessage) error {
	slog.InfoContext(ctx, "Processing delete message", "id", msg.ID)

	if err := w.mirror.DeleteDebt(ctx, msg.ID); err != nil {
		return fmt.Errorf("delete debt from sheet: %w", err)
	}

	slog.InfoContext(ctx, "Successfully deleted debt from sheet",
		"id", msg.ID,
		"timestamp", msg.Timestamp)
	return nil
}

// MirrorAll rewrites the whole sheet from the local collection. Run at
// startup and on an interval so the mirror converges even when individual
// messages were lost.
func (w *SyncWorker) MirrorAll(ctx context.Context) error {
	debts, err := w.reader.ListDebts(ctx)
	if err != nil {
		return fmt.Errorf("list debts: %w", err)
	}

	if err := w.mirror.WriteAll(ctx, debts, time.Now()); err != nil {
		return fmt.Errorf("rewrite sheet: %w", err)
	}

	slog.InfoContext(ctx, "Sheet mirror refreshed", "count", len(debts))
	return nil
}

// RunMirrorLoop refreshes the full mirror immediately and then on every
// interval tick until the context is cancelled.
func (w *SyncWorker) RunMirrorLoop(ctx context.Context, interval time.Duration) error {
	if err := w.MirrorAll(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup mirror refresh failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.MirrorAll(ctx); err != nil {
				slog.ErrorContext(ctx, "Mirror refresh failed", "error", err)
			}
		}
	}
}
