package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dividas/internal/core"
	"dividas/internal/store"
)

// reminderMailer delivers a reminder digest.
type reminderMailer interface {
	SendReminderDigest(ctx context.Context, reminders []core.Reminder, today time.Time) error
}

// ReminderNotifier periodically computes which debts are inside their
// reminder window and mails a digest. Dismissals are a UI session concern,
// so the digest always carries the full eligible set.
type ReminderNotifier struct {
	reader store.DebtReader
	mailer reminderMailer
}

func NewReminderNotifier(reader store.DebtReader, mailer reminderMailer) *ReminderNotifier {
	return &ReminderNotifier{
		reader: reader,
		mailer: mailer,
	}
}

// RunOnce computes the eligible reminders as of today and sends the digest.
// A day with nothing due sends nothing.
func (n *ReminderNotifier) RunOnce(ctx context.Context, today time.Time) error {
	debts, err := n.reader.ListDebts(ctx)
	if err != nil {
		return fmt.Errorf("list debts: %w", err)
	}

	reminders := core.Reminders(debts, nil, today)
	if len(reminders) == 0 {
		slog.DebugContext(ctx, "No reminders due, skipping digest")
		return nil
	}

	if n.mailer == nil {
		slog.WarnContext(ctx, "Mailer not configured, skipping reminder digest",
			"reminders", len(reminders))
		return nil
	}

	if err := n.mailer.SendReminderDigest(ctx, reminders, today); err != nil {
		return fmt.Errorf("send reminder digest: %w", err)
	}

	slog.InfoContext(ctx, "Sent reminder digest", "reminders", len(reminders))
	return nil
}

// Run sends a digest at every tick until ctx is cancelled. The first digest
// goes out immediately.
func (n *ReminderNotifier) Run(ctx context.Context, interval time.Duration) error {
	if err := n.RunOnce(ctx, time.Now()); err != nil {
		slog.ErrorContext(ctx, "Reminder digest failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := n.RunOnce(ctx, time.Now()); err != nil {
				slog.ErrorContext(ctx, "Reminder digest failed", "error", err)
			}
		}
	}
}
