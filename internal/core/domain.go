package core

import (
	"errors"
	"strings"
	"time"
)

// DefaultReminderDays is applied to records that were persisted before the
// reminder window existed. The defaulting happens once, in MigrateDebt, when
// a record is loaded from storage; derivation functions assume it was applied.
const DefaultReminderDays = 3

type (
	Date struct {
		time.Time
	}

	// Debt is one installment obligation. The collection of debts is owned
	// by a store; derivation functions only read snapshots of it.
	Debt struct {
		ID                string
		Description       string
		TotalValue        float64
		TotalInstallments int
		PaidInstallments  int
		NextDueDate       Date
		ReminderDays      int
	}
)

var (
	ErrEmptyDescription    = errors.New("empty description")
	ErrInvalidTotalValue   = errors.New("total value must be greater than zero")
	ErrInvalidInstallments = errors.New("total installments must be greater than zero")
	ErrInvalidPaidCount    = errors.New("paid installments out of range")
	ErrInvalidReminderDays = errors.New("reminder days cannot be negative")
	ErrInvalidDueDate      = errors.New("due date cannot be zero")
)

// NewDate creates a Date at midnight UTC from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Midnight truncates the date to day granularity, dropping any time-of-day
// component a caller may have smuggled in.
func (d Date) Midnight() time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// ISO returns the date formatted as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDueDate
	}
	return nil
}

// Settled reports whether every installment has been paid. This is the sole
// source of truth for "settled"; the due date plays no part in it.
func (d Debt) Settled() bool {
	return d.PaidInstallments >= d.TotalInstallments
}

func (d Debt) Validate() error {
	if len(strings.TrimSpace(d.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(d.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if d.TotalValue <= 0 {
		return ErrInvalidTotalValue
	}
	if d.TotalInstallments <= 0 {
		return ErrInvalidInstallments
	}
	if d.PaidInstallments < 0 || d.PaidInstallments > d.TotalInstallments {
		return ErrInvalidPaidCount
	}
	if d.ReminderDays < 0 {
		return ErrInvalidReminderDays
	}
	return d.NextDueDate.Validate()
}

// MigrateDebt applies defaults for optional fields that older persisted
// records lack. Stores must run it on every record they load, so the default
// is applied exactly once and in one auditable place. Absence is signalled
// by a negative ReminderDays (stores map NULL to -1); an explicit zero is a
// valid "remind only on the due day" window and is kept.
func MigrateDebt(d Debt) Debt {
	if d.ReminderDays < 0 {
		d.ReminderDays = DefaultReminderDays
	}
	return d
}

// MigrateDebts applies MigrateDebt to every record of a loaded collection.
func MigrateDebts(debts []Debt) []Debt {
	out := make([]Debt, len(debts))
	for i, d := range debts {
		out[i] = MigrateDebt(d)
	}
	return out
}
