package core

import (
	"math"
	"time"
)

// Reminder is one due-date notification entry, ready for display.
// DaysRemaining is signed: negative means overdue by that many days, zero
// means due today.
type Reminder struct {
	DebtID        string
	Description   string
	DaysRemaining int
	Amount        float64
	DueDate       Date
}

// DaysUntil counts whole calendar days from today to the due date, both
// truncated to UTC midnight so a local-time today compares cleanly.
func DaysUntil(due Date, today time.Time) int {
	diff := due.Midnight().Sub(midnight(today))
	return int(math.Ceil(diff.Hours() / 24))
}

// Reminders derives the notification entries for a snapshot. A debt
// qualifies when it is unsettled, not dismissed, and within its reminder
// window. Once overdue it stays within the window forever: a negative
// DaysRemaining is always <= ReminderDays, so an overdue debt never silently
// stops alerting.
//
// The dismissal set is session state owned by the caller; passing nil means
// nothing has been dismissed.
func Reminders(debts []Debt, dismissed map[string]struct{}, today time.Time) []Reminder {
	var out []Reminder
	for _, d := range debts {
		if d.Settled() {
			continue
		}
		if _, ok := dismissed[d.ID]; ok {
			continue
		}
		days := DaysUntil(d.NextDueDate, today)
		if days > d.ReminderDays {
			continue
		}
		out = append(out, Reminder{
			DebtID:        d.ID,
			Description:   d.Description,
			DaysRemaining: days,
			Amount:        d.InstallmentValue(),
			DueDate:       d.NextDueDate,
		})
	}
	return out
}
