package core

import "time"

// DebtStatus is the lifecycle status of a debt. The constants are declared
// in display-priority order, so their ordinal value doubles as the sort rank
// (overdue first, settled last).
type DebtStatus int

const (
	StatusOverdue DebtStatus = iota
	StatusOnTrack
	StatusSettled
)

// statusRank maps each status to its fixed sort priority. Kept as an
// explicit table so a new status cannot be added without deciding its rank.
var statusRank = map[DebtStatus]int{
	StatusOverdue: 0,
	StatusOnTrack: 1,
	StatusSettled: 2,
}

func (s DebtStatus) String() string {
	switch s {
	case StatusSettled:
		return "Quitada"
	case StatusOverdue:
		return "Atrasada"
	default:
		return "Em dia"
	}
}

// Rank returns the status sort priority.
func (s DebtStatus) Rank() int {
	return statusRank[s]
}

// midnight projects an instant's calendar day onto UTC midnight, the frame
// due dates live in. Truncating in the instant's own location instead would
// shift the comparison by the host's UTC offset.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Status classifies a debt against the given reference instant. A fully paid
// debt is settled no matter what its due date says; otherwise the due date
// is compared to today at day granularity.
func Status(d Debt, today time.Time) DebtStatus {
	if d.Settled() {
		return StatusSettled
	}
	if d.NextDueDate.Midnight().Before(midnight(today)) {
		return StatusOverdue
	}
	return StatusOnTrack
}
