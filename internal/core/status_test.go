package core

import (
	"testing"
	"time"
)

var testToday = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func debtFixture() Debt {
	return Debt{
		ID:                "d1",
		Description:       "Cartão de Crédito",
		TotalValue:        1200,
		TotalInstallments: 12,
		PaidInstallments:  4,
		NextDueDate:       NewDate(2025, 6, 20),
		ReminderDays:      3,
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name  string
		paid  int
		total int
		due   Date
		want  DebtStatus
	}{
		{
			name:  "due tomorrow is on track",
			paid:  4,
			total: 12,
			due:   NewDate(2025, 6, 16),
			want:  StatusOnTrack,
		},
		{
			name:  "due today is on track",
			paid:  4,
			total: 12,
			due:   NewDate(2025, 6, 15),
			want:  StatusOnTrack,
		},
		{
			name:  "due yesterday is overdue",
			paid:  4,
			total: 12,
			due:   NewDate(2025, 6, 14),
			want:  StatusOverdue,
		},
		{
			name:  "fully paid with ancient due date is settled, not overdue",
			paid:  5,
			total: 5,
			due:   NewDate(2000, 1, 1),
			want:  StatusSettled,
		},
		{
			name:  "fully paid with future due date is settled",
			paid:  5,
			total: 5,
			due:   NewDate(2030, 1, 1),
			want:  StatusSettled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := debtFixture()
			d.PaidInstallments = tt.paid
			d.TotalInstallments = tt.total
			d.NextDueDate = tt.due
			if got := Status(d, testToday); got != tt.want {
				t.Errorf("Status() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusIgnoresTimeOfDay(t *testing.T) {
	d := debtFixture()
	d.NextDueDate = NewDate(2025, 6, 15)

	// Late in the evening the debt due "today" must still be on track.
	evening := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)
	if got := Status(d, evening); got != StatusOnTrack {
		t.Errorf("Status() at 23:59 = %v, want StatusOnTrack", got)
	}
}

func TestStatusNonUTCHost(t *testing.T) {
	d := debtFixture()
	d.NextDueDate = NewDate(2025, 6, 15)

	// 10:00 in São Paulo is 13:00 UTC; the calendar day is what counts.
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	morning := time.Date(2025, 6, 15, 10, 0, 0, 0, saoPaulo)
	if got := Status(d, morning); got != StatusOnTrack {
		t.Errorf("Status() in UTC-3 = %v, want StatusOnTrack", got)
	}

	moscow := time.FixedZone("MSK", 3*60*60)
	nextDay := time.Date(2025, 6, 16, 1, 0, 0, 0, moscow)
	if got := Status(d, nextDay); got != StatusOverdue {
		t.Errorf("Status() day after in UTC+3 = %v, want StatusOverdue", got)
	}
}

func TestStatusRank(t *testing.T) {
	if StatusOverdue.Rank() != 0 || StatusOnTrack.Rank() != 1 || StatusSettled.Rank() != 2 {
		t.Errorf("status ranks = %d/%d/%d, want 0/1/2",
			StatusOverdue.Rank(), StatusOnTrack.Rank(), StatusSettled.Rank())
	}
}

func TestStatusString(t *testing.T) {
	if StatusSettled.String() != "Quitada" {
		t.Errorf("StatusSettled.String() = %q", StatusSettled.String())
	}
	if StatusOverdue.String() != "Atrasada" {
		t.Errorf("StatusOverdue.String() = %q", StatusOverdue.String())
	}
	if StatusOnTrack.String() != "Em dia" {
		t.Errorf("StatusOnTrack.String() = %q", StatusOnTrack.String())
	}
}
