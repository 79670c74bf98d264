package core

import (
	"testing"
)

func sortFixture() []Debt {
	return []Debt{
		{ID: "1", Description: "Zebra", TotalValue: 300, TotalInstallments: 3, PaidInstallments: 3, NextDueDate: NewDate(2025, 6, 10), ReminderDays: 3},
		{ID: "2", Description: "água", TotalValue: 100, TotalInstallments: 2, PaidInstallments: 0, NextDueDate: NewDate(2025, 6, 1), ReminderDays: 3},
		{ID: "3", Description: "Banco", TotalValue: 200, TotalInstallments: 4, PaidInstallments: 1, NextDueDate: NewDate(2025, 6, 20), ReminderDays: 3},
	}
}

func ids(debts []Debt) string {
	var s string
	for _, d := range debts {
		s += d.ID
	}
	return s
}

func TestSortDebts(t *testing.T) {
	tests := []struct {
		name string
		cfg  SortConfig
		want string
	}{
		{"due date ascending", SortConfig{SortByDueDate, Ascending}, "213"},
		{"due date descending", SortConfig{SortByDueDate, Descending}, "312"},
		{"total value ascending", SortConfig{SortByTotalValue, Ascending}, "231"},
		{"total value descending", SortConfig{SortByTotalValue, Descending}, "132"},
		// id 2 is overdue, id 3 on track, id 1 settled at testToday.
		{"status ascending", SortConfig{SortByStatus, Ascending}, "231"},
		{"status descending", SortConfig{SortByStatus, Descending}, "132"},
		// Collation puts "água" before "Banco" before "Zebra".
		{"description ascending", SortConfig{SortByDescription, Ascending}, "231"},
		{"description descending", SortConfig{SortByDescription, Descending}, "132"},
		{"unknown field falls back to due date", SortConfig{"bogus", Ascending}, "213"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sortFixture()
			got := SortDebts(in, tt.cfg, testToday)
			if ids(got) != tt.want {
				t.Errorf("SortDebts() order = %s, want %s", ids(got), tt.want)
			}
			// The input snapshot must be untouched.
			if ids(in) != "123" {
				t.Errorf("input mutated: %s", ids(in))
			}
		})
	}
}

// Ascending then reversed equals descending for every field, given unique keys.
func TestSortRoundTrip(t *testing.T) {
	for field := range comparators {
		t.Run(string(field), func(t *testing.T) {
			asc := SortDebts(sortFixture(), SortConfig{field, Ascending}, testToday)
			desc := SortDebts(sortFixture(), SortConfig{field, Descending}, testToday)
			for i := range asc {
				if asc[i].ID != desc[len(desc)-1-i].ID {
					t.Fatalf("asc reversed != desc: %s vs %s", ids(asc), ids(desc))
				}
			}
		})
	}
}

func TestSortFieldIsValid(t *testing.T) {
	for _, f := range []SortField{SortByDueDate, SortByTotalValue, SortByStatus, SortByDescription} {
		if !f.IsValid() {
			t.Errorf("%s should be valid", f)
		}
	}
	if SortField("bogus").IsValid() {
		t.Error("bogus field should be invalid")
	}
}
