package core

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type (
	SortField     string
	SortDirection string

	// SortConfig selects the ordering of the debt list.
	SortConfig struct {
		Field     SortField
		Direction SortDirection
	}
)

const (
	SortByDueDate     SortField = "dueDate"
	SortByTotalValue  SortField = "totalValue"
	SortByStatus      SortField = "status"
	SortByDescription SortField = "description"

	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// IsValid reports whether the field is one of the supported sort keys.
func (f SortField) IsValid() bool {
	_, ok := comparators[f]
	return ok
}

// descriptionCollator compares debt descriptions the way a pt-BR user
// expects (case- and accent-aware), instead of raw byte order.
var descriptionCollator = collate.New(language.BrazilianPortuguese, collate.Loose)

// comparators maps each sort field to its ascending comparator. The registry
// mirrors how the status rank table works: adding a field means deciding its
// comparison here, in one place.
var comparators = map[SortField]func(a, b Debt, today time.Time) int{
	SortByDueDate: func(a, b Debt, _ time.Time) int {
		switch {
		case a.NextDueDate.Time.Before(b.NextDueDate.Time):
			return -1
		case a.NextDueDate.Time.After(b.NextDueDate.Time):
			return 1
		default:
			return 0
		}
	},
	SortByTotalValue: func(a, b Debt, _ time.Time) int {
		switch {
		case a.TotalValue < b.TotalValue:
			return -1
		case a.TotalValue > b.TotalValue:
			return 1
		default:
			return 0
		}
	},
	SortByStatus: func(a, b Debt, today time.Time) int {
		return Status(a, today).Rank() - Status(b, today).Rank()
	},
	SortByDescription: func(a, b Debt, _ time.Time) int {
		return descriptionCollator.CompareString(a.Description, b.Description)
	},
}

// SortDebts returns a new slice ordered by the requested field; the input
// snapshot is never touched. Descending negates the ascending comparator,
// so equal keys stay equal in both directions, and the stable sort keeps
// their relative input order.
func SortDebts(debts []Debt, cfg SortConfig, today time.Time) []Debt {
	out := append([]Debt(nil), debts...)

	cmp, ok := comparators[cfg.Field]
	if !ok {
		cmp = comparators[SortByDueDate]
	}
	desc := cfg.Direction == Descending

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j], today)
		if desc {
			c = -c
		}
		return c < 0
	})
	return out
}
