// Package memory implements the debt store ports in process memory. Used as
// the default backend for local runs and as the store under test in the
// HTTP handler tests.
package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"dividas/internal/core"
	"dividas/internal/store"
)

type Store struct {
	mu    sync.Mutex
	items []core.Debt
}

func New() *Store {
	return &Store{}
}

// seedDebt mirrors the persisted JSON shape. ReminderDays is a pointer so a
// record written before the field existed is distinguishable from an
// explicit zero; absence becomes the store marker consumed by MigrateDebt.
type seedDebt struct {
	ID                string  `json:"id"`
	Description       string  `json:"description"`
	TotalValue        float64 `json:"totalValue"`
	TotalInstallments int     `json:"totalInstallments"`
	PaidInstallments  int     `json:"paidInstallments"`
	NextDueDate       string  `json:"nextDueDate"`
	ReminderDays      *int    `json:"reminderDays"`
}

// NewFromFiles seeds the store from base/seed_debts.json when present.
// Unreadable or malformed seed data yields an empty store.
func NewFromFiles(base string) *Store {
	s := New()
	raw, err := os.ReadFile(filepath.Join(base, "seed_debts.json"))
	if err != nil {
		return s
	}
	var seeds []seedDebt
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return s
	}
	for _, sd := range seeds {
		due, err := core.ParseDate(sd.NextDueDate)
		if err != nil {
			continue
		}
		d := core.Debt{
			ID:                sd.ID,
			Description:       sd.Description,
			TotalValue:        sd.TotalValue,
			TotalInstallments: sd.TotalInstallments,
			PaidInstallments:  sd.PaidInstallments,
			NextDueDate:       due,
			ReminderDays:      -1,
		}
		if sd.ReminderDays != nil {
			d.ReminderDays = *sd.ReminderDays
		}
		d = core.MigrateDebt(d)
		if d.Validate() == nil {
			s.items = append(s.items, d)
		}
	}
	return s
}

func (s *Store) ListDebts(_ context.Context) ([]core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Debt(nil), s.items...), nil
}

func (s *Store) GetDebt(_ context.Context, id string) (core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.items {
		if d.ID == id {
			return d, nil
		}
	}
	return core.Debt{}, store.ErrNotFound
}

func (s *Store) CreateDebt(_ context.Context, d core.Debt) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = core.Add(s.items, d)
	return nil
}

func (s *Store) UpdateDebt(_ context.Context, d core.Debt) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.ID == d.ID {
			s.items = core.Update(s.items, d)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteDebt(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.ID == id {
			s.items = core.Remove(s.items, id)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) RegisterPayment(_ context.Context, id string) (core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.ID == id {
			s.items = core.RegisterPayment(s.items, id)
			for _, d := range s.items {
				if d.ID == id {
					return d, nil
				}
			}
		}
	}
	return core.Debt{}, store.ErrNotFound
}
