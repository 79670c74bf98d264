package core

// Collection mutation helpers. Every "mutation" produces a new slice value;
// the snapshot handed in is never written to, so any view derived from it
// stays consistent.

// Add appends a debt and returns the new collection.
func Add(debts []Debt, d Debt) []Debt {
	out := make([]Debt, 0, len(debts)+1)
	out = append(out, debts...)
	return append(out, d)
}

// Update replaces the record whose ID matches, by value. An unknown id
// leaves the collection unchanged.
func Update(debts []Debt, updated Debt) []Debt {
	out := append([]Debt(nil), debts...)
	for i, d := range out {
		if d.ID == updated.ID {
			out[i] = updated
		}
	}
	return out
}

// Remove drops the record with the given id.
func Remove(debts []Debt, id string) []Debt {
	out := make([]Debt, 0, len(debts))
	for _, d := range debts {
		if d.ID != id {
			out = append(out, d)
		}
	}
	return out
}

// RegisterPayment increments the paid-installments counter of the matching
// debt by exactly one, clamped at the total. Paying an already settled debt
// is a no-op.
func RegisterPayment(debts []Debt, id string) []Debt {
	out := append([]Debt(nil), debts...)
	for i, d := range out {
		if d.ID == id && d.PaidInstallments < d.TotalInstallments {
			out[i].PaidInstallments = d.PaidInstallments + 1
		}
	}
	return out
}
