package core

import "testing"

func TestAddUpdateRemove(t *testing.T) {
	var debts []Debt
	a := debtFixture()
	debts = Add(debts, a)
	if len(debts) != 1 {
		t.Fatalf("Add: len = %d", len(debts))
	}

	edited := a
	edited.Description = "Renegociada"
	debts = Update(debts, edited)
	if debts[0].Description != "Renegociada" {
		t.Errorf("Update did not replace record: %q", debts[0].Description)
	}

	unknown := a
	unknown.ID = "missing"
	unknown.Description = "ghost"
	same := Update(debts, unknown)
	if len(same) != 1 || same[0].Description != "Renegociada" {
		t.Errorf("Update with unknown id changed the collection: %+v", same)
	}

	debts = Remove(debts, a.ID)
	if len(debts) != 0 {
		t.Errorf("Remove: len = %d", len(debts))
	}
}

func TestRegisterPayment(t *testing.T) {
	a := debtFixture() // 4 of 12 paid
	debts := []Debt{a}

	debts = RegisterPayment(debts, a.ID)
	if debts[0].PaidInstallments != 5 {
		t.Errorf("PaidInstallments = %d, want 5", debts[0].PaidInstallments)
	}
	// The input record is untouched.
	if a.PaidInstallments != 4 {
		t.Errorf("input debt mutated: %d", a.PaidInstallments)
	}
}

func TestRegisterPaymentClampsAtCeiling(t *testing.T) {
	a := debtFixture()
	a.PaidInstallments = a.TotalInstallments

	debts := RegisterPayment([]Debt{a}, a.ID)
	if debts[0].PaidInstallments != a.TotalInstallments {
		t.Errorf("payment on settled debt changed count to %d", debts[0].PaidInstallments)
	}
}
