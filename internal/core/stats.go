package core

// Statistics is the aggregate financial view of a debt collection. All
// values are plain float64 sums; summation order does not change the result
// beyond ordinary floating-point noise, which callers must not depend on.
type Statistics struct {
	TotalDebt          float64
	TotalPaid          float64
	RemainingDebt      float64
	ProgressPercentage float64
	MonthlyCommitment  float64
}

// InstallmentValue is the size of one equal installment. Zero installments
// cannot happen for a valid record; the guard mirrors the aggregate
// zero-total case rather than letting a division error escape.
func (d Debt) InstallmentValue() float64 {
	if d.TotalInstallments == 0 {
		return 0
	}
	return d.TotalValue / float64(d.TotalInstallments)
}

// PaidValue is the amount already paid off.
func (d Debt) PaidValue() float64 {
	return d.InstallmentValue() * float64(d.PaidInstallments)
}

// RemainingValue is the amount still owed.
func (d Debt) RemainingValue() float64 {
	return d.TotalValue - d.PaidValue()
}

// Progress is the per-debt completion percentage in [0,100]. The clamp
// guards against a transient over-payment snapshot; valid records never
// need it.
func (d Debt) Progress() float64 {
	if d.TotalInstallments == 0 {
		return 0
	}
	p := float64(d.PaidInstallments) / float64(d.TotalInstallments) * 100
	if p > 100 {
		return 100
	}
	return p
}

// Summarize folds a collection into its aggregate statistics. It is a pure
// fold over the snapshot: aggregating any partition of the collection and
// summing the parts gives the same totals.
func Summarize(debts []Debt) Statistics {
	var s Statistics
	for _, d := range debts {
		s.TotalDebt += d.TotalValue
		s.TotalPaid += d.PaidValue()
		s.RemainingDebt += d.RemainingValue()
		if !d.Settled() {
			s.MonthlyCommitment += d.InstallmentValue()
		}
	}
	if s.TotalDebt > 0 {
		s.ProgressPercentage = s.TotalPaid / s.TotalDebt * 100
	}
	return s
}
