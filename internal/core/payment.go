package core

import "math"

// MonthlyPayment derives the periodic payment from the loan parameters
// using the fixed-payment annuity formula. With a balloon the payment is
// reduced so that only the principal net of the balloon's present value is
// amortized over the term; the final scheduled payment plus the balloon
// retires the loan. Parameters are assumed valid (rate > 0).
func MonthlyPayment(p LoanParameters) float64 {
	r := p.MonthlyRate()
	n := float64(p.TermMonths())
	growth := math.Pow(1+r, n)

	if p.Balloon > 0 {
		return (p.Principal - p.Balloon/growth) * r / (1 - math.Pow(1+r, -n))
	}
	return p.Principal * r * growth / (growth - 1)
}

// effectivePayment resolves the payment the schedule generator actually
// uses: a positive caller override when the override flag is set, the
// formula value otherwise. The computed value is never fed back into the
// override input.
func effectivePayment(computed float64, overrideActive bool, override float64) float64 {
	if overrideActive && override > 0 {
		return override
	}
	return computed
}
