package core

// amortizeStep applies a single period: interest accrues on the balance,
// the rest of the payment retires principal, and the principal portion is
// clamped so the last payment never overpays.
func amortizeStep(balance, rate, payment float64, month int) Entry {
	interest := balance * rate
	principal := payment - interest
	if principal > balance {
		principal = balance
	}
	return Entry{
		Month:     month,
		Interest:  interest,
		Principal: principal,
		Payment:   interest + principal,
		Remaining: balance - principal,
	}
}

// ComputeAmortization runs the whole pipeline for one parameter set:
// validation, payment derivation, schedule generation and totals. It is a
// pure function of its arguments and never fails; invalid parameters
// yield the canonical empty Result (nil schedule, zero totals) so
// presentation layers can render a neutral state.
//
// All arithmetic is carried in unrounded float64; rounding to two
// decimals happens only at presentation boundaries (see Round2).
func ComputeAmortization(p LoanParameters, overrideActive bool, overridePayment float64) Result {
	if p.Validate() != nil {
		return Result{}
	}

	computed := MonthlyPayment(p)
	payment := effectivePayment(computed, overrideActive, overridePayment)

	n := p.TermMonths()
	rate := p.MonthlyRate()
	schedule := make([]Entry, 0, n)
	balance := p.Principal
	totalInterest := 0.0
	shortfall := false

	for month := 1; month <= n && balance > 0; month++ {
		e := amortizeStep(balance, rate, payment, month)
		if month == n && p.Balloon > 0 {
			// The balloon falls due with the last scheduled payment. A
			// pre-balloon balance below the balloon means the payment
			// already over-amortized the loan; the subtraction is applied
			// unchanged and the condition is surfaced on the Result.
			if e.Remaining+centTolerance < p.Balloon {
				shortfall = true
			}
			e.Remaining -= p.Balloon
		}
		schedule = append(schedule, e)
		totalInterest += e.Interest
		balance = e.Remaining
	}

	return Result{
		Schedule:         schedule,
		ComputedPayment:  computed,
		EffectivePayment: payment,
		TotalInterest:    totalInterest,
		TotalPayment:     p.Principal + totalInterest,
		BalloonShortfall: shortfall,
	}
}
