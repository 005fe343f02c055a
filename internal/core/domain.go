package core

import (
	"errors"
	"math"
)

const (
	monthsPerYear = 12

	// centTolerance is the cent-level slack used when comparing
	// floating-point balances.
	centTolerance = 0.01
)

type (
	// LoanParameters describes one fixed-rate, fixed-term loan.
	LoanParameters struct {
		Principal         float64
		AnnualRatePercent float64
		TermYears         int
		// Balloon is the lump sum due at the end of the term, 0 when the
		// loan amortizes fully through regular payments.
		Balloon float64
	}

	// Entry is one row of an amortization schedule. Payment is always
	// Interest + Principal; Remaining is the balance after the payment
	// (and, in the final period, after the balloon) is applied.
	Entry struct {
		Month     int
		Interest  float64
		Principal float64
		Payment   float64
		Remaining float64
	}

	// Result bundles a computed schedule with its totals. ComputedPayment
	// is always the formula value, regardless of any override, so callers
	// can show what the formula recommends next to what was actually paid.
	Result struct {
		Schedule         []Entry
		ComputedPayment  float64
		EffectivePayment float64
		TotalInterest    float64
		TotalPayment     float64
		// BalloonShortfall reports that the balance left before the
		// final balloon subtraction was smaller than the balloon itself,
		// i.e. the effective payment over-amortized the loan relative to
		// the intended balloon. The schedule is not corrected; callers
		// decide what to do with it.
		BalloonShortfall bool
	}
)

var (
	ErrInvalidPrincipal = errors.New("invalid principal")
	ErrInvalidRate      = errors.New("invalid interest rate")
	ErrInvalidTerm      = errors.New("invalid term")
	ErrInvalidBalloon   = errors.New("invalid balloon amount")
)

// Validate checks the parameter invariants: principal, rate and term
// strictly positive, balloon non-negative, every float finite.
func (p LoanParameters) Validate() error {
	if !isFinite(p.Principal) || p.Principal <= 0 {
		return ErrInvalidPrincipal
	}
	if !isFinite(p.AnnualRatePercent) || p.AnnualRatePercent <= 0 {
		return ErrInvalidRate
	}
	if p.TermYears <= 0 {
		return ErrInvalidTerm
	}
	if !isFinite(p.Balloon) || p.Balloon < 0 {
		return ErrInvalidBalloon
	}
	return nil
}

// MonthlyRate returns the periodic rate applied once per month.
func (p LoanParameters) MonthlyRate() float64 {
	return p.AnnualRatePercent / 100 / monthsPerYear
}

// TermMonths returns the number of scheduled periods.
func (p LoanParameters) TermMonths() int {
	return p.TermYears * monthsPerYear
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
