package core

import (
	"math"
	"testing"
)

func approx(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %v, want %v (±%v)", name, got, want, tol)
	}
}

func TestAmortizeStep(t *testing.T) {
	e := amortizeStep(1000, 0.01, 100, 5)
	approx(t, "interest", e.Interest, 10, 1e-9)
	approx(t, "principal", e.Principal, 90, 1e-9)
	approx(t, "payment", e.Payment, 100, 1e-9)
	approx(t, "remaining", e.Remaining, 910, 1e-9)
	if e.Month != 5 {
		t.Fatalf("month = %d, want 5", e.Month)
	}
}

func TestAmortizeStepClampsFinalPayment(t *testing.T) {
	e := amortizeStep(50, 0.01, 100, 1)
	approx(t, "principal", e.Principal, 50, 1e-9)
	approx(t, "remaining", e.Remaining, 0, 1e-9)
	approx(t, "payment", e.Payment, 50.5, 1e-9)
}

func TestComputeAmortizationBase(t *testing.T) {
	p := LoanParameters{Principal: 250000, AnnualRatePercent: 3.5, TermYears: 30}
	res := ComputeAmortization(p, false, 0)

	approx(t, "computed payment", res.ComputedPayment, 1122.61, 0.01)
	if res.EffectivePayment != res.ComputedPayment {
		t.Fatalf("effective payment should equal computed without override")
	}
	if len(res.Schedule) == 0 || len(res.Schedule) > p.TermMonths() {
		t.Fatalf("schedule length = %d, want 1..%d", len(res.Schedule), p.TermMonths())
	}

	first := res.Schedule[0]
	approx(t, "month-1 interest", first.Interest, 729.17, 0.01)
	approx(t, "month-1 principal", first.Principal, 393.44, 0.01)
	approx(t, "month-1 remaining", first.Remaining, 249606.56, 0.01)

	last := res.Schedule[len(res.Schedule)-1]
	approx(t, "final remaining", last.Remaining, 0, 1e-2)
	approx(t, "total payment", res.TotalPayment, p.Principal+res.TotalInterest, 1e-9)
	if res.BalloonShortfall {
		t.Fatalf("unexpected balloon shortfall")
	}
}

func TestComputeAmortizationProperties(t *testing.T) {
	cases := []LoanParameters{
		{Principal: 250000, AnnualRatePercent: 3.5, TermYears: 30},
		{Principal: 10000, AnnualRatePercent: 12, TermYears: 2},
		{Principal: 1500, AnnualRatePercent: 0.5, TermYears: 1},
		{Principal: 100000, AnnualRatePercent: 5, TermYears: 10, Balloon: 20000},
	}
	for i, p := range cases {
		res := ComputeAmortization(p, false, 0)

		prev := p.Principal
		sumPrincipal := 0.0
		sumInterest := 0.0
		for _, e := range res.Schedule {
			if e.Remaining > prev+centTolerance {
				t.Fatalf("case %d month %d balance increased: %v -> %v", i, e.Month, prev, e.Remaining)
			}
			approx(t, "payment split", e.Payment, e.Interest+e.Principal, 1e-9)
			prev = e.Remaining
			sumPrincipal += e.Principal
			sumInterest += e.Interest
		}

		// Regular principal plus the terminal balloon retires the loan.
		approx(t, "principal recovered", sumPrincipal+p.Balloon, p.Principal, 0.01)
		approx(t, "total interest", res.TotalInterest, sumInterest, 1e-6)
		approx(t, "total payment", res.TotalPayment, p.Principal+res.TotalInterest, 1e-9)
	}
}

func TestComputeAmortizationBalloon(t *testing.T) {
	base := LoanParameters{Principal: 250000, AnnualRatePercent: 3.5, TermYears: 30}
	balloon := base
	balloon.Balloon = 50000

	baseRes := ComputeAmortization(base, false, 0)
	res := ComputeAmortization(balloon, false, 0)

	if res.ComputedPayment >= baseRes.ComputedPayment {
		t.Fatalf("balloon payment %v should be below base payment %v",
			res.ComputedPayment, baseRes.ComputedPayment)
	}
	if len(res.Schedule) != balloon.TermMonths() {
		t.Fatalf("schedule length = %d, want %d", len(res.Schedule), balloon.TermMonths())
	}
	last := res.Schedule[len(res.Schedule)-1]
	approx(t, "final remaining after balloon", last.Remaining, 0, 1e-2)
	if res.BalloonShortfall {
		t.Fatalf("unexpected balloon shortfall")
	}
}

func TestComputeAmortizationOverride(t *testing.T) {
	p := LoanParameters{Principal: 250000, AnnualRatePercent: 3.5, TermYears: 30}
	res := ComputeAmortization(p, true, 2000)

	if res.EffectivePayment != 2000 {
		t.Fatalf("effective payment = %v, want 2000", res.EffectivePayment)
	}
	approx(t, "computed payment", res.ComputedPayment, 1122.61, 0.01)
	if len(res.Schedule) >= p.TermMonths() {
		t.Fatalf("override should pay off early, got %d months", len(res.Schedule))
	}
	last := res.Schedule[len(res.Schedule)-1]
	approx(t, "final remaining", last.Remaining, 0, 1e-2)
}

func TestComputeAmortizationInactiveOverrideIgnored(t *testing.T) {
	p := LoanParameters{Principal: 250000, AnnualRatePercent: 3.5, TermYears: 30}
	res := ComputeAmortization(p, false, 2000)
	if res.EffectivePayment != res.ComputedPayment {
		t.Fatalf("inactive override must not change the effective payment")
	}
}

func TestComputeAmortizationBalloonShortfall(t *testing.T) {
	// An override too low to leave the balloon owed at term end: the
	// subtraction still happens and the condition is surfaced.
	p := LoanParameters{Principal: 100000, AnnualRatePercent: 5, TermYears: 10, Balloon: 50000}
	res := ComputeAmortization(p, true, 900)

	if !res.BalloonShortfall {
		t.Fatalf("expected balloon shortfall to be reported")
	}
	if len(res.Schedule) != p.TermMonths() {
		t.Fatalf("schedule length = %d, want %d", len(res.Schedule), p.TermMonths())
	}
	last := res.Schedule[len(res.Schedule)-1]
	if last.Remaining >= 0 {
		t.Fatalf("final remaining = %v, expected negative after balloon", last.Remaining)
	}
}

func TestComputeAmortizationInvalidInput(t *testing.T) {
	cases := []LoanParameters{
		{Principal: 0, AnnualRatePercent: 3.5, TermYears: 30},
		{Principal: 250000, AnnualRatePercent: 0, TermYears: 30},
		{Principal: 250000, AnnualRatePercent: 3.5, TermYears: 0},
		{Principal: 250000, AnnualRatePercent: 3.5, TermYears: 30, Balloon: -1},
		{Principal: math.NaN(), AnnualRatePercent: 3.5, TermYears: 30},
	}
	for i, p := range cases {
		res := ComputeAmortization(p, false, 0)
		if len(res.Schedule) != 0 {
			t.Fatalf("case %d expected empty schedule", i)
		}
		if res.TotalInterest != 0 || res.TotalPayment != 0 ||
			res.ComputedPayment != 0 || res.EffectivePayment != 0 {
			t.Fatalf("case %d expected zero totals, got %+v", i, res)
		}
	}
}
