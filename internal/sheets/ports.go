package sheets

import (
	"context"
	"time"
)

// QuoteRow is the ledger representation of one recorded quote: the
// parameters it was computed from and its summary totals.
type QuoteRow struct {
	RecordedAt        time.Time
	Principal         float64
	AnnualRatePercent float64
	TermYears         int
	Balloon           float64
	OverrideActive    bool
	ComputedPayment   float64
	EffectivePayment  float64
	TotalInterest     float64
	TotalPayment      float64
	Months            int
}

// LedgerWriter is the outbound port for quote export.
type LedgerWriter interface {
	// AppendQuote adds one row to the ledger and returns an adapter
	// specific row reference.
	AppendQuote(ctx context.Context, row QuoteRow) (rowRef string, err error)
}
