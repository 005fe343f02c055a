package memory

import (
	"context"
	"testing"
	"time"

	ports "mutuo/internal/sheets"
)

func TestLedgerAppend(t *testing.T) {
	l := New()

	row := ports.QuoteRow{
		RecordedAt:        time.Now(),
		Principal:         250000,
		AnnualRatePercent: 3.5,
		TermYears:         30,
		ComputedPayment:   1122.61,
		EffectivePayment:  1122.61,
		Months:            360,
	}

	ref, err := l.AppendQuote(context.Background(), row)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "1" {
		t.Fatalf("row ref = %q, want 1", ref)
	}

	rows := l.Rows()
	if len(rows) != 1 || rows[0].Principal != 250000 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}
