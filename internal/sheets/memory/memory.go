// Package memory implements the ledger port in memory, for development
// runs and tests.
package memory

import (
	"context"
	"strconv"
	"sync"

	ports "mutuo/internal/sheets"
)

type Ledger struct {
	mu   sync.Mutex
	rows []ports.QuoteRow
}

var _ ports.LedgerWriter = (*Ledger)(nil)

func New() *Ledger {
	return &Ledger{}
}

func (l *Ledger) AppendQuote(ctx context.Context, row ports.QuoteRow) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rows = append(l.rows, row)
	return strconv.Itoa(len(l.rows)), nil
}

// Rows returns a copy of all appended rows.
func (l *Ledger) Rows() []ports.QuoteRow {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]ports.QuoteRow, len(l.rows))
	copy(out, l.rows)
	return out
}
