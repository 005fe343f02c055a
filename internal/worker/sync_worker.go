// Package worker exports recorded quotes from local storage to the
// configured ledger.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"mutuo/internal/amqp"
	"mutuo/internal/metrics"
	"mutuo/internal/sheets"
	"mutuo/internal/storage"
)

// QuoteSource is the slice of the repository the worker needs.
type QuoteSource interface {
	GetQuote(ctx context.Context, id int64) (storage.QuoteRecord, error)
	GetPendingSync(ctx context.Context, limit int) ([]storage.QuoteRecord, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

// SyncWorker moves quote rows from SQLite to the ledger.
type SyncWorker struct {
	source    QuoteSource
	ledger    sheets.LedgerWriter
	batchSize int
}

func NewSyncWorker(source QuoteSource, ledger sheets.LedgerWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		source:    source,
		ledger:    ledger,
		batchSize: batchSize,
	}
}

// HandleQuoteRecorded processes a single quote-recorded message.
func (w *SyncWorker) HandleQuoteRecorded(ctx context.Context, msg *amqp.QuoteRecordedMessage) error {
	quote, err := w.source.GetQuote(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get quote from storage: %w", err)
	}
	if quote.Synced {
		slog.InfoContext(ctx, "Quote already synced, skipping", "id", quote.ID)
		return nil
	}
	return w.export(ctx, quote)
}

// ProcessPendingQuotes syncs any rows the message path missed, up to the
// configured batch size per pass.
func (w *SyncWorker) ProcessPendingQuotes(ctx context.Context) error {
	pending, err := w.source.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending quotes: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending quotes", "count", len(pending))

	for _, quote := range pending {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := w.export(ctx, quote); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending quote",
				"id", quote.ID,
				"error", err)
			if markErr := w.source.MarkSyncError(ctx, quote.ID); markErr != nil {
				slog.ErrorContext(ctx, "Failed to flag sync error", "id", quote.ID, "error", markErr)
			}
		}
	}
	return nil
}

// StartupSyncCheck runs one pending pass at boot so restarts do not lose
// rows whose messages were dropped.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	return w.ProcessPendingQuotes(ctx)
}

func (w *SyncWorker) export(ctx context.Context, quote storage.QuoteRecord) error {
	row := sheets.QuoteRow{
		RecordedAt:        quote.CreatedAt,
		Principal:         quote.Principal,
		AnnualRatePercent: quote.AnnualRatePercent,
		TermYears:         quote.TermYears,
		Balloon:           quote.Balloon,
		OverrideActive:    quote.OverrideActive,
		ComputedPayment:   quote.ComputedPayment,
		EffectivePayment:  quote.EffectivePayment,
		TotalInterest:     quote.TotalInterest,
		TotalPayment:      quote.TotalPayment,
		Months:            quote.Months,
	}

	rowRef, err := w.ledger.AppendQuote(ctx, row)
	if err != nil {
		metrics.LedgerSyncs.WithLabelValues("error").Inc()
		return fmt.Errorf("append quote to ledger: %w", err)
	}

	if err := w.source.MarkSynced(ctx, quote.ID); err != nil {
		return fmt.Errorf("mark quote synced: %w", err)
	}

	metrics.LedgerSyncs.WithLabelValues("ok").Inc()
	slog.InfoContext(ctx, "Quote synced to ledger",
		"id", quote.ID,
		"row_ref", rowRef)
	return nil
}
