// Package services orchestrates the amortization engine with quote
// history storage and the AMQP export pipeline.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mutuo/internal/core"
	"mutuo/internal/metrics"
	"mutuo/internal/storage"
	"mutuo/internal/tracing"
)

// QuoteStore is the slice of the repository the service needs.
type QuoteStore interface {
	Append(ctx context.Context, q storage.QuoteRecord) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]storage.QuoteRecord, error)
}

// Publisher announces recorded quotes to the export worker.
type Publisher interface {
	PublishQuoteRecorded(ctx context.Context, id int64) error
}

// Quote is a fully computed amortization quote: the engine result plus
// the yearly rollup used for charting.
type Quote struct {
	Result core.Result
	Yearly []core.YearlySummary
}

// QuoteService computes quotes and records their history. The engine
// itself stays pure; everything stateful lives here.
type QuoteService struct {
	store     QuoteStore
	publisher Publisher
}

func NewQuoteService(store QuoteStore, publisher Publisher) *QuoteService {
	return &QuoteService{store: store, publisher: publisher}
}

// Quote validates the parameters, computes the full amortization result
// and records the quote (parameters and totals only). Recording failures
// are logged, not returned: the quote itself is already computed and
// valid for the caller.
func (s *QuoteService) Quote(ctx context.Context, p core.LoanParameters, overrideActive bool, overridePayment float64) (Quote, error) {
	if tracing.Tracer != nil {
		var span trace.Span
		ctx, span = tracing.Tracer.Start(ctx, "quote.compute",
			trace.WithAttributes(
				attribute.Float64("loan.principal", p.Principal),
				attribute.Float64("loan.annual_rate_percent", p.AnnualRatePercent),
				attribute.Int("loan.term_years", p.TermYears),
				attribute.Float64("loan.balloon", p.Balloon),
				attribute.Bool("loan.override_active", overrideActive),
			))
		defer span.End()
	}

	if err := p.Validate(); err != nil {
		metrics.ValidationFailures.WithLabelValues(err.Error()).Inc()
		metrics.QuotesComputed.WithLabelValues("invalid").Inc()
		return Quote{}, fmt.Errorf("validate parameters: %w", err)
	}

	result := core.ComputeAmortization(p, overrideActive, overridePayment)
	quote := Quote{
		Result: result,
		Yearly: core.YearlyTotals(result.Schedule, p.TermYears),
	}
	metrics.QuotesComputed.WithLabelValues("ok").Inc()

	s.record(ctx, p, overrideActive, overridePayment, result)

	return quote, nil
}

// History returns the most recent recorded quotes.
func (s *QuoteService) History(ctx context.Context, limit int) ([]storage.QuoteRecord, error) {
	if s.store == nil {
		return nil, errors.New("quote history storage not configured")
	}
	return s.store.ListRecent(ctx, limit)
}

// record writes the quote row and notifies the export worker. Both steps
// are best effort.
func (s *QuoteService) record(ctx context.Context, p core.LoanParameters, overrideActive bool, overridePayment float64, result core.Result) {
	if s.store == nil {
		return
	}

	id, err := s.store.Append(ctx, storage.QuoteRecord{
		Principal:         p.Principal,
		AnnualRatePercent: p.AnnualRatePercent,
		TermYears:         p.TermYears,
		Balloon:           p.Balloon,
		OverrideActive:    overrideActive,
		OverridePayment:   overridePayment,
		ComputedPayment:   result.ComputedPayment,
		EffectivePayment:  result.EffectivePayment,
		TotalInterest:     result.TotalInterest,
		TotalPayment:      result.TotalPayment,
		Months:            len(result.Schedule),
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to record quote", "error", err)
		return
	}

	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP publisher not available, skipping quote recorded message", "id", id)
		return
	}
	if err := s.publisher.PublishQuoteRecorded(ctx, id); err != nil {
		// The periodic worker pass picks the row up later.
		slog.ErrorContext(ctx, "Failed to publish quote recorded message", "id", id, "error", err)
	}
}
