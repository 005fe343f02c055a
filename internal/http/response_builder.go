package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"mutuo/internal/core"
	"mutuo/internal/services"
	"mutuo/internal/storage"
)

// The engine works on unrounded values throughout; amounts are rounded
// to cents only here, at the presentation boundary.

type parametersPayload struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TermYears         int     `json:"term_years"`
	Balloon           float64 `json:"balloon,omitempty"`
	OverrideActive    bool    `json:"override_active,omitempty"`
	OverridePayment   float64 `json:"override_payment,omitempty"`
}

type entryPayload struct {
	Month     int     `json:"month"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Payment   float64 `json:"payment"`
	Remaining float64 `json:"remaining"`
}

type yearlyPayload struct {
	Year      int     `json:"year"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
}

type quotePayload struct {
	Parameters       parametersPayload `json:"parameters"`
	ComputedPayment  float64           `json:"computed_payment"`
	EffectivePayment float64           `json:"effective_payment"`
	TotalInterest    float64           `json:"total_interest"`
	TotalPayment     float64           `json:"total_payment"`
	Months           int               `json:"months"`
	BalloonShortfall bool              `json:"balloon_shortfall"`
	Schedule         []entryPayload    `json:"schedule"`
	Yearly           []yearlyPayload   `json:"yearly"`
}

type historyEntryPayload struct {
	ID               int64             `json:"id"`
	CreatedAt        string            `json:"created_at"`
	Parameters       parametersPayload `json:"parameters"`
	ComputedPayment  float64           `json:"computed_payment"`
	EffectivePayment float64           `json:"effective_payment"`
	TotalInterest    float64           `json:"total_interest"`
	TotalPayment     float64           `json:"total_payment"`
	Months           int               `json:"months"`
}

type historyPayload struct {
	Quotes []historyEntryPayload `json:"quotes"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func buildQuotePayload(p core.LoanParameters, overrideActive bool, overridePayment float64, quote services.Quote) quotePayload {
	out := quotePayload{
		Parameters: parametersPayload{
			Principal:         core.Round2(p.Principal),
			AnnualRatePercent: p.AnnualRatePercent,
			TermYears:         p.TermYears,
			Balloon:           core.Round2(p.Balloon),
			OverrideActive:    overrideActive,
			OverridePayment:   core.Round2(overridePayment),
		},
		ComputedPayment:  core.Round2(quote.Result.ComputedPayment),
		EffectivePayment: core.Round2(quote.Result.EffectivePayment),
		TotalInterest:    core.Round2(quote.Result.TotalInterest),
		TotalPayment:     core.Round2(quote.Result.TotalPayment),
		Months:           len(quote.Result.Schedule),
		BalloonShortfall: quote.Result.BalloonShortfall,
		Schedule:         make([]entryPayload, 0, len(quote.Result.Schedule)),
		Yearly:           make([]yearlyPayload, 0, len(quote.Yearly)),
	}
	for _, e := range quote.Result.Schedule {
		out.Schedule = append(out.Schedule, entryPayload{
			Month:     e.Month,
			Interest:  core.Round2(e.Interest),
			Principal: core.Round2(e.Principal),
			Payment:   core.Round2(e.Payment),
			Remaining: core.Round2(e.Remaining),
		})
	}
	for _, y := range quote.Yearly {
		out.Yearly = append(out.Yearly, yearlyPayload{
			Year:      y.Year,
			Principal: core.Round2(y.Principal),
			Interest:  core.Round2(y.Interest),
		})
	}
	return out
}

func buildHistoryPayload(records []storage.QuoteRecord) historyPayload {
	out := historyPayload{Quotes: make([]historyEntryPayload, 0, len(records))}
	for _, rec := range records {
		out.Quotes = append(out.Quotes, historyEntryPayload{
			ID:        rec.ID,
			CreatedAt: rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			Parameters: parametersPayload{
				Principal:         core.Round2(rec.Principal),
				AnnualRatePercent: rec.AnnualRatePercent,
				TermYears:         rec.TermYears,
				Balloon:           core.Round2(rec.Balloon),
				OverrideActive:    rec.OverrideActive,
				OverridePayment:   core.Round2(rec.OverridePayment),
			},
			ComputedPayment:  core.Round2(rec.ComputedPayment),
			EffectivePayment: core.Round2(rec.EffectivePayment),
			TotalInterest:    core.Round2(rec.TotalInterest),
			TotalPayment:     core.Round2(rec.TotalPayment),
			Months:           rec.Months,
		})
	}
	return out
}

// quoteCacheKey builds the canonical cache key for a parameter tuple.
// Two requests with the same key are guaranteed the same payload, since
// the engine is a pure function of its parameters.
func quoteCacheKey(p core.LoanParameters, overrideActive bool, overridePayment float64) string {
	return fmt.Sprintf("q|%g|%g|%d|%g|%t|%g",
		p.Principal, p.AnnualRatePercent, p.TermYears, p.Balloon, overrideActive, overridePayment)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONString(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorPayload{Error: msg})
}
