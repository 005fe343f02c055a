package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"mutuo/internal/core"
	"mutuo/internal/log"
	"mutuo/internal/metrics"
)

// handleQuote computes an amortization quote. Responses are cached by
// the canonical parameter tuple; a cache hit skips both the engine and
// history recording, which is safe because the payload is a pure
// function of the parameters.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	req, err := parseQuoteRequest(r)
	if err != nil {
		s.logger.WarnContext(r.Context(), "Malformed quote request", log.FieldError, err)
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	params, err := req.Parameters()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	if s.quoteCache != nil {
		key := quoteCacheKey(params, req.OverrideActive, req.OverridePayment)
		if cached, found := s.quoteCache.Get(key); found {
			metrics.CacheRequests.WithLabelValues("hit").Inc()
			writeJSONString(w, http.StatusOK, cached)
			return
		}
		metrics.CacheRequests.WithLabelValues("miss").Inc()
	}

	quote, err := s.quotes.Quote(r.Context(), params, req.OverrideActive, req.OverridePayment)
	if err != nil {
		// Parameters were already validated, so any error here is a
		// genuine server-side failure.
		s.logger.ErrorContext(r.Context(), "Quote computation failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "quote computation failed")
		return
	}

	payload := buildQuotePayload(params, req.OverrideActive, req.OverridePayment, quote)
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Quote payload encoding failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "response encoding failed")
		return
	}

	if s.quoteCache != nil {
		s.quoteCache.Set(quoteCacheKey(params, req.OverrideActive, req.OverridePayment), string(body))
	}
	writeJSONString(w, http.StatusOK, string(body))
}

// handleHistory lists recent quotes, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := parseLimit(r.URL.Query(), defaultHistoryLimit, maxHistoryLimit)
	records, err := s.quotes.History(r.Context(), limit)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "History lookup failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "history lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, buildHistoryPayload(records))
}

// validationMessage maps a validation sentinel to a client message.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidPrincipal):
		return "principal must be a positive amount"
	case errors.Is(err, core.ErrInvalidRate):
		return "annual rate must be a positive percentage"
	case errors.Is(err, core.ErrInvalidTerm):
		return "term must be a positive number of years"
	case errors.Is(err, core.ErrInvalidBalloon):
		return "balloon must be a non-negative amount"
	default:
		return "invalid loan parameters"
	}
}
