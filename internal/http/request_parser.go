// Package http exposes the quote API: POST /api/quote computes an
// amortization schedule, GET /api/quote/history lists recent quotes.
//
// This file turns request bodies into validated loan parameters. The
// API accepts both JSON and form-encoded bodies, and numeric fields may
// arrive as JSON numbers or as strings with either a dot or a comma
// decimal separator.
package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"mutuo/internal/core"
)

// quoteRequest holds the parsed body fields of a quote computation
// request before they are normalized into core.LoanParameters.
type quoteRequest struct {
	Principal         string
	AnnualRatePercent string
	TermYears         string
	Balloon           string
	OverrideActive    bool
	OverridePayment   float64
}

// maxBodyBytes caps request bodies. Quote requests are a handful of
// scalar fields; anything larger is rejected outright.
const maxBodyBytes = 64 * 1024

// parseQuoteRequest reads and decodes the request body. JSON is tried
// first when the body looks like an object, otherwise the body is
// parsed as form data.
func parseQuoteRequest(r *http.Request) (quoteRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return quoteRequest{}, err
	}

	if len(body) > 0 && body[0] == '{' {
		return parseJSONQuoteRequest(body)
	}
	return parseFormQuoteRequest(string(body))
}

func parseJSONQuoteRequest(body []byte) (quoteRequest, error) {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return quoteRequest{}, err
	}

	req := quoteRequest{
		Principal:         stringField(fields, "principal"),
		AnnualRatePercent: stringField(fields, "annual_rate_percent"),
		TermYears:         stringField(fields, "term_years"),
		Balloon:           stringField(fields, "balloon"),
	}
	if v, ok := fields["override_payment"]; ok {
		if pay, perr := strconv.ParseFloat(strings.ReplaceAll(stringValue(v), ",", "."), 64); perr == nil {
			req.OverridePayment = pay
		}
	}
	req.OverrideActive = boolField(fields, "override_active") || req.OverridePayment > 0
	return req, nil
}

func parseFormQuoteRequest(body string) (quoteRequest, error) {
	form, err := url.ParseQuery(body)
	if err != nil {
		return quoteRequest{}, err
	}

	req := quoteRequest{
		Principal:         strings.TrimSpace(form.Get("principal")),
		AnnualRatePercent: strings.TrimSpace(form.Get("annual_rate_percent")),
		TermYears:         strings.TrimSpace(form.Get("term_years")),
		Balloon:           strings.TrimSpace(form.Get("balloon")),
	}
	if v := strings.TrimSpace(form.Get("override_payment")); v != "" {
		if pay, perr := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64); perr == nil {
			req.OverridePayment = pay
		}
	}
	switch strings.TrimSpace(form.Get("override_active")) {
	case "true", "on", "1":
		req.OverrideActive = true
	default:
		req.OverrideActive = req.OverridePayment > 0
	}
	return req, nil
}

// Parameters normalizes the raw fields into validated loan parameters.
func (q quoteRequest) Parameters() (core.LoanParameters, error) {
	return core.ParseLoanParameters(core.RawParameters{
		Principal:         q.Principal,
		AnnualRatePercent: q.AnnualRatePercent,
		TermYears:         q.TermYears,
		Balloon:           q.Balloon,
	})
}

func stringField(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(stringValue(v))
}

func boolField(fields map[string]any, key string) bool {
	v, ok := fields[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// stringValue converts a decoded JSON value to its string form.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// parseLimit reads the history limit query parameter, clamped to
// [1, maxHistoryLimit] with a default when absent or unparsable.
func parseLimit(query url.Values, def, max int) int {
	v := strings.TrimSpace(query.Get("limit"))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
