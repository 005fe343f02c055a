package http

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mutuo/internal/cache"
	"mutuo/internal/log"
	"mutuo/internal/services"
	"mutuo/internal/storage"
)

type stubStore struct {
	records []storage.QuoteRecord
	nextID  int64
}

func (s *stubStore) Append(ctx context.Context, q storage.QuoteRecord) (int64, error) {
	s.nextID++
	q.ID = s.nextID
	q.CreatedAt = time.Now()
	s.records = append(s.records, q)
	return q.ID, nil
}

func (s *stubStore) ListRecent(ctx context.Context, limit int) ([]storage.QuoteRecord, error) {
	out := make([]storage.QuoteRecord, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

func newTestServer(t *testing.T, store *stubStore) *Server {
	t.Helper()
	logger := log.New(log.DefaultConfig())
	var svc *services.QuoteService
	if store != nil {
		svc = services.NewQuoteService(store, nil)
	} else {
		svc = services.NewQuoteService(nil, nil)
	}
	srv := NewServer(":0", svc, cache.NewLRU(16, time.Minute), nil, logger)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func postQuote(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeQuote(t *testing.T, rec *httptest.ResponseRecorder) quotePayload {
	t.Helper()
	var payload quotePayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding response: %v\nbody: %s", err, rec.Body.String())
	}
	return payload
}

func TestHandleQuote(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := postQuote(t, srv, `{"principal": 250000, "annual_rate_percent": 3.5, "term_years": 30}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	payload := decodeQuote(t, rec)
	if math.Abs(payload.ComputedPayment-1122.61) > 0.01 {
		t.Errorf("computed payment = %v, want ~1122.61", payload.ComputedPayment)
	}
	if payload.Months != 360 || len(payload.Schedule) != 360 {
		t.Errorf("months = %d, schedule len = %d, want 360", payload.Months, len(payload.Schedule))
	}
	if len(payload.Yearly) != 30 {
		t.Errorf("yearly len = %d, want 30", len(payload.Yearly))
	}
	if payload.Schedule[359].Remaining != 0 {
		t.Errorf("final remaining = %v, want 0 after rounding", payload.Schedule[359].Remaining)
	}
}

func TestHandleQuoteCommaDecimalStrings(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := postQuote(t, srv, `{"principal": "250000", "annual_rate_percent": "3,5", "term_years": "30"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	payload := decodeQuote(t, rec)
	if math.Abs(payload.ComputedPayment-1122.61) > 0.01 {
		t.Errorf("computed payment = %v, want ~1122.61", payload.ComputedPayment)
	}
}

func TestHandleQuoteOverride(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := postQuote(t, srv, `{"principal": 250000, "annual_rate_percent": 3.5, "term_years": 30, "override_payment": 2000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	payload := decodeQuote(t, rec)
	if payload.EffectivePayment != 2000 {
		t.Errorf("effective payment = %v, want 2000", payload.EffectivePayment)
	}
	if math.Abs(payload.ComputedPayment-1122.61) > 0.01 {
		t.Errorf("computed payment must stay at the formula value, got %v", payload.ComputedPayment)
	}
	if payload.Months >= 360 {
		t.Errorf("overpaying must shorten the schedule, got %d months", payload.Months)
	}
}

func TestHandleQuoteInvalidParameters(t *testing.T) {
	srv := newTestServer(t, nil)

	cases := []struct {
		name string
		body string
	}{
		{"zero principal", `{"principal": 0, "annual_rate_percent": 3.5, "term_years": 30}`},
		{"negative rate", `{"principal": 250000, "annual_rate_percent": -1, "term_years": 30}`},
		{"missing term", `{"principal": 250000, "annual_rate_percent": 3.5}`},
		{"negative balloon", `{"principal": 250000, "annual_rate_percent": 3.5, "term_years": 30, "balloon": -5}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postQuote(t, srv, tc.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422", rec.Code)
			}
			var e errorPayload
			if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil || e.Error == "" {
				t.Fatalf("expected error payload, got %s", rec.Body.String())
			}
		})
	}
}

func TestHandleQuoteMalformedBody(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := postQuote(t, srv, `{"principal": `)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleQuoteMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/quote", nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestHandleQuoteCachesResponses(t *testing.T) {
	srv := newTestServer(t, nil)

	body := `{"principal": 100000, "annual_rate_percent": 5, "term_years": 10}`
	first := postQuote(t, srv, body)
	second := postQuote(t, srv, body)
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("statuses = %d, %d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("cached response differs from first response")
	}
	if srv.quoteCache.Size() != 1 {
		t.Errorf("cache size = %d, want 1", srv.quoteCache.Size())
	}
}

func TestHandleQuoteRecordsHistory(t *testing.T) {
	store := &stubStore{}
	srv := newTestServer(t, store)

	rec := postQuote(t, srv, `{"principal": 250000, "annual_rate_percent": 3.5, "term_years": 30}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(store.records) != 1 {
		t.Fatalf("expected 1 recorded quote, got %d", len(store.records))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/quote/history?limit=5", nil)
	hrec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(hrec, req)
	if hrec.Code != http.StatusOK {
		t.Fatalf("history status = %d", hrec.Code)
	}
	var history historyPayload
	if err := json.Unmarshal(hrec.Body.Bytes(), &history); err != nil {
		t.Fatalf("decoding history: %v", err)
	}
	if len(history.Quotes) != 1 {
		t.Fatalf("history len = %d, want 1", len(history.Quotes))
	}
	if history.Quotes[0].Parameters.Principal != 250000 {
		t.Errorf("history principal = %v", history.Quotes[0].Parameters.Principal)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Server.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestReadyzFailingCheck(t *testing.T) {
	logger := log.New(log.DefaultConfig())
	svc := services.NewQuoteService(nil, nil)
	srv := NewServer(":0", svc, nil, func(ctx context.Context) error {
		return context.DeadlineExceeded
	}, logger)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
