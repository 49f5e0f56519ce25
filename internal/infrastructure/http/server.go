package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"exchanges-service/internal/application"
	"exchanges-service/internal/domain"
	infraconfig "exchanges-service/internal/infrastructure/config"
	"exchanges-service/internal/infrastructure/metrics"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	svc          *application.ExchangeService
	maxBodyBytes int64
}

type Option func(*Server)

func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

func NewServer(svc *application.ExchangeService, opts ...Option) *Server {
	s := &Server{svc: svc, maxBodyBytes: infraconfig.DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// exchangeResponse renders amounts as JSON numbers with exactly two decimals.
type exchangeResponse struct {
	ID           string      `json:"id"`
	CreatedAt    time.Time   `json:"createdAt"`
	CurrencyFrom string      `json:"currencyFrom"`
	CurrencyTo   string      `json:"currencyTo"`
	AmountFrom   json.Number `json:"amountFrom"`
	AmountTo     json.Number `json:"amountTo"`
}

func toResponse(rec domain.Exchange) exchangeResponse {
	return exchangeResponse{
		ID:           rec.ID,
		CreatedAt:    rec.CreatedAt.UTC(),
		CurrencyFrom: rec.CurrencyFrom,
		CurrencyTo:   rec.CurrencyTo,
		AmountFrom:   json.Number(domain.RoundTwo(rec.AmountFrom).StringFixed(2)),
		AmountTo:     json.Number(domain.RoundTwo(rec.AmountTo).StringFixed(2)),
	}
}

func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	if f := s.svc.Ping(r.Context()); f != nil {
		writeFailure(w, r, f)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) CreateExchange(w http.ResponseWriter, r *http.Request) {
	params, f := bindCreateExchangeParams(r)
	if f != nil {
		writeFailure(w, r, f)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		writeFailure(w, r, application.BodyUnreadable(err))
		return
	}
	rec, f := s.svc.CreateExchange(r.Context(), body, params.RateDate())
	if f != nil {
		writeFailure(w, r, f)
		return
	}
	metrics.RecordExchangeCreated(rec.CurrencyFrom, rec.CurrencyTo)
	w.Header().Set("Location", "/exchanges/"+rec.ID)
	writeJSON(w, http.StatusCreated, toResponse(rec))
}

func (s *Server) GetExchange(w http.ResponseWriter, r *http.Request) {
	rec, f := s.svc.GetExchange(r.Context(), chi.URLParam(r, "id"))
	if f != nil {
		writeFailure(w, r, f)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(rec))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
