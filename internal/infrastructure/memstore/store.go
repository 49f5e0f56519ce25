package memstore

import (
	"context"
	"fmt"
	"sync"

	"exchanges-service/internal/application"
	"exchanges-service/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var _ application.ExchangeStore = (*Store)(nil)

// Store keeps exchanges in process memory. Used for local runs and tests.
type Store struct {
	mu      sync.RWMutex
	records map[string]domain.Exchange
	idgen   func() string
	pingErr error
	addErr  error
	adds    int
}

type Option func(*Store)

func WithIDGen(g func() string) Option { return func(s *Store) { s.idgen = g } }

// WithFailures makes Ping and AddExchange return the given errors.
func WithFailures(ping, add error) Option {
	return func(s *Store) { s.pingErr, s.addErr = ping, add }
}

func New(opts ...Option) *Store {
	s := &Store{records: map[string]domain.Exchange{}, idgen: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Ping(context.Context) error { return s.pingErr }

func (s *Store) AddExchange(ctx context.Context, in domain.ExchangeRequest, amountTo decimal.Decimal) (domain.Exchange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adds++
	if s.addErr != nil {
		return domain.Exchange{}, s.addErr
	}
	if err := ctx.Err(); err != nil {
		return domain.Exchange{}, fmt.Errorf("memstore: %w: %w", domain.ErrStoreUnavailable, err)
	}
	rec := domain.Exchange{
		ID:           s.idgen(),
		CreatedAt:    in.CreatedAt,
		CurrencyFrom: in.CurrencyFrom,
		CurrencyTo:   in.CurrencyTo,
		AmountFrom:   in.AmountFrom,
		AmountTo:     amountTo,
	}
	s.records[rec.ID] = rec
	return rec, nil
}

func (s *Store) GetExchange(_ context.Context, id string) (domain.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return domain.Exchange{}, domain.ErrNotFound
	}
	return rec, nil
}

// AddCalls reports how many times AddExchange was invoked, including failed calls.
func (s *Store) AddCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.adds
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
