package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"exchanges-service/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrRepo = errors.New("repo error")
)

type fakeStore struct {
	mu       sync.Mutex
	records  map[string]domain.Exchange
	addCalls int
	addErr   error
	getErr   error
	pingErr  error
	seq      int
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) AddExchange(_ context.Context, in domain.ExchangeRequest, amountTo decimal.Decimal) (domain.Exchange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	if f.addErr != nil {
		return domain.Exchange{}, f.addErr
	}
	if f.records == nil {
		f.records = map[string]domain.Exchange{}
	}
	f.seq++
	rec := domain.Exchange{
		ID:           fmt.Sprintf("00000000-0000-4000-8000-%012d", f.seq),
		CreatedAt:    in.CreatedAt,
		CurrencyFrom: in.CurrencyFrom,
		CurrencyTo:   in.CurrencyTo,
		AmountFrom:   in.AmountFrom,
		AmountTo:     amountTo,
	}
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeStore) GetExchange(_ context.Context, id string) (domain.Exchange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return domain.Exchange{}, f.getErr
	}
	rec, ok := f.records[id]
	if !ok {
		return domain.Exchange{}, domain.ErrNotFound
	}
	return rec, nil
}

type rateCall struct{ from, to, date string }

type fakeRates struct {
	rate  decimal.Decimal
	err   error
	calls []rateCall
}

func (f *fakeRates) GetRate(_ context.Context, from, to, date string) (decimal.Decimal, error) {
	f.calls = append(f.calls, rateCall{from, to, date})
	if f.err != nil {
		return decimal.Decimal{}, f.err
	}
	return f.rate, nil
}
