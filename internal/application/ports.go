package application

import (
	"context"

	"exchanges-service/internal/domain"

	"github.com/shopspring/decimal"
)

// RateSource returns the multiplier converting one unit of from into to at
// date ("latest" or YYYY-MM-DD). Implementations return domain.ErrRateUnavailable
// or domain.ErrRateFormat (wrapped) for lookup failures they can attribute.
type RateSource interface {
	GetRate(ctx context.Context, from, to, date string) (decimal.Decimal, error)
}

// ExchangeStore persists exchanges. AddExchange is atomic: it either returns
// the stored record or stores nothing.
type ExchangeStore interface {
	Ping(ctx context.Context) error
	AddExchange(ctx context.Context, in domain.ExchangeRequest, amountTo decimal.Decimal) (domain.Exchange, error)
	GetExchange(ctx context.Context, id string) (domain.Exchange, error)
}
