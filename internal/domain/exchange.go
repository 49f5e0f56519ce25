package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExchangeRequest struct {
	CreatedAt    time.Time
	CurrencyFrom string
	CurrencyTo   string
	AmountFrom   decimal.Decimal
}

// Exchange is a persisted conversion. Amounts keep full precision; rounding
// happens only when the record is rendered for a client.
type Exchange struct {
	ID           string
	CreatedAt    time.Time
	CurrencyFrom string
	CurrencyTo   string
	AmountFrom   decimal.Decimal
	AmountTo     decimal.Decimal
}
