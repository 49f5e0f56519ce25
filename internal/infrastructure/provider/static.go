package provider

import (
	"context"
	"fmt"

	"exchanges-service/internal/application"
	"exchanges-service/internal/domain"

	"github.com/shopspring/decimal"
)

var _ application.RateSource = (*StaticTable)(nil)

// StaticTable serves rates from a fixed in-memory table keyed by "FROM/TO".
// The date is ignored.
type StaticTable struct {
	rates map[string]decimal.Decimal
}

// DefaultRates is the table used when RATE_SOURCE=static.
func DefaultRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"EUR/EUR": decimal.NewFromInt(1),
		"USD/USD": decimal.NewFromInt(1),
		"EUR/USD": decimal.RequireFromString("1.131857"),
		"USD/EUR": decimal.RequireFromString("0.86207"),
	}
}

func NewStaticTable(rates map[string]decimal.Decimal) *StaticTable {
	cp := make(map[string]decimal.Decimal, len(rates))
	for k, v := range rates {
		cp[k] = v
	}
	return &StaticTable{rates: cp}
}

func (s *StaticTable) GetRate(_ context.Context, from, to, _ string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	rate, ok := s.rates[from+"/"+to]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("static: %s/%s: %w", from, to, domain.ErrRateUnavailable)
	}
	return rate, nil
}
