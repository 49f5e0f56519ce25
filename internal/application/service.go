package application

import (
	"context"
	"errors"
	"fmt"

	"exchanges-service/internal/domain"

	"github.com/google/uuid"
)

// LatestDate asks a RateSource for its most recent rate.
const LatestDate = "latest"

type ExchangeService struct {
	rates RateSource
	store ExchangeStore
}

func NewExchangeService(rates RateSource, store ExchangeStore) *ExchangeService {
	return &ExchangeService{rates: rates, store: store}
}

// CreateExchange runs the full pipeline over a raw request body. Stages run
// once each, in order; the first failure stops the pipeline.
func (s *ExchangeService) CreateExchange(ctx context.Context, body []byte, date string) (domain.Exchange, *Failure) {
	in, f := DecodeRequest(body)
	if f != nil {
		return domain.Exchange{}, f
	}
	return s.Exchange(ctx, in, date)
}

// Exchange converts and stores an already decoded request.
func (s *ExchangeService) Exchange(ctx context.Context, in domain.ExchangeRequest, date string) (domain.Exchange, *Failure) {
	from, err := domain.ParseCurrency(in.CurrencyFrom)
	if err != nil {
		return domain.Exchange{}, unknownCurrency(in.CurrencyFrom, err)
	}
	to, err := domain.ParseCurrency(in.CurrencyTo)
	if err != nil {
		return domain.Exchange{}, unknownCurrency(in.CurrencyTo, err)
	}
	in.CurrencyFrom, in.CurrencyTo = from, to

	if date == "" {
		date = LatestDate
	}
	rate, err := s.rates.GetRate(ctx, from, to, date)
	if err != nil {
		return domain.Exchange{}, rateFailure(from, to, date, err)
	}

	amountTo, err := domain.Convert(in.AmountFrom, rate)
	if err != nil {
		return domain.Exchange{}, fail(KindConversion, CodeInvalidAmount, "amount could not be converted", err)
	}

	rec, err := s.store.AddExchange(ctx, in, amountTo)
	if err != nil {
		return domain.Exchange{}, storeFailure(err)
	}
	return rec, nil
}

func (s *ExchangeService) GetExchange(ctx context.Context, id string) (domain.Exchange, *Failure) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Exchange{}, NotFound(err)
	}
	rec, err := s.store.GetExchange(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Exchange{}, NotFound(err)
	}
	if err != nil {
		return domain.Exchange{}, storeFailure(err)
	}
	return rec, nil
}

func (s *ExchangeService) Ping(ctx context.Context) *Failure {
	if err := s.store.Ping(ctx); err != nil {
		return fail(KindStoreUnavailable, CodeStoreUnavailable, "exchange store unavailable", err)
	}
	return nil
}

func unknownCurrency(code string, err error) *Failure {
	return fail(KindConversion, CodeUnknownCurrency, fmt.Sprintf("currency %.8q is not a known ISO 4217 code", code), err)
}

func rateFailure(from, to, date string, err error) *Failure {
	switch {
	case errors.Is(err, domain.ErrRateUnavailable):
		return fail(KindRateUnavailable, CodeRateUnavailable,
			fmt.Sprintf("no conversion rate available for %s to %s at %s", from, to, date), err)
	case errors.Is(err, domain.ErrRateFormat):
		return fail(KindRateFormat, CodeRateFormat, "conversion rate not parseable", err)
	default:
		return fail(KindRateProvider, CodeRateProvider, "rate provider unavailable", err)
	}
}

func storeFailure(err error) *Failure {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return fail(KindStoreUnavailable, CodeStoreUnavailable, "exchange store unavailable", err)
	}
	return fail(KindStore, CodeStoreRejected, "exchange could not be stored", err)
}
