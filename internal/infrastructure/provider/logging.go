package provider

import (
	"context"
	"errors"
	"time"

	"exchanges-service/internal/application"
	"exchanges-service/internal/domain"
	"exchanges-service/internal/infrastructure/logx"
	"exchanges-service/internal/infrastructure/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type instrumented struct {
	source string
	next   application.RateSource
}

// WithLogging wraps next so every lookup is logged and timed under source.
func WithLogging(source string, next application.RateSource) application.RateSource {
	return &instrumented{source: source, next: next}
}

func (s *instrumented) GetRate(ctx context.Context, from, to, date string) (rate decimal.Decimal, err error) {
	defer func(begin time.Time) {
		took := time.Since(begin)
		outcome := lookupOutcome(err)
		metrics.ObserveRateLookup(s.source, outcome, took)

		log := logx.WithFields(ctx).With(
			zap.String("source", s.source),
			zap.String("from", from),
			zap.String("to", to),
			zap.String("date", date),
			zap.String("outcome", outcome),
			zap.Duration("took", took),
		)
		if err != nil {
			log.Warn("rate.lookup_failed", zap.Error(err))
			return
		}
		log.Info("rate.lookup_success", zap.String("rate", rate.String()))
	}(time.Now())

	return s.next.GetRate(ctx, from, to, date)
}

func lookupOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrRateUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrRateFormat):
		return "format"
	default:
		return "error"
	}
}
