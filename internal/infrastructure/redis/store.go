package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"exchanges-service/internal/application"
	"exchanges-service/internal/domain"
	"exchanges-service/internal/infrastructure/logx"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	recordPrefix = "exchange:"
	indexKey     = "exchanges"
)

var _ application.ExchangeStore = (*Store)(nil)

// Store keeps each exchange in a hash at exchange:{id} and appends the id to
// the exchanges list. Both writes go through one MULTI/EXEC.
type Store struct {
	Client *redis.Client
}

func New(client *redis.Client) *Store {
	return &Store{Client: client}
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.Client.Ping(ctx).Err(); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

func (s *Store) AddExchange(ctx context.Context, in domain.ExchangeRequest, amountTo decimal.Decimal) (domain.Exchange, error) {
	rec := domain.Exchange{
		ID:           uuid.NewString(),
		CreatedAt:    in.CreatedAt.UTC(),
		CurrencyFrom: in.CurrencyFrom,
		CurrencyTo:   in.CurrencyTo,
		AmountFrom:   in.AmountFrom,
		AmountTo:     amountTo,
	}
	key := recordPrefix + rec.ID
	log := logx.WithFields(ctx).With(
		zap.String("repo", "exchange"),
		zap.String("operation", "AddExchange"),
		zap.String("key", key),
	)
	log.Info("redis.exec_start")
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, encode(rec))
		pipe.RPush(ctx, indexKey, rec.ID)
		return nil
	})
	if err != nil {
		log.Error("redis.exec_failed", zap.Error(err))
		return domain.Exchange{}, storeErr("add exchange", err)
	}
	log.Info("redis.exec_success")
	return rec, nil
}

func (s *Store) GetExchange(ctx context.Context, id string) (domain.Exchange, error) {
	vals, err := s.Client.HGetAll(ctx, recordPrefix+id).Result()
	if err != nil {
		return domain.Exchange{}, storeErr("get exchange", err)
	}
	if len(vals) == 0 {
		return domain.Exchange{}, domain.ErrNotFound
	}
	rec, err := decode(id, vals)
	if err != nil {
		return domain.Exchange{}, fmt.Errorf("redis: decode %s: %w", id, err)
	}
	return rec, nil
}

func encode(rec domain.Exchange) map[string]any {
	return map[string]any{
		"created_at":    rec.CreatedAt.Format(time.RFC3339Nano),
		"currency_from": rec.CurrencyFrom,
		"currency_to":   rec.CurrencyTo,
		"amount_from":   rec.AmountFrom.String(),
		"amount_to":     rec.AmountTo.String(),
	}
}

func decode(id string, vals map[string]string) (domain.Exchange, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, vals["created_at"])
	if err != nil {
		return domain.Exchange{}, fmt.Errorf("created_at: %w", err)
	}
	from, err := decimal.NewFromString(vals["amount_from"])
	if err != nil {
		return domain.Exchange{}, fmt.Errorf("amount_from: %w", err)
	}
	to, err := decimal.NewFromString(vals["amount_to"])
	if err != nil {
		return domain.Exchange{}, fmt.Errorf("amount_to: %w", err)
	}
	return domain.Exchange{
		ID:           id,
		CreatedAt:    createdAt.UTC(),
		CurrencyFrom: vals["currency_from"],
		CurrencyTo:   vals["currency_to"],
		AmountFrom:   from,
		AmountTo:     to,
	}, nil
}

// storeErr keeps server-side command errors as data errors; anything else
// (dial, timeout, closed pool) means the store is unavailable.
func storeErr(op string, err error) error {
	var rerr redis.Error
	if errors.As(err, &rerr) {
		return fmt.Errorf("redis: %s: %w", op, err)
	}
	return fmt.Errorf("redis: %s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
