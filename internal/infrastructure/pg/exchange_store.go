package pg

import (
	"context"
	"errors"
	"fmt"

	"exchanges-service/internal/application"
	"exchanges-service/internal/domain"
	"exchanges-service/internal/infrastructure/logx"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var _ application.ExchangeStore = (*ExchangeStore)(nil)

type ExchangeStore struct {
	db  *DB
	uow *UnitOfWork
}

func NewExchangeStore(db *DB) *ExchangeStore {
	return &ExchangeStore{db: db, uow: &UnitOfWork{Pool: db.Pool}}
}

func (s *ExchangeStore) Ping(ctx context.Context) error {
	const q = `SELECT $1::int`
	var n int
	if err := s.db.Pool.QueryRow(ctx, q, 42).Scan(&n); err != nil {
		return storeErr("ping", err)
	}
	if n != 42 {
		return fmt.Errorf("pg: ping: unexpected answer %d: %w", n, domain.ErrStoreUnavailable)
	}
	return nil
}

func (s *ExchangeStore) AddExchange(ctx context.Context, in domain.ExchangeRequest, amountTo decimal.Decimal) (domain.Exchange, error) {
	id := uuid.NewString()
	const ins = `
        INSERT INTO exchanges(id, created_at, currency_from, currency_to, amount_from, amount_to)
        VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric)
        RETURNING id::text, created_at, currency_from, currency_to, amount_from::text, amount_to::text`
	log := logx.WithFields(ctx).With(
		zap.String("repo", "exchange"),
		zap.String("operation", "AddExchange"),
		zap.String("sql", ins),
		zap.String("id", id),
		zap.String("currency_from", in.CurrencyFrom),
		zap.String("currency_to", in.CurrencyTo),
	)
	log.Info("sql.exec_start")

	var out domain.Exchange
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		row := conn(ctx, s.db.Pool).QueryRow(ctx, ins,
			id, in.CreatedAt, in.CurrencyFrom, in.CurrencyTo, in.AmountFrom.String(), amountTo.String())
		rec, err := scanExchange(row)
		if err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return domain.Exchange{}, storeErr("insert exchange", err)
	}
	log.Info("sql.exec_success")
	return out, nil
}

func (s *ExchangeStore) GetExchange(ctx context.Context, id string) (domain.Exchange, error) {
	const q = `
        SELECT id::text, created_at, currency_from, currency_to, amount_from::text, amount_to::text
        FROM exchanges WHERE id=$1`
	log := logx.WithFields(ctx).With(
		zap.String("repo", "exchange"),
		zap.String("operation", "GetExchange"),
		zap.String("sql", q),
		zap.String("id", id),
	)
	log.Info("sql.query_start")
	rec, err := scanExchange(conn(ctx, s.db.Pool).QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		log.Info("sql.query_no_rows")
		return domain.Exchange{}, domain.ErrNotFound
	}
	if err != nil {
		log.Error("sql.query_failed", zap.Error(err))
		return domain.Exchange{}, storeErr("get exchange", err)
	}
	log.Info("sql.query_success")
	return rec, nil
}

func scanExchange(row pgx.Row) (domain.Exchange, error) {
	var out domain.Exchange
	var from, to string
	if err := row.Scan(&out.ID, &out.CreatedAt, &out.CurrencyFrom, &out.CurrencyTo, &from, &to); err != nil {
		return domain.Exchange{}, err
	}
	var err error
	if out.AmountFrom, err = decimal.NewFromString(from); err != nil {
		return domain.Exchange{}, fmt.Errorf("amount_from: %w", err)
	}
	if out.AmountTo, err = decimal.NewFromString(to); err != nil {
		return domain.Exchange{}, fmt.Errorf("amount_to: %w", err)
	}
	out.CreatedAt = out.CreatedAt.UTC()
	return out, nil
}

// storeErr marks everything except server-reported data errors as unavailability.
func storeErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && !transientClass(pgErr.Code) {
		return fmt.Errorf("pg: %s: %w", op, err)
	}
	return fmt.Errorf("pg: %s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

// transientClass reports SQLSTATE classes for connection, resource and
// operator failures.
func transientClass(code string) bool {
	if len(code) < 2 {
		return false
	}
	switch code[:2] {
	case "08", "53", "57":
		return true
	}
	return false
}
