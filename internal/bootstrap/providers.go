package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"exchanges-service/internal/application"
	"exchanges-service/internal/config"
	"exchanges-service/internal/domain"
	infraconfig "exchanges-service/internal/infrastructure/config"
	httpserver "exchanges-service/internal/infrastructure/http"
	"exchanges-service/internal/infrastructure/logx"
	"exchanges-service/internal/infrastructure/memstore"
	"exchanges-service/internal/infrastructure/pg"
	"exchanges-service/internal/infrastructure/provider"
	redisstore "exchanges-service/internal/infrastructure/redis"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrMissingDBURL      = errors.New("DATABASE_URL is required for STORAGE=pg")
	ErrUnknownStorage    = errors.New("unknown STORAGE")
	ErrUnknownRateSource = errors.New("unknown RATE_SOURCE")
	ErrInvalidFixedRate  = errors.New("FIXED_RATE must be a positive decimal")
)

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() config.Config { return config.Load() }

func ProvideDB(ctx context.Context, log *zap.Logger, cfg config.Config) (*pg.DB, func(), error) {
	if cfg.DatabaseURL == "" {
		return nil, func() {}, ErrMissingDBURL
	}
	db, err := pg.Connect(ctx, cfg.DatabaseURL, pg.WithPoolSize(cfg.PGMaxConns, cfg.PGMinConns))
	if err != nil {
		return nil, func() {}, err
	}
	if err := db.WaitReady(ctx, infraconfig.DefaultPGReadyWait); err != nil {
		db.Close()
		return nil, func() {}, err
	}
	if err := pg.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, func() {}, err
	}
	cleanup := func() {
		if log != nil {
			log.Info("closing pg")
		}
		db.Close()
	}
	return db, cleanup, nil
}

func ProvideRedisClient(log *zap.Logger, cfg config.Config) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	cleanup := func() {
		if log != nil {
			log.Info("closing redis")
		}
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideStore picks the ExchangeStore named by STORAGE.
func ProvideStore(ctx context.Context, log *zap.Logger, cfg config.Config) (application.ExchangeStore, func(), error) {
	switch cfg.Storage {
	case "pg", "":
		db, cleanup, err := ProvideDB(ctx, log, cfg)
		if err != nil {
			return nil, cleanup, err
		}
		return pg.NewExchangeStore(db), cleanup, nil
	case "redis":
		client, cleanup, err := ProvideRedisClient(log, cfg)
		if err != nil {
			return nil, cleanup, err
		}
		return redisstore.New(client), cleanup, nil
	case "memory":
		return memstore.New(), func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("%w %q", ErrUnknownStorage, cfg.Storage)
	}
}

// ProvideRateSource picks the RateSource named by RATE_SOURCE and wraps it
// with lookup logging and metrics.
func ProvideRateSource(cfg config.Config) (application.RateSource, error) {
	switch cfg.RateSource {
	case "static", "":
		return provider.WithLogging("static", provider.NewStaticTable(provider.DefaultRates())), nil
	case "remote":
		return provider.WithLogging("currency-api", provider.NewCurrencyAPI(cfg.RateAPIBase, cfg.RateTimeout)), nil
	case "fixed":
		rate, err := decimal.NewFromString(cfg.FixedRate)
		if err == nil {
			err = domain.CheckDigits(rate)
		}
		if err != nil || !rate.IsPositive() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFixedRate, cfg.FixedRate)
		}
		return provider.WithLogging("fixed", provider.NewFixed(rate)), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownRateSource, cfg.RateSource)
	}
}

func ProvideExchangeService(rates application.RateSource, store application.ExchangeStore) *application.ExchangeService {
	return application.NewExchangeService(rates, store)
}

func ProvideServer(svc *application.ExchangeService, cfg config.Config) *httpserver.Server {
	return httpserver.NewServer(svc, httpserver.WithMaxBodyBytes(cfg.MaxBodyBytes))
}
