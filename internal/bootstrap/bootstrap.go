package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"exchanges-service/internal/config"
	httpserver "exchanges-service/internal/infrastructure/http"
)

// API is the assembled HTTP surface of the service.
type API struct {
	Handler http.Handler
	Config  config.Config
}

// InitAPI wires config, store, rate source, service and router. The returned
// cleanup releases the store and must be called even when err is non-nil.
func InitAPI(ctx context.Context) (*API, func(), error) {
	return BuildAPI(ctx, ProvideConfig())
}

func BuildAPI(ctx context.Context, cfg config.Config) (*API, func(), error) {
	log := ProvideLogger()

	rates, err := ProvideRateSource(cfg)
	if err != nil {
		return nil, func() {}, fmt.Errorf("bootstrap rate source: %w", err)
	}
	store, cleanup, err := ProvideStore(ctx, log, cfg)
	if err != nil {
		return nil, cleanup, fmt.Errorf("bootstrap store: %w", err)
	}
	srv := ProvideServer(ProvideExchangeService(rates, store), cfg)
	return &API{Handler: httpserver.NewRouter(srv), Config: cfg}, cleanup, nil
}
