package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"exchanges-service/internal/bootstrap"
	infraconfig "exchanges-service/internal/infrastructure/config"
	"exchanges-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api, cleanup, err := bootstrap.InitAPI(ctx)
	defer cleanup()
	if err != nil {
		logger.Error("bootstrap", zap.Error(err))
		cleanup()
		os.Exit(1)
	}

	addr := ":" + api.Config.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           api.Handler,
		ReadHeaderTimeout: infraconfig.DefaultReadHeaderTimeout,
		ReadTimeout:       infraconfig.DefaultReadTimeout,
		WriteTimeout:      infraconfig.DefaultWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started",
			zap.String("addr", addr),
			zap.String("env", api.Config.Env),
			zap.String("storage", api.Config.Storage),
			zap.String("rate_source", api.Config.RateSource),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("listen", zap.Error(err))
	}

	shutdownTimeout := api.Config.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = infraconfig.DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
