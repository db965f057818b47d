package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sivik-storefront/api-gateway/internal/gateway"
	"sivik-storefront/config"
	"sivik-storefront/logging"

	"github.com/rs/cors"
)

func main() {
	config.LoadDotEnv()
	cfg := config.LoadGateway()
	logger := logging.New("api-gateway", cfg.LogLevel)
	slog.SetDefault(logger)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(cfg, &http.Client{Timeout: 30 * time.Second}, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := run(context.Background(), srv, logger); err != nil {
		logger.Error("api-gateway stopped", "error", err)
		os.Exit(1)
	}
}

func newHandler(cfg config.Gateway, client gateway.HTTPClient, logger *slog.Logger) http.Handler {
	gw := gateway.NewGateway(gateway.Config{
		ShopSvcURL:  cfg.ShopSvcURL,
		StatsSvcURL: cfg.StatsSvcURL,
		StaticDir:   cfg.StaticDir,
	}, client, logger)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "x-api-key"},
		AllowCredentials: true,
	})
	return c.Handler(gw.SetupRoutes())
}

func run(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api-gateway starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
