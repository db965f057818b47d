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

	"sivik-storefront/config"
	"sivik-storefront/logging"
	httpapi "sivik-storefront/stats-svc/internal/api/http"
	"sivik-storefront/stats-svc/internal/service"
	"sivik-storefront/stats-svc/internal/storage"
)

// starter is anything run keeps alive next to the HTTP server.
type starter interface {
	Start(ctx context.Context) error
}

func main() {
	config.LoadDotEnv()
	cfg := config.LoadStats()
	logger := logging.New("stats-svc", cfg.LogLevel)
	slog.SetDefault(logger)

	rdb := config.MustInitRedis()
	defer rdb.Close()
	store := storage.NewStore(rdb)

	var consumer starter
	if reader := config.NewKafkaReader(config.OrdersTopic, cfg.ConsumerGroup); reader != nil {
		defer reader.Close()
		consumer = service.NewConsumer(reader, store, logger)
	} else {
		logger.Warn("KAFKA_BROKER is empty, order events will not be consumed")
	}

	handler := httpapi.NewHandler(service.NewStatsService(store), logger)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouter(handler, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := run(context.Background(), srv, consumer, logger); err != nil {
		logger.Error("stats-svc stopped", "error", err)
		os.Exit(1)
	}
}

// run serves HTTP and drives the consumer until SIGINT or SIGTERM. The
// consumer stops with the shared context and the server drains for up to 10s.
func run(ctx context.Context, srv *http.Server, consumer starter, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if consumer == nil {
			return
		}
		if err := consumer.Start(ctx); err != nil {
			logger.Error("consumer stopped", "error", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("stats-svc starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
		stop()
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = err
	}
	<-consumerDone
	return serveErr
}
