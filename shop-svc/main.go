package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sivik-storefront/config"
	"sivik-storefront/logging"
	httpapi "sivik-storefront/shop-svc/internal/api/http"
	"sivik-storefront/shop-svc/internal/auth"
	"sivik-storefront/shop-svc/internal/domain"
	"sivik-storefront/shop-svc/internal/metrics"
	"sivik-storefront/shop-svc/internal/service"
	"sivik-storefront/shop-svc/internal/storage"
	"sivik-storefront/shop-svc/seed"

	"github.com/spf13/cobra"
)

func main() {
	config.LoadDotEnv()
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cfg := config.LoadShop()

	cmd := &cobra.Command{
		Use:           "shop-svc",
		Short:         "Storefront and back-office API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and settings rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := storage.NewPostgresRepository(config.MustInitPostgres())
			defer repo.DB.Close()
			return repo.EnsureSchema(cmd.Context())
		},
	})
	cmd.AddCommand(seedCmd(&cfg))
	cmd.AddCommand(createAdminCmd())
	return cmd
}

func seedCmd(cfg *config.Shop) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load payment methods and the starter menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New("shop-svc", cfg.LogLevel)
			data, err := loadSeed(file)
			if err != nil {
				return err
			}
			repo := storage.NewPostgresRepository(config.MustInitPostgres())
			defer repo.DB.Close()
			if err := repo.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			res, err := seed.Apply(cmd.Context(), repo, data)
			if err != nil {
				return err
			}
			logger.Info("seed applied", "payment_methods", res.PaymentMethods, "menu_items", res.MenuItems)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Seed YAML file (defaults to the bundled menu)")
	return cmd
}

func loadSeed(path string) (seed.File, error) {
	if path == "" {
		return seed.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return seed.File{}, err
	}
	defer f.Close()
	return seed.Load(f)
}

func createAdminCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}

			repo := storage.NewPostgresRepository(config.MustInitPostgres())
			defer repo.DB.Close()
			if err := repo.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			operator := &auth.Principal{Username: "create-admin", Role: domain.RoleAdmin}
			user, err := service.NewUserService(repo).Create(cmd.Context(), operator, domain.CreateUserRequest{
				Username: username,
				Password: password,
				Role:     domain.RoleAdmin,
			})
			if errors.Is(err, domain.ErrConflict) {
				return fmt.Errorf("user %q already exists", username)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "admin", "Admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Admin password (or ADMIN_PASSWORD)")
	return cmd
}

func serve(ctx context.Context, cfg config.Shop) error {
	logger := logging.New("shop-svc", cfg.LogLevel)
	slog.SetDefault(logger)

	if cfg.ImportAPIKey == "" {
		logger.Warn("IMPORT_API_KEY is empty, partner menu imports will be rejected")
	}

	db := config.MustInitPostgres()
	defer db.Close()
	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	rdb := config.MustInitRedis()
	defer rdb.Close()
	sessions := storage.NewRedisSessionStore(rdb, cfg.SessionTTL)

	var publisher service.EventPublisher
	if writer := config.NewKafkaWriter(config.OrdersTopic); writer != nil {
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
	} else {
		logger.Warn("KAFKA_BROKER is empty, order events will not be published")
	}

	m := metrics.New()
	svc := httpapi.Services{
		Auth: service.NewAuthService(repo, sessions),
		Menu: service.NewMenuService(repo),
		Orders: service.NewOrderService(service.OrderDeps{
			Orders:    repo,
			Payments:  repo,
			Settings:  repo,
			Publisher: publisher,
			QR:        storage.TrackingQRGenerator{BaseURL: cfg.PublicBaseURL},
			Metrics:   m,
			Logger:    logger,
		}),
		Users:    service.NewUserService(repo),
		Settings: service.NewSettingsService(repo, repo),
		Sync: service.NewSyncService(service.SyncDeps{
			Menu:           repo,
			Settings:       repo,
			Partner:        storage.NewPartnerClient(nil),
			ImportKey:      cfg.ImportAPIKey,
			RestaurantName: cfg.RestaurantName,
			Metrics:        m,
			Logger:         logger,
		}),
	}
	handler := httpapi.NewHandler(svc, httpapi.Options{
		SecureCookies: cfg.SecureCookies,
		SessionTTL:    cfg.SessionTTL,
		Metrics:       m,
		Logger:        logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouter(handler, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return run(ctx, srv, logger)
}

// run serves until SIGINT or SIGTERM, then drains connections for up to 10s.
func run(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("shop-svc starting", "addr", srv.Addr)
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
