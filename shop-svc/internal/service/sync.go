package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sivik-storefront/shop-svc/internal/cart"
	"sivik-storefront/shop-svc/internal/domain"
	"sivik-storefront/shop-svc/internal/metrics"
)

const defaultCurrency = "PLN"

type SyncService struct {
	menu           MenuRepository
	settings       SettingsRepository
	partner        PartnerClient
	importKey      string
	restaurantName string
	metrics        *metrics.Metrics
	logger         *slog.Logger
	now            func() time.Time
}

type SyncDeps struct {
	Menu           MenuRepository
	Settings       SettingsRepository
	Partner        PartnerClient
	ImportKey      string
	RestaurantName string
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
}

func NewSyncService(deps SyncDeps) *SyncService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncService{
		menu:           deps.Menu,
		settings:       deps.Settings,
		partner:        deps.Partner,
		importKey:      deps.ImportKey,
		restaurantName: deps.RestaurantName,
		metrics:        deps.Metrics,
		logger:         logger,
		now:            time.Now,
	}
}

// Export pushes the whole menu, disabled items included, to the configured
// partner endpoint. last_sync_at only moves on a 2xx answer.
func (s *SyncService) Export(ctx context.Context) (time.Time, error) {
	cfg, err := s.settings.GetIntegrationSettings(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("load integration settings: %w", err)
	}
	if strings.TrimSpace(cfg.PlatformURL) == "" {
		return time.Time{}, domain.NewValidationError("platformUrl", "integration endpoint is not configured")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return time.Time{}, domain.NewValidationError("apiKey", "integration api key is not configured")
	}

	items, err := s.menu.ListMenuItems(ctx, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("load menu: %w", err)
	}

	payload := s.buildExport(cfg, items)
	status, err := s.partner.PushMenu(ctx, cfg.PlatformURL, cfg.APIKey, payload)
	if err != nil {
		s.metrics.MenuSync("export", false)
		return time.Time{}, &domain.UpstreamError{Err: err}
	}
	if status < 200 || status > 299 {
		s.metrics.MenuSync("export", false)
		return time.Time{}, &domain.UpstreamError{Status: status}
	}

	at := s.now().UTC()
	if err := s.settings.MarkSynced(ctx, at); err != nil {
		return time.Time{}, fmt.Errorf("record sync time: %w", err)
	}
	s.metrics.MenuSync("export", true)
	s.logger.Info("menu exported", "items", len(payload.Items), "status", status)
	return at, nil
}

func (s *SyncService) buildExport(cfg domain.IntegrationSettings, items []domain.MenuItem) domain.MenuExport {
	currency := cfg.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	out := domain.MenuExport{
		RestaurantExternalID: cfg.RestaurantExternalID,
		RestaurantName:       s.restaurantName,
		RestaurantAddress:    cfg.RestaurantAddress,
		RestaurantPhone:      cfg.RestaurantPhone,
		Currency:             currency,
		Items:                make([]domain.MenuExportItem, 0, len(items)),
	}
	for _, it := range items {
		id := fmt.Sprintf("%d", it.ID)
		if it.ExternalID != nil && *it.ExternalID != "" {
			id = *it.ExternalID
		}
		out.Items = append(out.Items, domain.MenuExportItem{
			ID:          id,
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price,
			Currency:    currency,
			Image:       it.ImageURL,
			Category:    it.Category,
			Calories:    it.Calories,
			IsEnabled:   it.IsEnabled,
		})
	}
	return out
}

// Import upserts partner items by external id. Items without id, name or
// price are counted as skipped.
func (s *SyncService) Import(ctx context.Context, apiKey string, payload domain.MenuImport) (domain.ImportResult, error) {
	if !s.keyMatches(apiKey) {
		return domain.ImportResult{}, domain.ErrUnauthenticated
	}

	var res domain.ImportResult
	for _, in := range payload.Items {
		id := strings.TrimSpace(in.ID)
		name := strings.TrimSpace(in.Name)
		if id == "" || name == "" || in.Price == nil || *in.Price < 0 {
			res.Skipped++
			continue
		}

		enabled := true
		if in.IsEnabled != nil {
			enabled = *in.IsEnabled
		}
		category := strings.TrimSpace(in.Category)
		if category == "" {
			category = "Other"
		}
		item := &domain.MenuItem{
			ExternalID:  &id,
			Name:        name,
			Description: in.Description,
			ImageURL:    in.Image,
			Calories:    in.Calories,
			Category:    category,
			Price:       cart.RoundCents(*in.Price),
			IsEnabled:   enabled,
		}
		if err := s.menu.UpsertMenuItemByExternalID(ctx, item); err != nil {
			s.metrics.MenuSync("import", false)
			return res, fmt.Errorf("upsert item %s: %w", id, err)
		}
		res.Processed++
	}

	s.metrics.MenuSync("import", true)
	s.logger.Info("menu imported", "processed", res.Processed, "skipped", res.Skipped)
	return res, nil
}

func (s *SyncService) keyMatches(got string) bool {
	if s.importKey == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.importKey)) == 1
}
