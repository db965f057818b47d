package service

import (
	"context"
	"strings"

	"sivik-storefront/shop-svc/internal/domain"
)

// SettingsService covers the singleton settings rows and the payment method
// switches.
type SettingsService struct {
	settings SettingsRepository
	payments PaymentRepository
}

func NewSettingsService(settings SettingsRepository, payments PaymentRepository) *SettingsService {
	return &SettingsService{settings: settings, payments: payments}
}

func (s *SettingsService) Delivery(ctx context.Context) (domain.DeliverySettings, error) {
	return s.settings.GetDeliverySettings(ctx)
}

func (s *SettingsService) UpdateDelivery(ctx context.Context, patch domain.DeliverySettingsPatch) (domain.DeliverySettings, error) {
	if err := validateStruct(patch); err != nil {
		return domain.DeliverySettings{}, err
	}
	return s.settings.UpdateDeliverySettings(ctx, patch)
}

func (s *SettingsService) Ordering(ctx context.Context) (domain.OrderingSettings, error) {
	return s.settings.GetOrderingSettings(ctx)
}

func (s *SettingsService) SetOrdering(ctx context.Context, enabled bool) (domain.OrderingSettings, error) {
	return s.settings.UpdateOrderingSettings(ctx, enabled)
}

func (s *SettingsService) Integration(ctx context.Context) (domain.IntegrationSettings, error) {
	return s.settings.GetIntegrationSettings(ctx)
}

func (s *SettingsService) UpdateIntegration(ctx context.Context, patch domain.IntegrationSettingsPatch) (domain.IntegrationSettings, error) {
	if patch.PlatformURL != nil {
		u := strings.TrimSpace(*patch.PlatformURL)
		if u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return domain.IntegrationSettings{}, domain.NewValidationError("platformUrl", "must be an http or https URL")
		}
		patch.PlatformURL = &u
	}
	if patch.Currency != nil {
		c := strings.ToUpper(strings.TrimSpace(*patch.Currency))
		if c == "" {
			c = "PLN"
		}
		patch.Currency = &c
	}
	return s.settings.UpdateIntegrationSettings(ctx, patch)
}

func (s *SettingsService) PaymentMethods(ctx context.Context, onlyEnabled bool) ([]domain.PaymentMethod, error) {
	return s.payments.ListPaymentMethods(ctx, onlyEnabled)
}

func (s *SettingsService) SetPaymentMethod(ctx context.Context, name string, enabled bool) (*domain.PaymentMethod, error) {
	return s.payments.SetPaymentMethodEnabled(ctx, name, enabled)
}
