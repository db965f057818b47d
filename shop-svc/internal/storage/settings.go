package storage

import (
	"context"
	"database/sql"
	"time"

	"sivik-storefront/shop-svc/internal/domain"
)

func (r *PostgresRepository) ListPaymentMethods(ctx context.Context, onlyEnabled bool) ([]domain.PaymentMethod, error) {
	query := "SELECT name, display_name, is_enabled FROM payment_methods ORDER BY sort_order, name"
	if onlyEnabled {
		query = "SELECT name, display_name, is_enabled FROM payment_methods WHERE is_enabled ORDER BY sort_order, name"
	}
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	methods := []domain.PaymentMethod{}
	for rows.Next() {
		var m domain.PaymentMethod
		if err := rows.Scan(&m.Name, &m.DisplayName, &m.IsEnabled); err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

func (r *PostgresRepository) GetPaymentMethod(ctx context.Context, name string) (*domain.PaymentMethod, error) {
	var m domain.PaymentMethod
	err := r.DB.QueryRowContext(ctx,
		"SELECT name, display_name, is_enabled FROM payment_methods WHERE name = $1", name).
		Scan(&m.Name, &m.DisplayName, &m.IsEnabled)
	if err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (r *PostgresRepository) SetPaymentMethodEnabled(ctx context.Context, name string, enabled bool) (*domain.PaymentMethod, error) {
	var m domain.PaymentMethod
	err := r.DB.QueryRowContext(ctx, `
		UPDATE payment_methods SET is_enabled = $1
		WHERE name = $2
		RETURNING name, display_name, is_enabled`, enabled, name).
		Scan(&m.Name, &m.DisplayName, &m.IsEnabled)
	if err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

// SeedPaymentMethod inserts a method unless one with the same name exists.
func (r *PostgresRepository) SeedPaymentMethod(ctx context.Context, m domain.PaymentMethod, sortOrder int) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO payment_methods (name, display_name, is_enabled, sort_order)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO NOTHING`, m.Name, m.DisplayName, m.IsEnabled, sortOrder)
	return err
}

func (r *PostgresRepository) GetDeliverySettings(ctx context.Context) (domain.DeliverySettings, error) {
	var s domain.DeliverySettings
	err := r.DB.QueryRowContext(ctx,
		"SELECT is_enabled, min_order_amount, delivery_fee FROM delivery_settings WHERE id = 1").
		Scan(&s.IsEnabled, &s.MinOrderAmount, &s.DeliveryFee)
	return s, mapErr(err)
}

func (r *PostgresRepository) UpdateDeliverySettings(ctx context.Context, patch domain.DeliverySettingsPatch) (domain.DeliverySettings, error) {
	var s domain.DeliverySettings
	err := r.DB.QueryRowContext(ctx, `
		UPDATE delivery_settings SET
			is_enabled = COALESCE($1, is_enabled),
			min_order_amount = COALESCE($2, min_order_amount),
			delivery_fee = COALESCE($3, delivery_fee),
			updated_at = NOW()
		WHERE id = 1
		RETURNING is_enabled, min_order_amount, delivery_fee`,
		patch.IsEnabled, patch.MinOrderAmount, patch.DeliveryFee).
		Scan(&s.IsEnabled, &s.MinOrderAmount, &s.DeliveryFee)
	return s, mapErr(err)
}

func (r *PostgresRepository) GetOrderingSettings(ctx context.Context) (domain.OrderingSettings, error) {
	var s domain.OrderingSettings
	err := r.DB.QueryRowContext(ctx, "SELECT is_enabled FROM ordering_settings WHERE id = 1").Scan(&s.IsEnabled)
	return s, mapErr(err)
}

func (r *PostgresRepository) UpdateOrderingSettings(ctx context.Context, enabled bool) (domain.OrderingSettings, error) {
	var s domain.OrderingSettings
	err := r.DB.QueryRowContext(ctx,
		"UPDATE ordering_settings SET is_enabled = $1, updated_at = NOW() WHERE id = 1 RETURNING is_enabled", enabled).
		Scan(&s.IsEnabled)
	return s, mapErr(err)
}

const integrationColumns = `platform_url, api_key, restaurant_external_id, restaurant_address,
	restaurant_phone, currency, last_sync_at`

func scanIntegration(row rowScanner) (domain.IntegrationSettings, error) {
	var (
		s        domain.IntegrationSettings
		lastSync sql.NullTime
	)
	err := row.Scan(&s.PlatformURL, &s.APIKey, &s.RestaurantExternalID, &s.RestaurantAddress,
		&s.RestaurantPhone, &s.Currency, &lastSync)
	if lastSync.Valid {
		s.LastSyncAt = &lastSync.Time
	}
	return s, mapErr(err)
}

func (r *PostgresRepository) GetIntegrationSettings(ctx context.Context) (domain.IntegrationSettings, error) {
	return scanIntegration(r.DB.QueryRowContext(ctx,
		`SELECT `+integrationColumns+` FROM integration_settings WHERE id = 1`))
}

func (r *PostgresRepository) UpdateIntegrationSettings(ctx context.Context, patch domain.IntegrationSettingsPatch) (domain.IntegrationSettings, error) {
	return scanIntegration(r.DB.QueryRowContext(ctx, `
		UPDATE integration_settings SET
			platform_url = COALESCE($1, platform_url),
			api_key = COALESCE($2, api_key),
			restaurant_external_id = COALESCE($3, restaurant_external_id),
			restaurant_address = COALESCE($4, restaurant_address),
			restaurant_phone = COALESCE($5, restaurant_phone),
			currency = COALESCE($6, currency),
			updated_at = NOW()
		WHERE id = 1
		RETURNING `+integrationColumns,
		patch.PlatformURL, patch.APIKey, patch.RestaurantExternalID, patch.RestaurantAddress,
		patch.RestaurantPhone, patch.Currency))
}

func (r *PostgresRepository) MarkSynced(ctx context.Context, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE integration_settings SET last_sync_at = $1 WHERE id = 1", at)
	return err
}
