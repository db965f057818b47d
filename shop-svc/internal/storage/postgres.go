package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"sivik-storefront/shop-svc/internal/domain"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

// mapErr converts driver errors into the domain sentinels handlers know about.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pqErr.Constraint)
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

const menuColumns = `id, external_id, name, description, image_url, calories, category, price, is_enabled, created_at, updated_at`

func scanMenuItem(row rowScanner) (domain.MenuItem, error) {
	var (
		item       domain.MenuItem
		externalID sql.NullString
		calories   sql.NullInt64
	)
	err := row.Scan(&item.ID, &externalID, &item.Name, &item.Description, &item.ImageURL,
		&calories, &item.Category, &item.Price, &item.IsEnabled, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return item, err
	}
	if externalID.Valid {
		item.ExternalID = &externalID.String
	}
	if calories.Valid {
		c := int(calories.Int64)
		item.Calories = &c
	}
	return item, nil
}

func (r *PostgresRepository) ListMenuItems(ctx context.Context, onlyEnabled bool) ([]domain.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu_items ORDER BY created_at DESC, id DESC`
	if onlyEnabled {
		query = `SELECT ` + menuColumns + ` FROM menu_items WHERE is_enabled ORDER BY category, name`
	}
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO menu_items (external_id, name, description, image_url, calories, category, price, is_enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		item.ExternalID, item.Name, item.Description, item.ImageURL, item.Calories,
		item.Category, item.Price, item.IsEnabled,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	return mapErr(err)
}

func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, id int, patch domain.MenuItemPatch) (*domain.MenuItem, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE menu_items SET
			name = COALESCE($1, name),
			description = COALESCE($2, description),
			image_url = COALESCE($3, image_url),
			calories = CASE WHEN $8 THEN NULL ELSE COALESCE($4, calories) END,
			category = COALESCE($5, category),
			price = COALESCE($6, price),
			is_enabled = COALESCE($7, is_enabled),
			updated_at = NOW()
		WHERE id = $9
		RETURNING `+menuColumns,
		patch.Name, patch.Description, patch.ImageURL, patch.Calories,
		patch.Category, patch.Price, patch.IsEnabled, patch.ClearCalories, id)
	item, err := scanMenuItem(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return &item, nil
}

func (r *PostgresRepository) DeleteMenuItem(ctx context.Context, id int) (int64, error) {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM menu_items WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// UpsertMenuItemByExternalID overwrites every partner-owned column of the row
// sharing the external id, or inserts a new row.
func (r *PostgresRepository) UpsertMenuItemByExternalID(ctx context.Context, item *domain.MenuItem) error {
	if item.ExternalID == nil {
		return errors.New("upsert requires an external id")
	}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO menu_items (external_id, name, description, image_url, calories, category, price, is_enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (external_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url,
			calories = EXCLUDED.calories,
			category = EXCLUDED.category,
			price = EXCLUDED.price,
			is_enabled = EXCLUDED.is_enabled,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`,
		*item.ExternalID, item.Name, item.Description, item.ImageURL, item.Calories,
		item.Category, item.Price, item.IsEnabled,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	return mapErr(err)
}

// CountMenuItems lets the seeder leave a populated menu alone.
func (r *PostgresRepository) CountMenuItems(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM menu_items").Scan(&n)
	return n, err
}

const orderColumns = `id, public_ref, customer_name, address, phone, delivery_date, delivery_time,
	payment_method, items, subtotal, delivery_fee, total, status, created_at`

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order domain.Order
		phone sql.NullString
		items []byte
	)
	err := row.Scan(&order.ID, &order.PublicRef, &order.CustomerName, &order.Address, &phone,
		&order.DeliveryDate, &order.DeliveryTime, &order.PaymentMethod, &items,
		&order.Subtotal, &order.DeliveryFee, &order.Total, &order.Status, &order.CreatedAt)
	if err != nil {
		return order, err
	}
	if phone.Valid {
		order.Phone = &phone.String
	}
	order.Items = []domain.OrderItem{}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return order, fmt.Errorf("decode items of order %d: %w", order.ID, err)
		}
	}
	return order, nil
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	err = r.DB.QueryRowContext(ctx, `
		INSERT INTO orders (public_ref, customer_name, address, phone, delivery_date, delivery_time,
			payment_method, items, subtotal, delivery_fee, total, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10, $11, $12)
		RETURNING id, created_at`,
		order.PublicRef, order.CustomerName, order.Address, order.Phone, order.DeliveryDate,
		order.DeliveryTime, order.PaymentMethod, string(items), order.Subtotal,
		order.DeliveryFee, order.Total, order.Status,
	).Scan(&order.ID, &order.CreatedAt)
	return mapErr(err)
}

func (r *PostgresRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error) {
	row := r.DB.QueryRowContext(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2 RETURNING `+orderColumns, status, id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return &order, nil
}

func (r *PostgresRepository) GetOrderByRef(ctx context.Context, ref string) (*domain.Order, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE public_ref = $1`, ref)
	order, err := scanOrder(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return &order, nil
}

const userColumns = `id, username, password_hash, role, can_manage_users, can_manage_integrations,
	can_manage_payments, can_manage_delivery, created_at, updated_at`

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CanManageUsers,
		&u.CanManageIntegrations, &u.CanManagePayments, &u.CanManageDelivery, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, role, can_manage_users, can_manage_integrations,
			can_manage_payments, can_manage_delivery)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		user.Username, user.PasswordHash, user.Role, user.CanManageUsers, user.CanManageIntegrations,
		user.CanManagePayments, user.CanManageDelivery,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return mapErr(err)
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, id int, patch domain.UserPatch, passwordHash *string) (*domain.User, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE users SET
			username = COALESCE($1, username),
			password_hash = COALESCE($2, password_hash),
			role = COALESCE($3, role),
			can_manage_users = COALESCE($4, can_manage_users),
			can_manage_integrations = COALESCE($5, can_manage_integrations),
			can_manage_payments = COALESCE($6, can_manage_payments),
			can_manage_delivery = COALESCE($7, can_manage_delivery),
			updated_at = NOW()
		WHERE id = $8
		RETURNING `+userColumns,
		patch.Username, passwordHash, patch.Role, patch.CanManageUsers, patch.CanManageIntegrations,
		patch.CanManagePayments, patch.CanManageDelivery, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *PostgresRepository) DeleteUser(ctx context.Context, id int) (int64, error) {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
