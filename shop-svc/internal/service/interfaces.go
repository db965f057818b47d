package service

import (
	"context"
	"time"

	"sivik-storefront/shop-svc/internal/auth"
	"sivik-storefront/shop-svc/internal/domain"
	"sivik-storefront/shop-svc/internal/storage"
)

type MenuRepository interface {
	ListMenuItems(ctx context.Context, onlyEnabled bool) ([]domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	UpdateMenuItem(ctx context.Context, id int, patch domain.MenuItemPatch) (*domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id int) (int64, error)
	UpsertMenuItemByExternalID(ctx context.Context, item *domain.MenuItem) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error)
	GetOrderByRef(ctx context.Context, ref string) (*domain.Order, error)
}

type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	UpdateUser(ctx context.Context, id int, patch domain.UserPatch, passwordHash *string) (*domain.User, error)
	DeleteUser(ctx context.Context, id int) (int64, error)
}

type PaymentRepository interface {
	ListPaymentMethods(ctx context.Context, onlyEnabled bool) ([]domain.PaymentMethod, error)
	GetPaymentMethod(ctx context.Context, name string) (*domain.PaymentMethod, error)
	SetPaymentMethodEnabled(ctx context.Context, name string, enabled bool) (*domain.PaymentMethod, error)
}

type SettingsRepository interface {
	GetDeliverySettings(ctx context.Context) (domain.DeliverySettings, error)
	UpdateDeliverySettings(ctx context.Context, patch domain.DeliverySettingsPatch) (domain.DeliverySettings, error)
	GetOrderingSettings(ctx context.Context) (domain.OrderingSettings, error)
	UpdateOrderingSettings(ctx context.Context, enabled bool) (domain.OrderingSettings, error)
	GetIntegrationSettings(ctx context.Context) (domain.IntegrationSettings, error)
	UpdateIntegrationSettings(ctx context.Context, patch domain.IntegrationSettingsPatch) (domain.IntegrationSettings, error)
	MarkSynced(ctx context.Context, at time.Time) error
}

// SessionStore returns a nil principal and nil error for unknown sessions.
type SessionStore interface {
	Create(ctx context.Context, p *auth.Principal) (string, error)
	Get(ctx context.Context, id string) (*auth.Principal, error)
	Delete(ctx context.Context, id string) error
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

// PartnerClient pushes the menu export and reports the HTTP status the
// partner answered with.
type PartnerClient interface {
	PushMenu(ctx context.Context, url, apiKey string, payload domain.MenuExport) (int, error)
}

type QRGenerator interface {
	Generate(ref string) ([]byte, error)
}

type AuthServiceInterface interface {
	Login(ctx context.Context, username, password string) (string, *auth.Principal, error)
	Logout(ctx context.Context, sessionID string) error
	Session(ctx context.Context, sessionID string) (*auth.Principal, error)
}

type MenuServiceInterface interface {
	ListPublic(ctx context.Context) ([]domain.MenuItem, error)
	ListAll(ctx context.Context) ([]domain.MenuItem, error)
	Create(ctx context.Context, req domain.MenuItemRequest) (*domain.MenuItem, error)
	Update(ctx context.Context, id int, patch domain.MenuItemPatch) (*domain.MenuItem, error)
	Delete(ctx context.Context, id int) error
}

type OrderServiceInterface interface {
	Submit(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error)
	Track(ctx context.Context, ref string) (*domain.OrderTracking, error)
	QRCode(ctx context.Context, ref string) ([]byte, error)
}

type UserServiceInterface interface {
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, actor *auth.Principal, req domain.CreateUserRequest) (*domain.User, error)
	Update(ctx context.Context, actor *auth.Principal, id int, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, actor *auth.Principal, id int) error
}

type SettingsServiceInterface interface {
	Delivery(ctx context.Context) (domain.DeliverySettings, error)
	UpdateDelivery(ctx context.Context, patch domain.DeliverySettingsPatch) (domain.DeliverySettings, error)
	Ordering(ctx context.Context) (domain.OrderingSettings, error)
	SetOrdering(ctx context.Context, enabled bool) (domain.OrderingSettings, error)
	Integration(ctx context.Context) (domain.IntegrationSettings, error)
	UpdateIntegration(ctx context.Context, patch domain.IntegrationSettingsPatch) (domain.IntegrationSettings, error)
	PaymentMethods(ctx context.Context, onlyEnabled bool) ([]domain.PaymentMethod, error)
	SetPaymentMethod(ctx context.Context, name string, enabled bool) (*domain.PaymentMethod, error)
}

type SyncServiceInterface interface {
	Export(ctx context.Context) (time.Time, error)
	Import(ctx context.Context, apiKey string, payload domain.MenuImport) (domain.ImportResult, error)
}

var (
	_ AuthServiceInterface     = (*AuthService)(nil)
	_ MenuServiceInterface     = (*MenuService)(nil)
	_ OrderServiceInterface    = (*OrderService)(nil)
	_ UserServiceInterface     = (*UserService)(nil)
	_ SettingsServiceInterface = (*SettingsService)(nil)
	_ SyncServiceInterface     = (*SyncService)(nil)

	_ MenuRepository     = (*storage.PostgresRepository)(nil)
	_ OrderRepository    = (*storage.PostgresRepository)(nil)
	_ UserRepository     = (*storage.PostgresRepository)(nil)
	_ PaymentRepository  = (*storage.PostgresRepository)(nil)
	_ SettingsRepository = (*storage.PostgresRepository)(nil)
	_ SessionStore       = (*storage.RedisSessionStore)(nil)
	_ EventPublisher     = (*storage.KafkaPublisher)(nil)
	_ PartnerClient      = (*storage.PartnerClient)(nil)
	_ QRGenerator        = storage.TrackingQRGenerator{}
)
