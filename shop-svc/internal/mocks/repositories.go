package mocks

import (
	"context"
	"time"

	"sivik-storefront/shop-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MenuRepository struct {
	mock.Mock
}

func NewMenuRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MenuRepository {
	m := &MenuRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MenuRepository) ListMenuItems(ctx context.Context, onlyEnabled bool) ([]domain.MenuItem, error) {
	args := m.Called(ctx, onlyEnabled)
	items, _ := args.Get(0).([]domain.MenuItem)
	return items, args.Error(1)
}

func (m *MenuRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MenuRepository) UpdateMenuItem(ctx context.Context, id int, patch domain.MenuItemPatch) (*domain.MenuItem, error) {
	args := m.Called(ctx, id, patch)
	item, _ := args.Get(0).(*domain.MenuItem)
	return item, args.Error(1)
}

func (m *MenuRepository) DeleteMenuItem(ctx context.Context, id int) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MenuRepository) UpsertMenuItemByExternalID(ctx context.Context, item *domain.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}

type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *OrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]domain.Order)
	return orders, args.Error(1)
}

func (m *OrderRepository) UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error) {
	args := m.Called(ctx, id, status)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

func (m *OrderRepository) GetOrderByRef(ctx context.Context, ref string) (*domain.Order, error) {
	args := m.Called(ctx, ref)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

type UserRepository struct {
	mock.Mock
}

func NewUserRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserRepository {
	m := &UserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *UserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *UserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

func (m *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) UpdateUser(ctx context.Context, id int, patch domain.UserPatch, passwordHash *string) (*domain.User, error) {
	args := m.Called(ctx, id, patch, passwordHash)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *UserRepository) DeleteUser(ctx context.Context, id int) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type PaymentRepository struct {
	mock.Mock
}

func NewPaymentRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *PaymentRepository {
	m := &PaymentRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *PaymentRepository) ListPaymentMethods(ctx context.Context, onlyEnabled bool) ([]domain.PaymentMethod, error) {
	args := m.Called(ctx, onlyEnabled)
	methods, _ := args.Get(0).([]domain.PaymentMethod)
	return methods, args.Error(1)
}

func (m *PaymentRepository) GetPaymentMethod(ctx context.Context, name string) (*domain.PaymentMethod, error) {
	args := m.Called(ctx, name)
	method, _ := args.Get(0).(*domain.PaymentMethod)
	return method, args.Error(1)
}

func (m *PaymentRepository) SetPaymentMethodEnabled(ctx context.Context, name string, enabled bool) (*domain.PaymentMethod, error) {
	args := m.Called(ctx, name, enabled)
	method, _ := args.Get(0).(*domain.PaymentMethod)
	return method, args.Error(1)
}

type SettingsRepository struct {
	mock.Mock
}

func NewSettingsRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *SettingsRepository {
	m := &SettingsRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SettingsRepository) GetDeliverySettings(ctx context.Context) (domain.DeliverySettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.DeliverySettings), args.Error(1)
}

func (m *SettingsRepository) UpdateDeliverySettings(ctx context.Context, patch domain.DeliverySettingsPatch) (domain.DeliverySettings, error) {
	args := m.Called(ctx, patch)
	return args.Get(0).(domain.DeliverySettings), args.Error(1)
}

func (m *SettingsRepository) GetOrderingSettings(ctx context.Context) (domain.OrderingSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.OrderingSettings), args.Error(1)
}

func (m *SettingsRepository) UpdateOrderingSettings(ctx context.Context, enabled bool) (domain.OrderingSettings, error) {
	args := m.Called(ctx, enabled)
	return args.Get(0).(domain.OrderingSettings), args.Error(1)
}

func (m *SettingsRepository) GetIntegrationSettings(ctx context.Context) (domain.IntegrationSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.IntegrationSettings), args.Error(1)
}

func (m *SettingsRepository) UpdateIntegrationSettings(ctx context.Context, patch domain.IntegrationSettingsPatch) (domain.IntegrationSettings, error) {
	args := m.Called(ctx, patch)
	return args.Get(0).(domain.IntegrationSettings), args.Error(1)
}

func (m *SettingsRepository) MarkSynced(ctx context.Context, at time.Time) error {
	return m.Called(ctx, at).Error(0)
}
