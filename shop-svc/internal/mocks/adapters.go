package mocks

import (
	"context"

	"sivik-storefront/shop-svc/internal/auth"
	"sivik-storefront/shop-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type SessionStore struct {
	mock.Mock
}

func NewSessionStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *SessionStore {
	m := &SessionStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SessionStore) Create(ctx context.Context, p *auth.Principal) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *SessionStore) Get(ctx context.Context, id string) (*auth.Principal, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*auth.Principal)
	return p, args.Error(1)
}

func (m *SessionStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type EventPublisher struct {
	mock.Mock
}

func NewEventPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *EventPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

type PartnerClient struct {
	mock.Mock
}

func NewPartnerClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *PartnerClient {
	m := &PartnerClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *PartnerClient) PushMenu(ctx context.Context, url, apiKey string, payload domain.MenuExport) (int, error) {
	args := m.Called(ctx, url, apiKey, payload)
	return args.Int(0), args.Error(1)
}

type QRGenerator struct {
	mock.Mock
}

func NewQRGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *QRGenerator {
	m := &QRGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *QRGenerator) Generate(ref string) ([]byte, error) {
	args := m.Called(ref)
	png, _ := args.Get(0).([]byte)
	return png, args.Error(1)
}
