package mocks

import (
	"context"

	"sivik-storefront/stats-svc/internal/domain"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

type StoreInterface struct {
	mock.Mock
}

func NewStoreInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *StoreInterface) RecordOrder(ctx context.Context, date string, total float64, items []domain.OrderEventItem) error {
	return m.Called(ctx, date, total, items).Error(0)
}

func (m *StoreInterface) RecordStatus(ctx context.Context, date, status string) error {
	return m.Called(ctx, date, status).Error(0)
}

func (m *StoreInterface) GetDay(ctx context.Context, date string, topN int) (*domain.DailyStats, error) {
	args := m.Called(ctx, date, topN)
	stats, _ := args.Get(0).(*domain.DailyStats)
	return stats, args.Error(1)
}

type MessageReader struct {
	mock.Mock
}

func NewMessageReader(t interface {
	mock.TestingT
	Cleanup(func())
}) *MessageReader {
	m := &MessageReader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MessageReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	args := m.Called(ctx)
	msg, _ := args.Get(0).(kafka.Message)
	return msg, args.Error(1)
}

func (m *MessageReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	return m.Called(ctx, msgs).Error(0)
}
