package service

import (
	"context"

	"sivik-storefront/stats-svc/internal/domain"
	"sivik-storefront/stats-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	RecordOrder(ctx context.Context, date string, total float64, items []domain.OrderEventItem) error
	RecordStatus(ctx context.Context, date, status string) error
	GetDay(ctx context.Context, date string, topN int) (*domain.DailyStats, error)
}

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type StatsInterface interface {
	Today(ctx context.Context) (*domain.DailyStats, error)
	Day(ctx context.Context, date string) (*domain.DailyStats, error)
}

var (
	_ StoreInterface = (*storage.Store)(nil)
	_ MessageReader  = (*kafka.Reader)(nil)
	_ StatsInterface = (*StatsService)(nil)
)
