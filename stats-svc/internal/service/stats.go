package service

import (
	"context"
	"time"

	"sivik-storefront/stats-svc/internal/domain"
)

// TopItems is how many items a day report ranks.
const TopItems = 5

type StatsService struct {
	store StoreInterface
	now   func() time.Time
}

func NewStatsService(store StoreInterface) *StatsService {
	return &StatsService{store: store, now: time.Now}
}

// NewStatsServiceAt pins the clock used by Today.
func NewStatsServiceAt(store StoreInterface, now func() time.Time) *StatsService {
	return &StatsService{store: store, now: now}
}

func (s *StatsService) Today(ctx context.Context) (*domain.DailyStats, error) {
	return s.store.GetDay(ctx, s.now().Local().Format(domain.DateLayout), TopItems)
}

func (s *StatsService) Day(ctx context.Context, date string) (*domain.DailyStats, error) {
	parsed, err := time.Parse(domain.DateLayout, date)
	if err != nil || parsed.Format(domain.DateLayout) != date {
		return nil, domain.ErrInvalidDate
	}
	return s.store.GetDay(ctx, date, TopItems)
}
