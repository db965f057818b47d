package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"sivik-storefront/stats-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// KeyTTL bounds how long a day's counters are kept.
const KeyTTL = 7 * 24 * time.Hour

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func DailyKey(date string) string { return "stats:daily:" + date }
func ItemsKey(date string) string { return "stats:items:" + date }
func StatusKey(date string) string { return "stats:status:" + date }

// RecordOrder bumps the order count, revenue and item leaderboard for date
// in one MULTI so a half-applied order is never visible.
func (s *Store) RecordOrder(ctx context.Context, date string, total float64, items []domain.OrderEventItem) error {
	daily, ranked := DailyKey(date), ItemsKey(date)

	pipe := s.rdb.TxPipeline()
	pipe.HIncrBy(ctx, daily, "orders", 1)
	pipe.HIncrByFloat(ctx, daily, "revenue", total)
	pipe.Expire(ctx, daily, KeyTTL)
	for _, item := range items {
		if item.Name == "" || item.Quantity <= 0 {
			continue
		}
		pipe.ZIncrBy(ctx, ranked, float64(item.Quantity), item.Name)
	}
	pipe.Expire(ctx, ranked, KeyTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record order for %s: %w", date, err)
	}
	return nil
}

func (s *Store) RecordStatus(ctx context.Context, date, status string) error {
	key := StatusKey(date)

	pipe := s.rdb.TxPipeline()
	pipe.HIncrBy(ctx, key, status, 1)
	pipe.Expire(ctx, key, KeyTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record status for %s: %w", date, err)
	}
	return nil
}

// GetDay returns the counters for date. Missing keys read as zero.
func (s *Store) GetDay(ctx context.Context, date string, topN int) (*domain.DailyStats, error) {
	if topN <= 0 {
		topN = 5
	}

	pipe := s.rdb.Pipeline()
	daily := pipe.HGetAll(ctx, DailyKey(date))
	statuses := pipe.HGetAll(ctx, StatusKey(date))
	top := pipe.ZRevRangeWithScores(ctx, ItemsKey(date), 0, int64(topN-1))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read stats for %s: %w", date, err)
	}

	stats := &domain.DailyStats{
		Date:     date,
		Statuses: map[string]int64{},
		TopItems: []domain.ItemCount{},
	}

	fields := daily.Val()
	if v, ok := fields["orders"]; ok {
		stats.Orders, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, ok := fields["revenue"]; ok {
		revenue, _ := strconv.ParseFloat(v, 64)
		stats.Revenue = math.Round(revenue*100) / 100
	}

	for status, v := range statuses.Val() {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		stats.Statuses[status] = n
	}

	for _, z := range top.Val() {
		name, ok := z.Member.(string)
		if !ok {
			continue
		}
		stats.TopItems = append(stats.TopItems, domain.ItemCount{
			Name:     name,
			Quantity: int(z.Score),
		})
	}
	return stats, nil
}
