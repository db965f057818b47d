package tests

import (
	"context"
	"fmt"
	"testing"

	"sivik-storefront/stats-svc/internal/domain"
	"sivik-storefront/stats-svc/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*storage.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return storage.NewStore(rdb), mr
}

func TestStore_RecordOrderAndStatus(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	const date = "2026-10-18"

	require.NoError(t, store.RecordOrder(ctx, date, 25, []domain.OrderEventItem{
		{Name: "Pierogi", Quantity: 2},
		{Name: "Zupa", Quantity: 1},
	}))
	require.NoError(t, store.RecordOrder(ctx, date, 7.5, []domain.OrderEventItem{
		{Name: "Pierogi", Quantity: 1},
		{Name: "", Quantity: 4},
		{Name: "Kompot", Quantity: 0},
	}))
	require.NoError(t, store.RecordStatus(ctx, date, "delivered"))
	require.NoError(t, store.RecordStatus(ctx, date, "delivered"))
	require.NoError(t, store.RecordStatus(ctx, date, "cancelled"))

	stats, err := store.GetDay(ctx, date, 5)
	require.NoError(t, err)

	assert.Equal(t, date, stats.Date)
	assert.Equal(t, int64(2), stats.Orders)
	assert.InDelta(t, 32.5, stats.Revenue, 0.001)
	assert.Equal(t, map[string]int64{"delivered": 2, "cancelled": 1}, stats.Statuses)
	assert.Equal(t, []domain.ItemCount{
		{Name: "Pierogi", Quantity: 3},
		{Name: "Zupa", Quantity: 1},
	}, stats.TopItems)

	for _, key := range []string{storage.DailyKey(date), storage.ItemsKey(date), storage.StatusKey(date)} {
		assert.Equal(t, storage.KeyTTL, mr.TTL(key), key)
	}
}

func TestStore_GetDay_Empty(t *testing.T) {
	store, _ := newTestStore(t)

	stats, err := store.GetDay(context.Background(), "2026-01-01", 5)

	require.NoError(t, err)
	assert.Zero(t, stats.Orders)
	assert.Zero(t, stats.Revenue)
	assert.Empty(t, stats.Statuses)
	assert.NotNil(t, stats.TopItems)
	assert.Empty(t, stats.TopItems)
}

func TestStore_GetDay_LimitsTopItems(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	const date = "2026-10-18"

	var items []domain.OrderEventItem
	for i := 1; i <= 7; i++ {
		items = append(items, domain.OrderEventItem{Name: fmt.Sprintf("item-%d", i), Quantity: i})
	}
	require.NoError(t, store.RecordOrder(ctx, date, 1, items))

	stats, err := store.GetDay(ctx, date, 5)
	require.NoError(t, err)

	require.Len(t, stats.TopItems, 5)
	assert.Equal(t, "item-7", stats.TopItems[0].Name)
	assert.Equal(t, 7, stats.TopItems[0].Quantity)
	assert.Equal(t, "item-3", stats.TopItems[4].Name)
}

func TestStore_ExpiresAfterAWeek(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	const date = "2026-10-11"

	require.NoError(t, store.RecordOrder(ctx, date, 12, []domain.OrderEventItem{{Name: "Pierogi", Quantity: 1}}))
	mr.FastForward(storage.KeyTTL)

	stats, err := store.GetDay(ctx, date, 5)
	require.NoError(t, err)
	assert.Zero(t, stats.Orders)
	assert.Empty(t, stats.TopItems)
}
