package stats_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraitoken/presale-tracker/internal/domain"
	"github.com/spraitoken/presale-tracker/internal/mocks"
	"github.com/spraitoken/presale-tracker/internal/stats"
)

func testTotals(paid string) *domain.PresaleStats {
	return &domain.PresaleStats{
		TotalPaid:        decimal.RequireFromString(paid),
		TotalReceived:    decimal.RequireFromString(paid).Mul(decimal.NewFromInt(2)),
		TransactionCount: 2,
		UniqueBuyers:     2,
	}
}

func TestStatsNoCacheRecomputesEveryRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	clock := mocks.NewMockClock(ctrl)
	agg := stats.New(store, clock, stats.Config{CacheTTL: 0})
	ctx := context.Background()

	store.EXPECT().GetPresaleTotals(ctx).Return(testTotals("70"), nil).Times(2)

	for i := 0; i < 2; i++ {
		totals, err := agg.Stats(ctx)
		require.NoError(t, err)
		assert.True(t, totals.TotalPaid.Equal(decimal.RequireFromString("70")))
	}
}

func TestStatsServesCachedWithinTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	clock := mocks.NewMockClock(ctrl)
	agg := stats.New(store, clock, stats.Config{CacheTTL: time.Minute})
	ctx := context.Background()

	fetchedAt := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)

	// First read fills the cache
	store.EXPECT().GetPresaleTotals(ctx).Return(testTotals("70"), nil)
	clock.EXPECT().Now().Return(fetchedAt)

	first, err := agg.Stats(ctx)
	require.NoError(t, err)

	// Second read inside the TTL never touches the store
	clock.EXPECT().Since(fetchedAt).Return(30 * time.Second)
	second, err := agg.Stats(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestStatsRefreshesAfterTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	clock := mocks.NewMockClock(ctrl)
	agg := stats.New(store, clock, stats.Config{CacheTTL: time.Minute})
	ctx := context.Background()

	fetchedAt := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)

	store.EXPECT().GetPresaleTotals(ctx).Return(testTotals("70"), nil)
	clock.EXPECT().Now().Return(fetchedAt)
	_, err := agg.Stats(ctx)
	require.NoError(t, err)

	// Past the TTL the totals are recomputed
	clock.EXPECT().Since(fetchedAt).Return(2 * time.Minute)
	store.EXPECT().GetPresaleTotals(ctx).Return(testTotals("105"), nil)
	clock.EXPECT().Now().Return(fetchedAt.Add(2 * time.Minute))

	refreshed, err := agg.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, refreshed.TotalPaid.Equal(decimal.RequireFromString("105")))
}

func TestStatsErrorIsNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	clock := mocks.NewMockClock(ctrl)
	agg := stats.New(store, clock, stats.Config{CacheTTL: time.Minute})
	ctx := context.Background()

	store.EXPECT().GetPresaleTotals(ctx).Return(nil, errors.New("connection reset"))
	_, err := agg.Stats(ctx)
	require.Error(t, err)

	// The next read retries instead of serving a cached failure
	store.EXPECT().GetPresaleTotals(ctx).Return(testTotals("70"), nil)
	clock.EXPECT().Now().Return(time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC))

	totals, err := agg.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, totals.TotalPaid.Equal(decimal.RequireFromString("70")))
}
