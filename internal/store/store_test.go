package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraitoken/presale-tracker/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

// buildTestPurchase creates a purchase row with sensible defaults
func buildTestPurchase(txHash, wallet string, paid, received string, occurredAt time.Time) *schema.Purchase {
	paidDec := decimal.RequireFromString(paid)
	receivedDec := decimal.RequireFromString(received)
	return &schema.Purchase{
		TxHash:         txHash,
		BuyerWallet:    wallet,
		PaidAmount:     paidDec,
		ReceivedAmount: receivedDec,
		UnitPrice:      paidDec.DivRound(receivedDec, 4),
		BlockNumber:    12345678,
		OccurredAt:     occurredAt,
		Validated:      true,
	}
}

// RunStoreTests runs the full store test suite against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	t.Run("InsertPurchaseIfAbsent", func(t *testing.T) {
		defer cleanupDB(t)
		s := initDB(t)
		ctx := context.Background()

		purchase := buildTestPurchase("0xaaa1", "0xbuyer1", "35", "70", time.Now().UTC())

		created, stored, err := s.InsertPurchaseIfAbsent(ctx, purchase)
		require.NoError(t, err)
		assert.True(t, created)
		require.NotNil(t, stored)
		assert.NotZero(t, stored.ID)
		assert.True(t, stored.PaidAmount.Equal(decimal.RequireFromString("35")))
		assert.True(t, stored.UnitPrice.Equal(decimal.RequireFromString("0.5")))
	})

	t.Run("InsertPurchaseIfAbsentDuplicate", func(t *testing.T) {
		defer cleanupDB(t)
		s := initDB(t)
		ctx := context.Background()

		first := buildTestPurchase("0xaaa2", "0xbuyer1", "35", "70", time.Now().UTC())
		created, _, err := s.InsertPurchaseIfAbsent(ctx, first)
		require.NoError(t, err)
		require.True(t, created)

		// Same hash again, even with different amounts, must not insert
		second := buildTestPurchase("0xaaa2", "0xbuyer2", "100", "200", time.Now().UTC())
		created, existing, err := s.InsertPurchaseIfAbsent(ctx, second)
		require.NoError(t, err)
		assert.False(t, created)
		require.NotNil(t, existing)
		assert.Equal(t, "0xbuyer1", existing.BuyerWallet)
		assert.True(t, existing.PaidAmount.Equal(decimal.RequireFromString("35")))
	})

	t.Run("GetPurchaseByTxHash", func(t *testing.T) {
		defer cleanupDB(t)
		s := initDB(t)
		ctx := context.Background()

		_, _, err := s.InsertPurchaseIfAbsent(ctx, buildTestPurchase("0xaaa3", "0xbuyer1", "10", "20", time.Now().UTC()))
		require.NoError(t, err)

		found, err := s.GetPurchaseByTxHash(ctx, "0xaaa3")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "0xaaa3", found.TxHash)

		missing, err := s.GetPurchaseByTxHash(ctx, "0xnope")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("ListPurchasesByWalletOrdering", func(t *testing.T) {
		defer cleanupDB(t)
		s := initDB(t)
		ctx := context.Background()

		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		for i := 0; i < 3; i++ {
			p := buildTestPurchase(fmt.Sprintf("0xwallet%d", i), "0xbuyer9", "10", "20", base.Add(time.Duration(i)*time.Hour))
			_, _, err := s.InsertPurchaseIfAbsent(ctx, p)
			require.NoError(t, err)
		}
		// Another wallet's purchase must not leak in
		_, _, err := s.InsertPurchaseIfAbsent(ctx, buildTestPurchase("0xother", "0xsomeoneelse", "10", "20", base))
		require.NoError(t, err)

		purchases, err := s.ListPurchasesByWallet(ctx, "0xbuyer9")
		require.NoError(t, err)
		require.Len(t, purchases, 3)
		// Newest first
		assert.Equal(t, "0xwallet2", purchases[0].TxHash)
		assert.Equal(t, "0xwallet1", purchases[1].TxHash)
		assert.Equal(t, "0xwallet0", purchases[2].TxHash)
	})

	t.Run("ListPurchasesByWalletEmpty", func(t *testing.T) {
		defer cleanupDB(t)
		s := initDB(t)

		purchases, err := s.ListPurchasesByWallet(context.Background(), "0xunknown")
		require.NoError(t, err)
		assert.Empty(t, purchases)
	})

	t.Run("ListPurchasesPagination", func(t *testing.T) {
		defer cleanupDB(t)
		s := initDB(t)
		ctx := context.Background()

		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		for i := 0; i < 5; i++ {
			p := buildTestPurchase(fmt.Sprintf("0xpage%d", i), fmt.Sprintf("0xbuyer%d", i), "10", "20", base.Add(time.Duration(i)*time.Minute))
			_, _, err := s.InsertPurchaseIfAbsent(ctx, p)
			require.NoError(t, err)
		}

		page, total, err := s.ListPurchases(ctx, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, page, 2)
		assert.Equal(t, "0xpage4", page[0].TxHash)
		assert.Equal(t, "0xpage3", page[1].TxHash)

		page, total, err = s.ListPurchases(ctx, 2, 4)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, page, 1)
		assert.Equal(t, "0xpage0", page[0].TxHash)
	})

	t.Run("GetPresaleTotals", func(t *testing.T) {
		defer cleanupDB(t)
		s := initDB(t)
		ctx := context.Background()

		now := time.Now().UTC()
		_, _, err := s.InsertPurchaseIfAbsent(ctx, buildTestPurchase("0xtot1", "0xbuyera", "35", "70", now))
		require.NoError(t, err)
		_, _, err = s.InsertPurchaseIfAbsent(ctx, buildTestPurchase("0xtot2", "0xbuyerb", "35", "70", now))
		require.NoError(t, err)
		// Same buyer twice still counts once for unique buyers
		_, _, err = s.InsertPurchaseIfAbsent(ctx, buildTestPurchase("0xtot3", "0xbuyera", "10", "40", now))
		require.NoError(t, err)

		totals, err := s.GetPresaleTotals(ctx)
		require.NoError(t, err)
		assert.True(t, totals.TotalPaid.Equal(decimal.RequireFromString("80")), "got %s", totals.TotalPaid)
		assert.True(t, totals.TotalReceived.Equal(decimal.RequireFromString("180")), "got %s", totals.TotalReceived)
		assert.Equal(t, int64(3), totals.TransactionCount)
		assert.Equal(t, int64(2), totals.UniqueBuyers)
	})

	t.Run("GetPresaleTotalsEmpty", func(t *testing.T) {
		defer cleanupDB(t)
		s := initDB(t)

		totals, err := s.GetPresaleTotals(context.Background())
		require.NoError(t, err)
		assert.True(t, totals.TotalPaid.IsZero())
		assert.True(t, totals.TotalReceived.IsZero())
		assert.Equal(t, int64(0), totals.TransactionCount)
		assert.Equal(t, int64(0), totals.UniqueBuyers)
	})
}

// RunStoreConcurrencyTests covers same-hash races. They need real
// parallel connections, so implementations that isolate tests inside a
// single transaction run them against a shared database instead.
func RunStoreConcurrencyTests(t *testing.T, s Store, cleanup func(t *testing.T)) {
	t.Run("ConcurrentSameHashInsertsOnce", func(t *testing.T) {
		defer cleanup(t)
		ctx := context.Background()

		const workers = 8
		var wg sync.WaitGroup
		createdCount := make(chan bool, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				p := buildTestPurchase("0xrace", "0xracer", "35", "70", time.Now().UTC())
				created, stored, err := s.InsertPurchaseIfAbsent(ctx, p)
				assert.NoError(t, err)
				assert.NotNil(t, stored)
				createdCount <- created
			}()
		}
		wg.Wait()
		close(createdCount)

		wins := 0
		for created := range createdCount {
			if created {
				wins++
			}
		}
		assert.Equal(t, 1, wins, "exactly one concurrent insert must win")

		stored, err := s.GetPurchaseByTxHash(ctx, "0xrace")
		require.NoError(t, err)
		require.NotNil(t, stored)
	})
}
