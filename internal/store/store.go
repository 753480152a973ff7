package store

import (
	"context"

	"github.com/spraitoken/presale-tracker/internal/domain"
	"github.com/spraitoken/presale-tracker/internal/store/schema"
)

// Store defines the interface for ledger operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// InsertPurchaseIfAbsent atomically inserts the purchase unless a
	// row with the same tx hash already exists. It returns
	// (true, inserted, nil) on insert and (false, existing, nil) when
	// the hash was already recorded, including under concurrent
	// submission of the same hash.
	InsertPurchaseIfAbsent(ctx context.Context, purchase *schema.Purchase) (bool, *schema.Purchase, error)

	// GetPurchaseByTxHash retrieves a purchase by transaction hash, nil when absent
	GetPurchaseByTxHash(ctx context.Context, txHash string) (*schema.Purchase, error)

	// ListPurchasesByWallet retrieves all purchases of a wallet, newest occurred_at first
	ListPurchasesByWallet(ctx context.Context, wallet string) ([]schema.Purchase, error)

	// ListPurchases retrieves a page of purchases (newest occurred_at
	// first) together with the total row count
	ListPurchases(ctx context.Context, limit, offset int) ([]schema.Purchase, int64, error)

	// GetPresaleTotals computes the aggregate over all validated purchases
	GetPresaleTotals(ctx context.Context) (*domain.PresaleStats, error)
}
