package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/spraitoken/presale-tracker/internal/domain"
	"github.com/spraitoken/presale-tracker/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// AutoMigrate creates or updates the ledger schema
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&schema.Purchase{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// ConfigureConnectionPool configures the connection pool settings for a
// GORM database connection. Zero values fall back to defaults:
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// InsertPurchaseIfAbsent atomically inserts the purchase unless a row
// with the same tx hash exists. The uniqueness guarantee comes from the
// database index, not application locking, so it holds across process
// restarts and multiple instances.
func (s *pgStore) InsertPurchaseIfAbsent(ctx context.Context, purchase *schema.Purchase) (bool, *schema.Purchase, error) {
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tx_hash"}},
		DoNothing: true,
	}).Create(purchase)
	if result.Error != nil {
		return false, nil, fmt.Errorf("failed to insert purchase: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// Lost the race or the hash was already recorded; surface the
		// existing row so callers can report "already submitted".
		existing, err := s.GetPurchaseByTxHash(ctx, purchase.TxHash)
		if err != nil {
			return false, nil, err
		}
		if existing == nil {
			return false, nil, fmt.Errorf("purchase %s vanished after conflict", purchase.TxHash)
		}
		return false, existing, nil
	}

	return true, purchase, nil
}

// GetPurchaseByTxHash retrieves a purchase by transaction hash
func (s *pgStore) GetPurchaseByTxHash(ctx context.Context, txHash string) (*schema.Purchase, error) {
	var purchase schema.Purchase
	err := s.db.WithContext(ctx).Where("tx_hash = ?", txHash).First(&purchase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}
	return &purchase, nil
}

// ListPurchasesByWallet retrieves all purchases of a wallet, newest first
func (s *pgStore) ListPurchasesByWallet(ctx context.Context, wallet string) ([]schema.Purchase, error) {
	var purchases []schema.Purchase
	err := s.db.WithContext(ctx).
		Where("buyer_wallet = ?", wallet).
		Order("occurred_at DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases by wallet: %w", err)
	}
	return purchases, nil
}

// ListPurchases retrieves a page of purchases plus the total row count
func (s *pgStore) ListPurchases(ctx context.Context, limit, offset int) ([]schema.Purchase, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&schema.Purchase{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count purchases: %w", err)
	}

	var purchases []schema.Purchase
	err := s.db.WithContext(ctx).
		Order("occurred_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&purchases).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list purchases: %w", err)
	}

	return purchases, total, nil
}

// presaleTotalsRow receives the aggregate query result. Sums stay in
// Postgres numeric arithmetic end to end; no floating point is involved.
type presaleTotalsRow struct {
	TotalPaid     decimal.Decimal
	TotalReceived decimal.Decimal
	TxCount       int64
	UniqueBuyers  int64
}

// GetPresaleTotals computes the aggregate over all validated purchases
func (s *pgStore) GetPresaleTotals(ctx context.Context) (*domain.PresaleStats, error) {
	var row presaleTotalsRow
	err := s.db.WithContext(ctx).
		Model(&schema.Purchase{}).
		Select("COALESCE(SUM(paid_amount), 0) AS total_paid, " +
			"COALESCE(SUM(received_amount), 0) AS total_received, " +
			"COUNT(*) AS tx_count, " +
			"COUNT(DISTINCT buyer_wallet) AS unique_buyers").
		Where("validated = ?", true).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute presale totals: %w", err)
	}

	return &domain.PresaleStats{
		TotalPaid:        row.TotalPaid,
		TotalReceived:    row.TotalReceived,
		TransactionCount: row.TxCount,
		UniqueBuyers:     row.UniqueBuyers,
	}, nil
}
