package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/spraitoken/presale-tracker/internal/adapter"
	"github.com/spraitoken/presale-tracker/internal/chain"
	"github.com/spraitoken/presale-tracker/internal/config"
	"github.com/spraitoken/presale-tracker/internal/domain"
	"github.com/spraitoken/presale-tracker/internal/logger"
	"github.com/spraitoken/presale-tracker/internal/store"
	"github.com/spraitoken/presale-tracker/internal/store/schema"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	fromBlock  = flag.Uint64("from", 0, "First block to scan (defaults to chain.start_block)")
	toBlock    = flag.Uint64("to", 0, "Last block to scan (defaults to the chain head)")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadResyncConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx := context.Background()

	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags: map[string]string{
			"service": "presale-resync",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := store.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}
	dataStore := store.NewPGStore(db)

	dialer := adapter.NewEthClientDialer()
	ethClient, err := dialer.Dial(ctx, cfg.Chain.RPCURL())
	if err != nil {
		logger.Fatal("Failed to dial RPC endpoint", zap.Error(err))
	}

	clock := adapter.NewClock()
	reader := chain.NewReader(ethClient, clock, chain.Config{
		PresaleContract: cfg.Chain.PresaleContract,
		TokenDecimals:   cfg.Chain.TokenDecimals,
		RequestTimeout:  cfg.Chain.RequestTimeout,
	})
	defer reader.Close()

	if cfg.Resync.ChunkSize == 0 {
		cfg.Resync.ChunkSize = 5000
	}

	start := *fromBlock
	if start == 0 {
		start = cfg.Chain.StartBlock
	}
	end := *toBlock
	if end == 0 {
		end, err = reader.GetLatestBlock(ctx)
		if err != nil {
			logger.Fatal("Failed to resolve chain head", zap.Error(err))
		}
	}
	if end < start {
		logger.Fatal("Invalid block range",
			zap.Uint64("from", start),
			zap.Uint64("to", end))
	}

	logger.Info("Resyncing presale events",
		zap.Uint64("from", start),
		zap.Uint64("to", end),
		zap.Uint64("chunk_size", cfg.Resync.ChunkSize),
		zap.Int("workers", cfg.Resync.Workers))

	var inserted, skipped atomic.Int64

	pool := pond.NewPool(cfg.Resync.Workers)
	for chunkStart := start; chunkStart <= end; chunkStart += cfg.Resync.ChunkSize {
		chunkEnd := chunkStart + cfg.Resync.ChunkSize - 1
		if chunkEnd > end {
			chunkEnd = end
		}
		from, to := chunkStart, chunkEnd
		pool.Submit(func() {
			n, s, err := resyncChunk(ctx, reader, dataStore, from, to)
			if err != nil {
				logger.Error(err,
					zap.Uint64("from", from),
					zap.Uint64("to", to))
				return
			}
			inserted.Add(n)
			skipped.Add(s)
		})
	}
	pool.StopAndWait()

	logger.Info("Resync complete",
		zap.Int64("inserted", inserted.Load()),
		zap.Int64("already_recorded", skipped.Load()))
}

// resyncChunk replays one block range into the ledger. Fetching retries
// with exponential backoff; inserts are idempotent so a rerun over the
// same range never double-counts.
func resyncChunk(ctx context.Context, reader chain.Reader, dataStore store.Store, from, to uint64) (int64, int64, error) {
	var events []domain.PurchaseEvent

	fetch := func() error {
		var err error
		events, err = reader.GetPurchaseEvents(ctx, from, to)
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	if err := backoff.Retry(fetch, policy); err != nil {
		return 0, 0, fmt.Errorf("fetch events %d-%d: %w", from, to, err)
	}

	var inserted, skipped int64
	for _, event := range events {
		if event.PaidAmount.IsNegative() || event.ReceivedAmount.Sign() <= 0 {
			logger.Warn("Skipping event with invalid amounts",
				zap.String("tx_hash", event.TxHash))
			continue
		}

		purchase := &schema.Purchase{
			TxHash:         event.TxHash,
			BuyerWallet:    strings.ToLower(event.Buyer),
			PaidAmount:     event.PaidAmount,
			ReceivedAmount: event.ReceivedAmount,
			UnitPrice:      event.PaidAmount.DivRound(event.ReceivedAmount, domain.UnitPricePrecision),
			BlockNumber:    event.BlockNumber,
			OccurredAt:     event.Timestamp,
			Validated:      true,
		}

		created, _, err := dataStore.InsertPurchaseIfAbsent(ctx, purchase)
		if err != nil {
			return inserted, skipped, fmt.Errorf("persist %s: %w", event.TxHash, err)
		}
		if created {
			inserted++
		} else {
			skipped++
		}
	}

	return inserted, skipped, nil
}
