package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spraitoken/presale-tracker/internal/adapter"
	"github.com/spraitoken/presale-tracker/internal/domain"
	"github.com/spraitoken/presale-tracker/internal/logger"
)

// tokensPurchasedEventSignature identifies the presale contract's
// TokensPurchased(address indexed buyer, uint256 usdtAmount, uint256 spraiAmount, uint256 timestamp) log
var tokensPurchasedEventSignature = crypto.Keccak256Hash([]byte("TokensPurchased(address,uint256,uint256,uint256)"))

// ErrNotFound is returned when the node definitively reports that a
// transaction or receipt does not exist. It is distinct from
// domain.ErrChainUnavailable: not-found is an answer, unavailable is
// the absence of one.
var ErrNotFound = errors.New("not found on chain")

// Config holds the chain reader configuration
type Config struct {
	// PresaleContract is the address whose TokensPurchased logs are read.
	// May be empty; the validator fails closed on an empty address.
	PresaleContract string
	// TokenDecimals is the fixed-point scale of both event amounts (18 on BSC)
	TokenDecimals int32
	// RequestTimeout bounds every individual RPC call
	RequestTimeout time.Duration
}

// Reader is a read-only adapter over an EVM JSON-RPC endpoint. All
// methods surface RPC failures as domain.ErrChainUnavailable so callers
// never conflate "the chain said no" with "the chain didn't answer".
//
//go:generate mockgen -source=reader.go -destination=../mocks/chain_reader.go -package=mocks -mock_names=Reader=MockChainReader
type Reader interface {
	// GetTransaction fetches a transaction by hash
	GetTransaction(ctx context.Context, txHash string) (*types.Transaction, error)

	// GetReceipt fetches the receipt of a mined transaction
	GetReceipt(ctx context.Context, txHash string) (*types.Receipt, error)

	// GetBlockTime fetches the timestamp of a block
	GetBlockTime(ctx context.Context, blockNumber uint64) (time.Time, error)

	// GetLatestBlock fetches the current chain head number
	GetLatestBlock(ctx context.Context) (uint64, error)

	// GetPurchaseEvents fetches and decodes the presale contract's
	// TokensPurchased events over an inclusive block range
	GetPurchaseEvents(ctx context.Context, fromBlock, toBlock uint64) ([]domain.PurchaseEvent, error)

	// Close closes the underlying connection
	Close()
}

type ethReader struct {
	client adapter.EthClient
	clock  adapter.Clock
	cfg    Config
}

// NewReader creates a chain reader over the given client
func NewReader(client adapter.EthClient, clock adapter.Clock, cfg Config) Reader {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.TokenDecimals == 0 {
		cfg.TokenDecimals = 18
	}
	return &ethReader{client: client, clock: clock, cfg: cfg}
}

func (r *ethReader) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.cfg.RequestTimeout)
}

// GetTransaction fetches a transaction by hash
func (r *ethReader) GetTransaction(ctx context.Context, txHash string) (*types.Transaction, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, _, err := r.client.TransactionByHash(ctx, common.HexToHash(txHash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("transaction %s: %w", txHash, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: get transaction: %v", domain.ErrChainUnavailable, err)
	}
	return tx, nil
}

// GetReceipt fetches the receipt of a mined transaction
func (r *ethReader) GetReceipt(ctx context.Context, txHash string) (*types.Receipt, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	receipt, err := r.client.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("receipt %s: %w", txHash, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: get receipt: %v", domain.ErrChainUnavailable, err)
	}
	return receipt, nil
}

// GetBlockTime fetches the timestamp of a block
func (r *ethReader) GetBlockTime(ctx context.Context, blockNumber uint64) (time.Time, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	header, err := r.client.HeaderByNumber(ctx, new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: get block %d: %v", domain.ErrChainUnavailable, blockNumber, err)
	}
	return r.clock.Unix(int64(header.Time), 0), nil //nolint:gosec,G115 // header.Time is a uint64 from geth which is safe to cast
}

// GetLatestBlock fetches the current chain head number
func (r *ethReader) GetLatestBlock(ctx context.Context) (uint64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	header, err := r.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: get latest block: %v", domain.ErrChainUnavailable, err)
	}
	return header.Number.Uint64(), nil
}

// GetPurchaseEvents fetches and decodes TokensPurchased events over an
// inclusive block range. Undecodable logs are skipped, not fabricated.
func (r *ethReader) GetPurchaseEvents(ctx context.Context, fromBlock, toBlock uint64) ([]domain.PurchaseEvent, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{common.HexToAddress(r.cfg.PresaleContract)},
		Topics: [][]common.Hash{
			{tokensPurchasedEventSignature},
		},
	}

	logs, err := r.client.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: filter logs %d-%d: %v", domain.ErrChainUnavailable, fromBlock, toBlock, err)
	}

	events := make([]domain.PurchaseEvent, 0, len(logs))
	for _, vLog := range logs {
		event, err := r.decodePurchaseLog(vLog)
		if err != nil {
			logger.Warn("Skipping undecodable purchase log",
				zap.Error(err),
				zap.String("tx_hash", vLog.TxHash.Hex()),
				zap.Uint64("block", vLog.BlockNumber))
			continue
		}
		events = append(events, *event)
	}

	return events, nil
}

// decodePurchaseLog decodes a single TokensPurchased log. The buyer is
// indexed (topic 1); usdtAmount, spraiAmount and timestamp sit in the
// data section as three 32-byte words.
func (r *ethReader) decodePurchaseLog(vLog types.Log) (*domain.PurchaseEvent, error) {
	if len(vLog.Topics) != 2 {
		return nil, fmt.Errorf("invalid TokensPurchased event: expected 2 topics, got %d", len(vLog.Topics))
	}
	if len(vLog.Data) < 96 {
		return nil, fmt.Errorf("invalid TokensPurchased event: insufficient data (%d bytes)", len(vLog.Data))
	}

	paid := new(big.Int).SetBytes(vLog.Data[0:32])
	received := new(big.Int).SetBytes(vLog.Data[32:64])
	timestamp := new(big.Int).SetBytes(vLog.Data[64:96])

	return &domain.PurchaseEvent{
		Buyer:          common.BytesToAddress(vLog.Topics[1].Bytes()).Hex(),
		PaidAmount:     decimal.NewFromBigInt(paid, -r.cfg.TokenDecimals),
		ReceivedAmount: decimal.NewFromBigInt(received, -r.cfg.TokenDecimals),
		Timestamp:      r.clock.Unix(timestamp.Int64(), 0),
		BlockNumber:    vLog.BlockNumber,
		TxHash:         vLog.TxHash.Hex(),
	}, nil
}

func (r *ethReader) Close() {
	r.client.Close()
}
