package validator

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/spraitoken/presale-tracker/internal/chain"
	"github.com/spraitoken/presale-tracker/internal/domain"
	"github.com/spraitoken/presale-tracker/internal/logger"
)

// Config holds the validator configuration
type Config struct {
	// PresaleContract is the only destination a purchase may call.
	// An empty address fails every validation closed.
	PresaleContract string
}

// Validator decides whether a transaction hash represents a genuine,
// confirmed, successful call into the presale contract. Caller-supplied
// data never influences the result; everything is re-derived from the
// chain.
//
//go:generate mockgen -source=validator.go -destination=../mocks/validator.go -package=mocks -mock_names=Validator=MockValidator
type Validator interface {
	// Validate returns the on-chain facts of the transaction, or a
	// *domain.ValidationError naming the specific rejection reason, or
	// domain.ErrChainUnavailable when the chain cannot be consulted.
	Validate(ctx context.Context, txHash string) (*domain.TxDetails, error)
}

type txValidator struct {
	reader chain.Reader
	cfg    Config
}

// New creates a validator backed by the given chain reader
func New(reader chain.Reader, cfg Config) Validator {
	return &txValidator{reader: reader, cfg: cfg}
}

func (v *txValidator) Validate(ctx context.Context, txHash string) (*domain.TxDetails, error) {
	tx, err := v.reader.GetTransaction(ctx, txHash)
	if err != nil {
		if errors.Is(err, chain.ErrNotFound) {
			return nil, domain.NewValidationError(domain.ReasonTxNotFound)
		}
		return nil, err
	}

	receipt, err := v.reader.GetReceipt(ctx, txHash)
	if err != nil {
		if errors.Is(err, chain.ErrNotFound) {
			return nil, domain.NewValidationError(domain.ReasonNotConfirmed)
		}
		return nil, err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, domain.NewValidationError(domain.ReasonFailedOnChain)
	}

	// The anti-spoofing check: the call must target the presale
	// contract itself. A direct USDT transfer to any other address,
	// including the operator wallet, must never validate. An
	// unconfigured contract address fails closed rather than acting as
	// a wildcard.
	if v.cfg.PresaleContract == "" {
		return nil, domain.NewValidationError(domain.ReasonContractNotConfigured)
	}
	if tx.To() == nil || *tx.To() != common.HexToAddress(v.cfg.PresaleContract) {
		logger.Warn("Rejecting transaction with wrong destination",
			zap.String("tx_hash", txHash),
			zap.String("expected", v.cfg.PresaleContract))
		return nil, domain.NewValidationError(domain.ReasonWrongDestination)
	}

	blockNumber := receipt.BlockNumber.Uint64()
	timestamp, err := v.reader.GetBlockTime(ctx, blockNumber)
	if err != nil {
		return nil, fmt.Errorf("resolve block timestamp: %w", err)
	}

	from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		return nil, fmt.Errorf("%w: recover sender: %v", domain.ErrChainUnavailable, err)
	}

	return &domain.TxDetails{
		BlockNumber: blockNumber,
		Timestamp:   timestamp,
		From:        from.Hex(),
		To:          tx.To().Hex(),
		GasUsed:     receipt.GasUsed,
	}, nil
}
