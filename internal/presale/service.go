package presale

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spraitoken/presale-tracker/internal/chain"
	"github.com/spraitoken/presale-tracker/internal/domain"
	"github.com/spraitoken/presale-tracker/internal/logger"
	"github.com/spraitoken/presale-tracker/internal/stats"
	"github.com/spraitoken/presale-tracker/internal/store"
	"github.com/spraitoken/presale-tracker/internal/store/schema"
	"github.com/spraitoken/presale-tracker/internal/validator"
)

// Service orchestrates the submit flow and the read-side queries.
// Handlers delegate all decision-making here.
//
//go:generate mockgen -source=service.go -destination=../mocks/presale_service.go -package=mocks -mock_names=Service=MockService
type Service interface {
	// Submit validates the claimed purchase against the chain and
	// records it exactly once. On a duplicate hash it returns the
	// existing record together with domain.ErrAlreadySubmitted.
	Submit(ctx context.Context, txHash, buyerWallet string) (*schema.Purchase, error)

	// ListByWallet returns the wallet's purchases, newest first
	ListByWallet(ctx context.Context, wallet string) ([]schema.Purchase, error)

	// ListAll returns a page of purchases plus the total count
	ListAll(ctx context.Context, limit, offset int) ([]schema.Purchase, int64, error)

	// Stats returns the presale aggregate
	Stats(ctx context.Context) (*domain.PresaleStats, error)
}

type service struct {
	reader     chain.Reader
	validator  validator.Validator
	store      store.Store
	aggregator stats.Aggregator
}

// NewService creates the presale service
func NewService(reader chain.Reader, v validator.Validator, s store.Store, agg stats.Aggregator) Service {
	return &service{reader: reader, validator: v, store: s, aggregator: agg}
}

// Submit runs the full validation pipeline for a claimed purchase. The
// amounts persisted always come from the contract's own emitted event,
// never from the caller: a client cannot claim a larger purchase than
// actually occurred.
func (s *service) Submit(ctx context.Context, txHash, buyerWallet string) (*schema.Purchase, error) {
	txHash = strings.TrimSpace(txHash)
	buyerWallet = strings.ToLower(strings.TrimSpace(buyerWallet))

	// Cheap short-circuit before any chain access.
	existing, err := s.store.GetPurchaseByTxHash(ctx, txHash)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, domain.ErrAlreadySubmitted
	}

	details, err := s.validator.Validate(ctx, txHash)
	if err != nil {
		return nil, err
	}

	// Only the contract's emitted log is authoritative for amounts.
	events, err := s.reader.GetPurchaseEvents(ctx, details.BlockNumber, details.BlockNumber)
	if err != nil {
		return nil, err
	}

	event := matchEvent(events, txHash)
	if event == nil {
		return nil, domain.NewValidationError(domain.ReasonEventNotFound)
	}
	if event.PaidAmount.IsNegative() || event.ReceivedAmount.Sign() <= 0 {
		return nil, domain.NewValidationError(domain.ReasonInvalidAmounts)
	}

	purchase := &schema.Purchase{
		TxHash:         txHash,
		BuyerWallet:    buyerWallet,
		PaidAmount:     event.PaidAmount,
		ReceivedAmount: event.ReceivedAmount,
		UnitPrice:      event.PaidAmount.DivRound(event.ReceivedAmount, domain.UnitPricePrecision),
		BlockNumber:    details.BlockNumber,
		OccurredAt:     details.Timestamp,
		Validated:      true,
	}

	created, stored, err := s.store.InsertPurchaseIfAbsent(ctx, purchase)
	if err != nil {
		return nil, fmt.Errorf("persist purchase: %w", err)
	}
	if !created {
		// A concurrent submission of the same hash won the insert.
		return stored, domain.ErrAlreadySubmitted
	}

	logger.Info("Recorded presale purchase",
		zap.String("tx_hash", txHash),
		zap.String("buyer", buyerWallet),
		zap.Uint64("block", details.BlockNumber),
		zap.String("paid", event.PaidAmount.String()),
		zap.String("received", event.ReceivedAmount.String()))

	return stored, nil
}

// matchEvent finds the purchase event emitted by the submitted
// transaction, comparing hashes case-insensitively.
func matchEvent(events []domain.PurchaseEvent, txHash string) *domain.PurchaseEvent {
	for i := range events {
		if strings.EqualFold(events[i].TxHash, txHash) {
			return &events[i]
		}
	}
	return nil
}

func (s *service) ListByWallet(ctx context.Context, wallet string) ([]schema.Purchase, error) {
	return s.store.ListPurchasesByWallet(ctx, strings.ToLower(strings.TrimSpace(wallet)))
}

func (s *service) ListAll(ctx context.Context, limit, offset int) ([]schema.Purchase, int64, error) {
	return s.store.ListPurchases(ctx, limit, offset)
}

func (s *service) Stats(ctx context.Context) (*domain.PresaleStats, error) {
	return s.aggregator.Stats(ctx)
}
