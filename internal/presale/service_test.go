package presale_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraitoken/presale-tracker/internal/domain"
	"github.com/spraitoken/presale-tracker/internal/logger"
	"github.com/spraitoken/presale-tracker/internal/mocks"
	"github.com/spraitoken/presale-tracker/internal/presale"
	"github.com/spraitoken/presale-tracker/internal/store/schema"
)

const (
	testTxHash = "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	testBuyer  = "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// testServiceMocks contains all the mocks needed for testing the service
type testServiceMocks struct {
	ctrl       *gomock.Controller
	reader     *mocks.MockChainReader
	validator  *mocks.MockValidator
	store      *mocks.MockStore
	aggregator *mocks.MockAggregator
	service    presale.Service
}

func newTestService(t *testing.T) *testServiceMocks {
	ctrl := gomock.NewController(t)
	m := &testServiceMocks{
		ctrl:       ctrl,
		reader:     mocks.NewMockChainReader(ctrl),
		validator:  mocks.NewMockValidator(ctrl),
		store:      mocks.NewMockStore(ctrl),
		aggregator: mocks.NewMockAggregator(ctrl),
	}
	m.service = presale.NewService(m.reader, m.validator, m.store, m.aggregator)
	return m
}

func testDetails() *domain.TxDetails {
	return &domain.TxDetails{
		BlockNumber: 1000,
		Timestamp:   time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC),
		From:        testBuyer,
		To:          "0x1111111111111111111111111111111111111111",
		GasUsed:     54321,
	}
}

func testEvent(txHash, paid, received string) domain.PurchaseEvent {
	return domain.PurchaseEvent{
		Buyer:          testBuyer,
		PaidAmount:     decimal.RequireFromString(paid),
		ReceivedAmount: decimal.RequireFromString(received),
		Timestamp:      time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC),
		BlockNumber:    1000,
		TxHash:         txHash,
	}
}

func TestSubmitRecordsValidatedPurchase(t *testing.T) {
	m := newTestService(t)
	ctx := context.Background()

	m.store.EXPECT().GetPurchaseByTxHash(ctx, testTxHash).Return(nil, nil)
	m.validator.EXPECT().Validate(ctx, testTxHash).Return(testDetails(), nil)
	m.reader.EXPECT().GetPurchaseEvents(ctx, uint64(1000), uint64(1000)).
		Return([]domain.PurchaseEvent{testEvent(testTxHash, "35", "70")}, nil)

	var captured *schema.Purchase
	m.store.EXPECT().InsertPurchaseIfAbsent(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, p *schema.Purchase) (bool, *schema.Purchase, error) {
			captured = p
			return true, p, nil
		})

	stored, err := m.service.Submit(ctx, testTxHash, testBuyer)
	require.NoError(t, err)
	require.NotNil(t, stored)

	require.NotNil(t, captured)
	// Amounts come from the event, the wallet is normalized, and the
	// unit price is 35/70 at four fractional digits
	assert.True(t, captured.PaidAmount.Equal(decimal.RequireFromString("35")))
	assert.True(t, captured.ReceivedAmount.Equal(decimal.RequireFromString("70")))
	assert.Equal(t, "0.5", captured.UnitPrice.String())
	assert.Equal(t, "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", captured.BuyerWallet)
	assert.Equal(t, uint64(1000), captured.BlockNumber)
	assert.True(t, captured.Validated)
}

func TestSubmitDuplicateShortCircuits(t *testing.T) {
	m := newTestService(t)
	ctx := context.Background()

	existing := &schema.Purchase{TxHash: testTxHash, BuyerWallet: "0xsomeone"}
	m.store.EXPECT().GetPurchaseByTxHash(ctx, testTxHash).Return(existing, nil)
	// No chain access at all on a duplicate

	stored, err := m.service.Submit(ctx, testTxHash, testBuyer)
	assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)
	assert.Same(t, existing, stored)
}

func TestSubmitRejectionRecordsNothing(t *testing.T) {
	m := newTestService(t)
	ctx := context.Background()

	m.store.EXPECT().GetPurchaseByTxHash(ctx, testTxHash).Return(nil, nil)
	m.validator.EXPECT().Validate(ctx, testTxHash).
		Return(nil, domain.NewValidationError(domain.ReasonWrongDestination))

	stored, err := m.service.Submit(ctx, testTxHash, testBuyer)
	assert.Nil(t, stored)

	vErr, ok := domain.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ReasonWrongDestination, vErr.Reason)
}

func TestSubmitEventNotFound(t *testing.T) {
	m := newTestService(t)
	ctx := context.Background()

	m.store.EXPECT().GetPurchaseByTxHash(ctx, testTxHash).Return(nil, nil)
	m.validator.EXPECT().Validate(ctx, testTxHash).Return(testDetails(), nil)
	// The block has purchase events, but none from this transaction
	m.reader.EXPECT().GetPurchaseEvents(ctx, uint64(1000), uint64(1000)).
		Return([]domain.PurchaseEvent{testEvent("0xother", "10", "20")}, nil)

	_, err := m.service.Submit(ctx, testTxHash, testBuyer)
	vErr, ok := domain.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ReasonEventNotFound, vErr.Reason)
}

func TestSubmitMatchesEventCaseInsensitively(t *testing.T) {
	m := newTestService(t)
	ctx := context.Background()

	lower := "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	m.store.EXPECT().GetPurchaseByTxHash(ctx, testTxHash).Return(nil, nil)
	m.validator.EXPECT().Validate(ctx, testTxHash).Return(testDetails(), nil)
	m.reader.EXPECT().GetPurchaseEvents(ctx, uint64(1000), uint64(1000)).
		Return([]domain.PurchaseEvent{testEvent(lower, "35", "70")}, nil)
	m.store.EXPECT().InsertPurchaseIfAbsent(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, p *schema.Purchase) (bool, *schema.Purchase, error) {
			return true, p, nil
		})

	_, err := m.service.Submit(ctx, testTxHash, testBuyer)
	require.NoError(t, err)
}

func TestSubmitInvalidAmounts(t *testing.T) {
	m := newTestService(t)
	ctx := context.Background()

	m.store.EXPECT().GetPurchaseByTxHash(ctx, testTxHash).Return(nil, nil)
	m.validator.EXPECT().Validate(ctx, testTxHash).Return(testDetails(), nil)
	m.reader.EXPECT().GetPurchaseEvents(ctx, uint64(1000), uint64(1000)).
		Return([]domain.PurchaseEvent{testEvent(testTxHash, "35", "0")}, nil)

	_, err := m.service.Submit(ctx, testTxHash, testBuyer)
	vErr, ok := domain.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ReasonInvalidAmounts, vErr.Reason)
}

func TestSubmitChainUnavailable(t *testing.T) {
	m := newTestService(t)
	ctx := context.Background()

	m.store.EXPECT().GetPurchaseByTxHash(ctx, testTxHash).Return(nil, nil)
	m.validator.EXPECT().Validate(ctx, testTxHash).Return(nil, domain.ErrChainUnavailable)

	_, err := m.service.Submit(ctx, testTxHash, testBuyer)
	assert.True(t, domain.IsChainUnavailable(err))
}

func TestSubmitConcurrentLoserGetsExisting(t *testing.T) {
	m := newTestService(t)
	ctx := context.Background()

	existing := &schema.Purchase{TxHash: testTxHash}
	m.store.EXPECT().GetPurchaseByTxHash(ctx, testTxHash).Return(nil, nil)
	m.validator.EXPECT().Validate(ctx, testTxHash).Return(testDetails(), nil)
	m.reader.EXPECT().GetPurchaseEvents(ctx, uint64(1000), uint64(1000)).
		Return([]domain.PurchaseEvent{testEvent(testTxHash, "35", "70")}, nil)
	m.store.EXPECT().InsertPurchaseIfAbsent(ctx, gomock.Any()).
		Return(false, existing, nil)

	stored, err := m.service.Submit(ctx, testTxHash, testBuyer)
	assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)
	assert.Same(t, existing, stored)
}

func TestListByWalletNormalizes(t *testing.T) {
	m := newTestService(t)
	ctx := context.Background()

	m.store.EXPECT().
		ListPurchasesByWallet(ctx, "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb").
		Return([]schema.Purchase{}, nil)

	_, err := m.service.ListByWallet(ctx, "  "+testBuyer+" ")
	require.NoError(t, err)
}

func TestStatsDelegatesToAggregator(t *testing.T) {
	m := newTestService(t)
	ctx := context.Background()

	totals := &domain.PresaleStats{
		TotalPaid:        decimal.RequireFromString("70"),
		TotalReceived:    decimal.RequireFromString("140"),
		TransactionCount: 2,
		UniqueBuyers:     2,
	}
	m.aggregator.EXPECT().Stats(ctx).Return(totals, nil)

	got, err := m.service.Stats(ctx)
	require.NoError(t, err)
	assert.Same(t, totals, got)
}
