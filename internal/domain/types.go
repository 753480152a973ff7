package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Network selects which configured RPC endpoint the service talks to
type Network string

const (
	// NetworkMainnet represents BSC mainnet (chain ID: 56)
	NetworkMainnet Network = "bsc_mainnet"
	// NetworkTestnet represents BSC testnet (chain ID: 97)
	NetworkTestnet Network = "bsc_testnet"
)

// UnitPricePrecision is the number of fractional digits kept for the
// derived unit price (paid / received). A single precision is used for
// both storage and API output.
const UnitPricePrecision = 4

// AmountDisplayPrecision is the number of fractional digits used when
// formatting money and token totals for API responses.
const AmountDisplayPrecision = 2

// PurchaseEvent is a TokensPurchased event decoded from the presale
// contract's log. Amounts are unscaled by the token decimals, so they
// are denominated in whole USDT / SPRAI.
type PurchaseEvent struct {
	Buyer          string
	PaidAmount     decimal.Decimal
	ReceivedAmount decimal.Decimal
	Timestamp      time.Time
	BlockNumber    uint64
	TxHash         string
}

// TxDetails carries the on-chain facts of a confirmed, successful
// transaction into the presale contract.
type TxDetails struct {
	BlockNumber uint64
	Timestamp   time.Time
	From        string
	To          string
	GasUsed     uint64
}

// PresaleStats is the aggregate view over all validated purchases.
type PresaleStats struct {
	TotalPaid        decimal.Decimal
	TotalReceived    decimal.Decimal
	TransactionCount int64
	UniqueBuyers     int64
}
