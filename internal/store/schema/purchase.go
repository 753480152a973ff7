package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase represents the purchases table - the append-only ledger of
// validated presale purchases. A row is only ever created after the
// validator has confirmed the transaction against the chain; rows are
// never updated or deleted by normal operation.
type Purchase struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TxHash is the on-chain transaction hash, the natural key. The
	// unique index is the concurrency anchor: two submissions of the
	// same hash can never both insert.
	TxHash string `gorm:"column:tx_hash;not null;uniqueIndex;type:varchar(66)"`
	// BuyerWallet is the buyer's address, lowercased before storage
	BuyerWallet string `gorm:"column:buyer_wallet;not null;index;type:varchar(42)"`
	// PaidAmount is the USDT paid, taken from the contract's event
	PaidAmount decimal.Decimal `gorm:"column:paid_amount;not null;type:numeric(38,18)"`
	// ReceivedAmount is the SPRAI received, taken from the contract's event
	ReceivedAmount decimal.Decimal `gorm:"column:received_amount;not null;type:numeric(38,18)"`
	// UnitPrice is paid/received rounded to 4 fractional digits, stored for audit
	UnitPrice decimal.Decimal `gorm:"column:unit_price;not null;type:numeric(20,4)"`
	// BlockNumber is the height at which the purchase was confirmed
	BlockNumber uint64 `gorm:"column:block_number;not null;type:bigint"`
	// OccurredAt is the block timestamp, not the submission time
	OccurredAt time.Time `gorm:"column:occurred_at;not null;type:timestamptz;index"`
	// Validated is true for every stored row; no pending writer path exists
	Validated bool `gorm:"column:validated;not null;default:false"`
	// CreatedAt is the timestamp when this record was stored
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last touched
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Purchase model
func (Purchase) TableName() string {
	return "purchases"
}
