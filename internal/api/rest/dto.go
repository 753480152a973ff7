package rest

import (
	"time"

	"github.com/spraitoken/presale-tracker/internal/domain"
	"github.com/spraitoken/presale-tracker/internal/store/schema"
)

// SubmitRequest is the submit operation's input contract
type SubmitRequest struct {
	TransactionHash string `json:"transactionHash"`
	BuyerWallet     string `json:"buyerWallet"`
}

// PurchaseDTO is the wire representation of a ledger record. Amounts
// are exact decimal strings, never floats.
type PurchaseDTO struct {
	TransactionHash string    `json:"transactionHash"`
	BuyerWallet     string    `json:"buyerWallet"`
	UsdtAmount      string    `json:"usdtAmount"`
	SpraiAmount     string    `json:"spraiAmount"`
	TokenPrice      string    `json:"tokenPrice"`
	BlockNumber     uint64    `json:"blockNumber"`
	Timestamp       time.Time `json:"timestamp"`
	Validated       bool      `json:"validated"`
	CreatedAt       time.Time `json:"createdAt"`
}

// StatsDTO is the aggregate view; money and token totals are formatted
// with two fractional digits.
type StatsDTO struct {
	TotalUsdtRaised   string `json:"totalUsdtRaised"`
	TotalSpraiSold    string `json:"totalSpraiSold"`
	TotalTransactions int64  `json:"totalTransactions"`
	UniqueBuyers      int64  `json:"uniqueBuyers"`
}

// WalletPurchasesDTO wraps a wallet's purchase history
type WalletPurchasesDTO struct {
	Records []PurchaseDTO `json:"records"`
}

// PurchasePageDTO wraps one page of the global listing
type PurchasePageDTO struct {
	Records []PurchaseDTO `json:"records"`
	Total   int64         `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
}

func toPurchaseDTO(p *schema.Purchase) PurchaseDTO {
	return PurchaseDTO{
		TransactionHash: p.TxHash,
		BuyerWallet:     p.BuyerWallet,
		UsdtAmount:      p.PaidAmount.String(),
		SpraiAmount:     p.ReceivedAmount.String(),
		TokenPrice:      p.UnitPrice.StringFixed(domain.UnitPricePrecision),
		BlockNumber:     p.BlockNumber,
		Timestamp:       p.OccurredAt,
		Validated:       p.Validated,
		CreatedAt:       p.CreatedAt,
	}
}

func toPurchaseDTOs(purchases []schema.Purchase) []PurchaseDTO {
	dtos := make([]PurchaseDTO, 0, len(purchases))
	for i := range purchases {
		dtos = append(dtos, toPurchaseDTO(&purchases[i]))
	}
	return dtos
}

func toStatsDTO(s *domain.PresaleStats) StatsDTO {
	return StatsDTO{
		TotalUsdtRaised:   s.TotalPaid.StringFixed(domain.AmountDisplayPrecision),
		TotalSpraiSold:    s.TotalReceived.StringFixed(domain.AmountDisplayPrecision),
		TotalTransactions: s.TransactionCount,
		UniqueBuyers:      s.UniqueBuyers,
	}
}
