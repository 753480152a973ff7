package rest

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spraitoken/presale-tracker/internal/domain"
	"github.com/spraitoken/presale-tracker/internal/presale"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// Handler defines the interface for REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// SubmitTransaction validates and records a claimed purchase
	// POST /api/v1/transactions
	SubmitTransaction(c *gin.Context)

	// GetWalletTransactions retrieves a wallet's purchases, newest first
	// GET /api/v1/transactions/user/:wallet
	GetWalletTransactions(c *gin.Context)

	// GetStats retrieves the presale aggregate
	// GET /api/v1/transactions/stats
	GetStats(c *gin.Context)

	// ListTransactions retrieves a page of all purchases (operator only)
	// GET /api/v1/transactions?limit=<limit>&offset=<offset>
	ListTransactions(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	service presale.Service
}

// NewHandler creates a new REST API handler
func NewHandler(service presale.Service) Handler {
	return &handler{service: service}
}

// SubmitTransaction validates and records a claimed purchase
func (h *handler) SubmitTransaction(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	if req.TransactionHash == "" || req.BuyerWallet == "" {
		respondBadRequest(c, "transactionHash and buyerWallet are required")
		return
	}

	purchase, err := h.service.Submit(c.Request.Context(), req.TransactionHash, req.BuyerWallet)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, toPurchaseDTO(purchase))

	case errors.Is(err, domain.ErrAlreadySubmitted):
		// Normal short-circuit outcome, not a failure: the record
		// already exists and is returned alongside the message.
		c.JSON(http.StatusConflict, gin.H{
			"error": errorDetail{
				Code:    errCodeAlreadySubmitted,
				Message: "Transaction already submitted",
			},
			"record": toPurchaseDTO(purchase),
		})

	case domain.IsChainUnavailable(err):
		respondChainUnavailable(c)

	default:
		if ve, ok := domain.AsValidationError(err); ok {
			respondRejected(c, ve.Error(), string(ve.Reason))
			return
		}
		respondInternalError(c, err, "Failed to submit transaction")
	}
}

// GetWalletTransactions retrieves a wallet's purchases
func (h *handler) GetWalletTransactions(c *gin.Context) {
	wallet := c.Param("wallet")
	if wallet == "" {
		respondBadRequest(c, "Wallet address is required")
		return
	}

	purchases, err := h.service.ListByWallet(c.Request.Context(), wallet)
	if err != nil {
		respondInternalError(c, err, "Failed to list wallet transactions")
		return
	}

	c.JSON(http.StatusOK, WalletPurchasesDTO{Records: toPurchaseDTOs(purchases)})
}

// GetStats retrieves the presale aggregate
func (h *handler) GetStats(c *gin.Context) {
	totals, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to compute stats")
		return
	}

	c.JSON(http.StatusOK, toStatsDTO(totals))
}

// ListTransactions retrieves a page of all purchases
func (h *handler) ListTransactions(c *gin.Context) {
	limit, err := parsePositiveInt(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit == 0 || limit > maxListLimit {
		respondBadRequest(c, "limit must be an integer between 1 and 1000")
		return
	}

	offset, err := parsePositiveInt(c.DefaultQuery("offset", "0"))
	if err != nil {
		respondBadRequest(c, "offset must be a non-negative integer")
		return
	}

	purchases, total, err := h.service.ListAll(c.Request.Context(), limit, offset)
	if err != nil {
		respondInternalError(c, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, PurchasePageDTO{
		Records: toPurchaseDTOs(purchases),
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func parsePositiveInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, errors.New("not a non-negative integer")
	}
	return v, nil
}
