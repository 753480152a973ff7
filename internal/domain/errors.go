package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrChainUnavailable is returned when the RPC endpoint cannot be
	// reached or returns a malformed response. It is transient: callers
	// may retry the same submission later.
	ErrChainUnavailable = errors.New("blockchain unavailable")

	// ErrAlreadySubmitted is returned when a purchase with the same
	// transaction hash has already been recorded. Not a failure, a
	// normal short-circuit outcome.
	ErrAlreadySubmitted = errors.New("transaction already submitted")
)

// RejectionReason identifies why a submitted transaction was
// definitively rejected. Retrying the same hash will not change the
// outcome for any of these.
type RejectionReason string

const (
	ReasonTxNotFound            RejectionReason = "tx_not_found"
	ReasonNotConfirmed          RejectionReason = "not_confirmed"
	ReasonFailedOnChain         RejectionReason = "failed_on_chain"
	ReasonContractNotConfigured RejectionReason = "contract_not_configured"
	ReasonWrongDestination      RejectionReason = "wrong_destination"
	ReasonEventNotFound         RejectionReason = "event_not_found"
	ReasonInvalidAmounts        RejectionReason = "invalid_amounts"
)

// rejectionMessages maps each reason to the message surfaced to callers.
// The message must name the specific reason so a caller can distinguish
// "your transaction truly failed" from "you called the wrong address".
var rejectionMessages = map[RejectionReason]string{
	ReasonTxNotFound:            "Transaction not found",
	ReasonNotConfirmed:          "Transaction not confirmed",
	ReasonFailedOnChain:         "Transaction failed on-chain",
	ReasonContractNotConfigured: "Presale contract not configured",
	ReasonWrongDestination:      "Transaction must be to presale contract",
	ReasonEventNotFound:         "Transaction not found in presale events",
	ReasonInvalidAmounts:        "Purchase event carries invalid amounts",
}

// ValidationError is a definitive rejection of a submitted transaction.
type ValidationError struct {
	Reason RejectionReason
}

func NewValidationError(reason RejectionReason) *ValidationError {
	return &ValidationError{Reason: reason}
}

func (e *ValidationError) Error() string {
	if msg, ok := rejectionMessages[e.Reason]; ok {
		return msg
	}
	return fmt.Sprintf("transaction rejected: %s", e.Reason)
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsChainUnavailable reports whether err is the transient
// chain-unavailable condition rather than a definitive rejection.
func IsChainUnavailable(err error) bool {
	return errors.Is(err, ErrChainUnavailable)
}
