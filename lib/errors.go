package lib

import (
	"errors"
	"fmt"
)

// Error taxonomy. NotFound and Validation are produced deliberately and
// carry enough detail for the caller to act; Store and TxAborted are
// logged in full but surfaced generically outside development.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
	ErrStore      = errors.New("store operation failed")
	ErrTxAborted  = errors.New("transaction aborted")
)

// Resolver errors. Both are NotFound-class: nothing is persisted when they
// occur inside a transaction.
var (
	ErrNoActiveSubscription = fmt.Errorf("no active subscription found for client: %w", ErrNotFound)
	ErrFeatureNotFound      = fmt.Errorf("feature not found: %w", ErrNotFound)
)

// Auth errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// PublicMessage returns the error text safe to expose to external callers.
// Deliberate errors keep their detail; store and transaction failures are
// reduced to a generic message in production.
func PublicMessage(err error, isProduction bool) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict) {
		return err.Error()
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	if isProduction {
		return "Internal server error"
	}
	return err.Error()
}
