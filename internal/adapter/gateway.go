// Package adapter talks to the upstream blockchain RPC provider.
package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/fraud-desk/internal/types"
	"github.com/shopspring/decimal"
)

// Provider name used in errors and logs
const ProviderAlchemy = "alchemy"

var (
	// ErrMalformedResponse is returned when the provider answers with a payload
	// that does not have the expected shape
	ErrMalformedResponse = errors.New("malformed provider response")
)

// WalletGateway looks up on-chain data for a single address.
// Both calls return an explicit error instead of a silent default.
type WalletGateway interface {
	// GetBalance returns the native balance in ETH
	GetBalance(ctx context.Context, address string) (decimal.Decimal, error)

	// GetIncomingTransfers returns up to maxCount transfers received by
	// address, newest first
	GetIncomingTransfers(ctx context.Context, address string, maxCount int) ([]types.Transfer, error)
}

// GatewayError wraps errors with the failed operation and its inputs
type GatewayError struct {
	Provider string
	Op       string // Operation that failed (e.g., "eth_getBalance")
	Err      error
	Details  map[string]interface{}
}

func (e *GatewayError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("gateway error [%s:%s]: %v (details: %+v)", e.Provider, e.Op, e.Err, e.Details)
	}
	return fmt.Sprintf("gateway error [%s:%s]: %v", e.Provider, e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// NewGatewayError creates a new GatewayError
func NewGatewayError(provider, op string, err error, details map[string]interface{}) *GatewayError {
	return &GatewayError{
		Provider: provider,
		Op:       op,
		Err:      err,
		Details:  details,
	}
}

// IsTimeout reports whether err was caused by the call running out of time
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
