package adapter

import (
	"context"
	"errors"

	"github.com/fraud-desk/internal/circuitbreaker"
	"github.com/fraud-desk/internal/types"
	"github.com/shopspring/decimal"
)

// GuardedGateway short-circuits calls to a gateway that keeps failing.
// While the circuit is open calls fail immediately with circuitbreaker.ErrCircuitOpen.
type GuardedGateway struct {
	next    WalletGateway
	breaker *circuitbreaker.Breaker
}

// NewGuardedGateway wraps next with breaker
func NewGuardedGateway(next WalletGateway, breaker *circuitbreaker.Breaker) *GuardedGateway {
	return &GuardedGateway{next: next, breaker: breaker}
}

// GetBalance implements WalletGateway
func (g *GuardedGateway) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	ticket, err := g.breaker.Allow()
	if err != nil {
		return decimal.Zero, NewGatewayError(ProviderAlchemy, methodGetBalance, err, nil)
	}
	balance, err := g.next.GetBalance(ctx, address)
	g.record(ticket, err)
	return balance, err
}

// GetIncomingTransfers implements WalletGateway
func (g *GuardedGateway) GetIncomingTransfers(ctx context.Context, address string, maxCount int) ([]types.Transfer, error) {
	ticket, err := g.breaker.Allow()
	if err != nil {
		return nil, NewGatewayError(ProviderAlchemy, methodGetAssetTransfers, err, nil)
	}
	transfers, err := g.next.GetIncomingTransfers(ctx, address, maxCount)
	g.record(ticket, err)
	return transfers, err
}

// record ignores cancellations by the caller; they say nothing about the provider
func (g *GuardedGateway) record(ticket circuitbreaker.Ticket, err error) {
	if errors.Is(err, context.Canceled) {
		g.breaker.Release(ticket)
		return
	}
	g.breaker.Record(ticket, err)
}
