package service

import (
	"context"

	"github.com/fraud-desk/internal/adapter"
	"github.com/fraud-desk/internal/logging"
	"github.com/fraud-desk/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxTransfers caps how many transfers a lookup fetches
const DefaultMaxTransfers = 50

// missingField replaces an empty asset or category in the response
const missingField = "-"

// WalletCache stores assembled wallet reports
type WalletCache interface {
	Get(ctx context.Context, address string) (*types.WalletReport, bool, error)
	Set(ctx context.Context, address string, report *types.WalletReport) error
}

// WalletService assembles wallet lookups from the upstream gateway
type WalletService struct {
	gateway      adapter.WalletGateway
	cache        WalletCache
	maxTransfers int
}

// NewWalletService creates a new wallet service. A non-positive maxTransfers
// falls back to DefaultMaxTransfers.
func NewWalletService(gateway adapter.WalletGateway, maxTransfers int) *WalletService {
	if maxTransfers <= 0 {
		maxTransfers = DefaultMaxTransfers
	}
	return &WalletService{
		gateway:      gateway,
		maxTransfers: maxTransfers,
	}
}

// WithCache enables caching of complete lookups
func (s *WalletService) WithCache(cache WalletCache) *WalletService {
	s.cache = cache
	return s
}

// Lookup returns the balance, recent incoming transfers and suspicion flags
// for address. Upstream failures are logged and degrade to a zero balance or
// an empty transfer list, so Lookup itself never fails.
func (s *WalletService) Lookup(ctx context.Context, address string) *types.WalletReport {
	logger := logging.FromContext(ctx).WithField("address", address)

	if s.cache != nil {
		cached, hit, err := s.cache.Get(ctx, address)
		if err != nil {
			logger.WithError(err).Warn("wallet cache read failed")
		} else if hit {
			logger.Debug("wallet cache hit")
			// The entry may have been stored under another casing of address
			report := *cached
			report.Address = address
			return &report
		}
	}

	balance, transfers := s.fetch(ctx, address)

	if !balance.OK() {
		logger.WithError(balance.Err).WithField("operation", "eth_getBalance").Warn("balance lookup failed")
	}
	if !transfers.OK() {
		logger.WithError(transfers.Err).WithField("operation", "alchemy_getAssetTransfers").Warn("transfer lookup failed")
	}

	raw := transfers.ValueOr([]types.Transfer{})
	report := &types.WalletReport{
		Address:      address,
		BalanceEth:   balance.ValueOr(decimal.Zero).InexactFloat64(),
		TxCount:      len(raw),
		Transactions: simplifyTransfers(raw),
		Suspicious:   AnalyzeTransfers(raw),
	}

	// Degraded results are not cached so a provider outage is not pinned for a TTL
	if s.cache != nil && balance.OK() && transfers.OK() {
		if err := s.cache.Set(ctx, address, report); err != nil {
			logger.WithError(err).Warn("wallet cache write failed")
		}
	}

	return report
}

// fetch issues the balance and transfer lookups concurrently. Each goroutine
// records its own outcome so one failure never cancels the other call.
func (s *WalletService) fetch(ctx context.Context, address string) (types.Result[decimal.Decimal], types.Result[[]types.Transfer]) {
	var (
		balance   types.Result[decimal.Decimal]
		transfers types.Result[[]types.Transfer]
		g         errgroup.Group
	)

	g.Go(func() error {
		balance = types.ResultOf(s.gateway.GetBalance(ctx, address))
		return nil
	})
	g.Go(func() error {
		transfers = types.ResultOf(s.gateway.GetIncomingTransfers(ctx, address, s.maxTransfers))
		return nil
	})
	_ = g.Wait()

	return balance, transfers
}

// simplifyTransfers converts raw transfers to the response shape. Values that
// do not parse become 0; a missing asset or category becomes "-".
func simplifyTransfers(transfers []types.Transfer) []types.WalletTransaction {
	txs := make([]types.WalletTransaction, 0, len(transfers))
	for _, t := range transfers {
		value, _ := parseValue(t.Value)

		asset := t.Asset
		if asset == "" {
			asset = missingField
		}
		category := t.Category
		if category == "" {
			category = missingField
		}

		txs = append(txs, types.WalletTransaction{
			Hash:     t.Hash,
			From:     t.From,
			To:       t.To,
			ValueEth: value,
			Asset:    asset,
			Category: category,
			BlockNum: t.BlockNum,
		})
	}
	return txs
}
