package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fraud-desk/internal/types"
)

const walletKeyPrefix = "wallet:"

// WalletCache stores assembled wallet reports in Redis for a fixed TTL
type WalletCache struct {
	cache *RedisCache
	ttl   time.Duration
}

// NewWalletCache creates a wallet cache with the given TTL
func NewWalletCache(cache *RedisCache, ttl time.Duration) *WalletCache {
	return &WalletCache{cache: cache, ttl: ttl}
}

// WalletKey returns the cache key for an address.
// Addresses are case-insensitive hex so the key is lowercased.
func WalletKey(address string) string {
	return walletKeyPrefix + strings.ToLower(address)
}

// Get returns the cached report for address. The boolean is false on a miss.
// Entries are shared by every casing of an address, so the returned report
// carries address exactly as given here.
func (c *WalletCache) Get(ctx context.Context, address string) (*types.WalletReport, bool, error) {
	raw, hit, err := c.cache.Fetch(ctx, WalletKey(address))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read wallet cache: %w", err)
	}
	if !hit {
		return nil, false, nil
	}

	var report types.WalletReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached wallet report: %w", err)
	}
	report.Address = address
	return &report, true, nil
}

// Set stores report under address
func (c *WalletCache) Set(ctx context.Context, address string, report *types.WalletReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode wallet report: %w", err)
	}
	if err := c.cache.Put(ctx, WalletKey(address), data, c.ttl); err != nil {
		return fmt.Errorf("failed to write wallet cache: %w", err)
	}
	return nil
}
