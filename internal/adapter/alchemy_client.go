package adapter

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/fraud-desk/internal/config"
	"github.com/fraud-desk/internal/types"
	"github.com/shopspring/decimal"
)

const (
	methodGetBalance        = "eth_getBalance"
	methodGetAssetTransfers = "alchemy_getAssetTransfers"

	// weiExponent converts wei to ETH: 1 ETH = 10^18 wei
	weiExponent = -18
)

// AlchemyClient implements WalletGateway over Alchemy's JSON-RPC endpoint
type AlchemyClient struct {
	client           *rpc.Client
	apiKey           string
	balanceTimeout   time.Duration
	transfersTimeout time.Duration
	health           *HealthTracker
}

// NewAlchemyClient creates a client for the configured endpoint.
// The HTTP transport dials lazily, so an unreachable provider is not an error here.
func NewAlchemyClient(ctx context.Context, cfg *config.AlchemyConfig) (*AlchemyClient, error) {
	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	client, err := rpc.DialOptions(ctx, cfg.RPCURL(), rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, NewGatewayError(ProviderAlchemy, "dial", redact(err, cfg.APIKey), nil)
	}

	return &AlchemyClient{
		client:           client,
		apiKey:           cfg.APIKey,
		balanceTimeout:   cfg.BalanceTimeout,
		transfersTimeout: cfg.TransfersTimeout,
		health:           NewHealthTracker(ProviderAlchemy),
	}, nil
}

// GetBalance returns the latest native balance of address in ETH
func (c *AlchemyClient) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	var balance *hexutil.Big
	if err := c.call(ctx, c.balanceTimeout, &balance, methodGetBalance, address, "latest"); err != nil {
		return decimal.Zero, c.fail(methodGetBalance, address, err)
	}
	if balance == nil {
		return decimal.Zero, c.fail(methodGetBalance, address, fmt.Errorf("%w: null balance", ErrMalformedResponse))
	}

	return decimal.NewFromBigInt((*big.Int)(balance), weiExponent), nil
}

// assetTransfersParams is the single parameter object of alchemy_getAssetTransfers
type assetTransfersParams struct {
	FromBlock string                   `json:"fromBlock"`
	ToBlock   string                   `json:"toBlock"`
	ToAddress string                   `json:"toAddress"`
	Category  []types.TransferCategory `json:"category"`
	MaxCount  hexutil.Uint64           `json:"maxCount"`
	Order     string                   `json:"order"`
}

// alchemyTransfer is one entry of the transfers array.
// Value is a JSON number for most transfers but may be null.
type alchemyTransfer struct {
	BlockNum string      `json:"blockNum"`
	Hash     string      `json:"hash"`
	From     string      `json:"from"`
	To       *string     `json:"to"`
	Value    interface{} `json:"value"`
	Asset    *string     `json:"asset"`
	Category string      `json:"category"`
}

type assetTransfersResult struct {
	Transfers []alchemyTransfer `json:"transfers"`
	PageKey   *string           `json:"pageKey,omitempty"`
}

// GetIncomingTransfers returns the most recent transfers into address
// across the external and token categories
func (c *AlchemyClient) GetIncomingTransfers(ctx context.Context, address string, maxCount int) ([]types.Transfer, error) {
	params := assetTransfersParams{
		FromBlock: "0x0",
		ToBlock:   "latest",
		ToAddress: address,
		Category:  types.IncomingCategories,
		MaxCount:  hexutil.Uint64(maxCount), // #nosec G115 - configured positive cap
		Order:     "desc",
	}

	var result *assetTransfersResult
	if err := c.call(ctx, c.transfersTimeout, &result, methodGetAssetTransfers, params); err != nil {
		return nil, c.fail(methodGetAssetTransfers, address, err)
	}
	if result == nil || result.Transfers == nil {
		return nil, c.fail(methodGetAssetTransfers, address, fmt.Errorf("%w: missing transfers", ErrMalformedResponse))
	}

	transfers := make([]types.Transfer, 0, len(result.Transfers))
	for _, t := range result.Transfers {
		transfers = append(transfers, convertAlchemyTransfer(t))
	}
	return transfers, nil
}

// Health returns call statistics for this client
func (c *AlchemyClient) Health() ProviderHealth {
	return c.health.Health()
}

// Close closes the underlying RPC client
func (c *AlchemyClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

func (c *AlchemyClient) call(ctx context.Context, timeout time.Duration, result interface{}, method string, args ...interface{}) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	if err := c.client.CallContext(ctx, result, method, args...); err != nil {
		return err
	}
	c.health.RecordSuccess(time.Since(start))
	return nil
}

func (c *AlchemyClient) fail(op, address string, err error) error {
	err = redact(err, c.apiKey)
	c.health.RecordFailure(err)
	return NewGatewayError(ProviderAlchemy, op, err, map[string]interface{}{
		"address": address,
	})
}

func convertAlchemyTransfer(t alchemyTransfer) types.Transfer {
	transfer := types.Transfer{
		Hash:     t.Hash,
		From:     t.From,
		Value:    formatValue(t.Value),
		Category: t.Category,
		BlockNum: t.BlockNum,
	}
	if t.To != nil {
		transfer.To = *t.To
	}
	if t.Asset != nil {
		transfer.Asset = *t.Asset
	}
	return transfer
}

// formatValue renders the provider's value as text; null becomes ""
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

// redactedError hides the API key embedded in endpoint URLs that net/http
// echoes into its error messages
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redact(err error, secret string) error {
	if err == nil || secret == "" || !strings.Contains(err.Error(), secret) {
		return err
	}
	return &redactedError{
		msg: strings.ReplaceAll(err.Error(), secret, "<redacted>"),
		err: err,
	}
}
