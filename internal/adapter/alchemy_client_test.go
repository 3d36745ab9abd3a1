package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fraud-desk/internal/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key-123"

type rpcRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      json.RawMessage   `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

// rpcHandler answers one JSON-RPC call; returning a non-nil rpcErr sends an error object
type rpcHandler func(t *testing.T, req rpcRequest) (result interface{}, rpcErr map[string]interface{})

func newRPCServer(t *testing.T, handler rpcHandler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v2/"+testAPIKey), "path %s", r.URL.Path)

		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		result, rpcErr := handler(t, req)
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string) *AlchemyClient {
	t.Helper()
	client, err := NewAlchemyClient(context.Background(), &config.AlchemyConfig{
		APIKey:           testAPIKey,
		BaseURL:          baseURL + "/v2/",
		BalanceTimeout:   2 * time.Second,
		TransfersTimeout: 2 * time.Second,
		MaxTransfers:     50,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestGetBalance(t *testing.T) {
	srv := newRPCServer(t, func(t *testing.T, req rpcRequest) (interface{}, map[string]interface{}) {
		assert.Equal(t, "eth_getBalance", req.Method)
		require.Len(t, req.Params, 2)
		assert.JSONEq(t, `"0xabc"`, string(req.Params[0]))
		assert.JSONEq(t, `"latest"`, string(req.Params[1]))
		return "0x1bc16d674ec80000", nil // 2 ETH
	})
	client := newTestClient(t, srv.URL)

	balance, err := client.GetBalance(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(2)), "balance = %s", balance)

	health := client.Health()
	assert.Equal(t, int64(1), health.SuccessfulReqs)
	assert.True(t, health.IsHealthy)
}

func TestGetBalance_Fractional(t *testing.T) {
	srv := newRPCServer(t, func(t *testing.T, req rpcRequest) (interface{}, map[string]interface{}) {
		return "0x2386f26fc10000", nil // 0.01 ETH
	})
	client := newTestClient(t, srv.URL)

	balance, err := client.GetBalance(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, "0.01", balance.String())
}

func TestGetBalance_Failures(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		malformed bool
	}{
		{
			name: "rpc error object",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid address"}}`))
			},
		},
		{
			name: "http 500",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream down", http.StatusInternalServerError)
			},
		},
		{
			name: "not hex",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"lots"}`))
			},
		},
		{
			name: "null result",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":null}`))
			},
			malformed: true,
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>oops</html>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			client := newTestClient(t, srv.URL)

			balance, err := client.GetBalance(context.Background(), "0xabc")
			require.Error(t, err)
			assert.True(t, balance.IsZero())

			var gwErr *GatewayError
			require.True(t, errors.As(err, &gwErr))
			assert.Equal(t, "eth_getBalance", gwErr.Op)
			assert.Equal(t, "0xabc", gwErr.Details["address"])
			if tt.malformed {
				assert.ErrorIs(t, err, ErrMalformedResponse)
			}
			assert.Equal(t, int64(1), client.Health().FailedReqs)
		})
	}
}

func TestGetBalance_NetworkFailureRedactsKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := newTestClient(t, url)
	_, err := client.GetBalance(context.Background(), "0xabc")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), testAPIKey)
	assert.NotContains(t, client.Health().LastError, testAPIKey)
}

func TestGetBalance_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client, err := NewAlchemyClient(context.Background(), &config.AlchemyConfig{
		APIKey:         testAPIKey,
		BaseURL:        srv.URL + "/v2/",
		BalanceTimeout: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer client.Close()

	_, err = client.GetBalance(context.Background(), "0xabc")
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "err = %v", err)
}

func TestGetIncomingTransfers(t *testing.T) {
	srv := newRPCServer(t, func(t *testing.T, req rpcRequest) (interface{}, map[string]interface{}) {
		assert.Equal(t, "alchemy_getAssetTransfers", req.Method)
		require.Len(t, req.Params, 1)
		assert.JSONEq(t, `{
			"fromBlock": "0x0",
			"toBlock": "latest",
			"toAddress": "0xabc",
			"category": ["external", "erc20", "erc721", "erc1155"],
			"maxCount": "0x32",
			"order": "desc"
		}`, string(req.Params[0]))

		return map[string]interface{}{
			"transfers": []map[string]interface{}{
				{"hash": "0x1", "from": "0xf", "to": "0xabc", "value": 12.5, "asset": "ETH", "category": "external", "blockNum": "0x10"},
				{"hash": "0x2", "from": "0xf", "to": nil, "value": nil, "asset": nil, "category": "erc721", "blockNum": "0x0f"},
				{"hash": "0x3", "from": "0xe", "to": "0xabc", "value": 0.000001, "asset": "USDC", "category": "erc20", "blockNum": "0x0e"},
			},
		}, nil
	})
	client := newTestClient(t, srv.URL)

	transfers, err := client.GetIncomingTransfers(context.Background(), "0xabc", 50)
	require.NoError(t, err)
	require.Len(t, transfers, 3)

	assert.Equal(t, "0x1", transfers[0].Hash)
	assert.Equal(t, "12.5", transfers[0].Value)
	assert.Equal(t, "ETH", transfers[0].Asset)
	assert.Equal(t, "0x10", transfers[0].BlockNum)

	assert.Equal(t, "", transfers[1].To)
	assert.Equal(t, "", transfers[1].Value)
	assert.Equal(t, "", transfers[1].Asset)
	assert.Equal(t, "erc721", transfers[1].Category)

	assert.Equal(t, "0.000001", transfers[2].Value)
}

func TestGetIncomingTransfers_Empty(t *testing.T) {
	srv := newRPCServer(t, func(t *testing.T, req rpcRequest) (interface{}, map[string]interface{}) {
		return map[string]interface{}{"transfers": []interface{}{}}, nil
	})
	client := newTestClient(t, srv.URL)

	transfers, err := client.GetIncomingTransfers(context.Background(), "0xabc", 50)
	require.NoError(t, err)
	assert.NotNil(t, transfers)
	assert.Empty(t, transfers)
}

func TestGetIncomingTransfers_Failures(t *testing.T) {
	t.Run("rpc error", func(t *testing.T) {
		srv := newRPCServer(t, func(t *testing.T, req rpcRequest) (interface{}, map[string]interface{}) {
			return nil, map[string]interface{}{"code": 429, "message": "rate limited"}
		})
		client := newTestClient(t, srv.URL)

		transfers, err := client.GetIncomingTransfers(context.Background(), "0xabc", 50)
		require.Error(t, err)
		assert.Nil(t, transfers)
		assert.Contains(t, err.Error(), "rate limited")
	})

	t.Run("missing transfers field", func(t *testing.T) {
		srv := newRPCServer(t, func(t *testing.T, req rpcRequest) (interface{}, map[string]interface{}) {
			return map[string]interface{}{"pageKey": "abc"}, nil
		})
		client := newTestClient(t, srv.URL)

		_, err := client.GetIncomingTransfers(context.Background(), "0xabc", 50)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", formatValue(nil))
	assert.Equal(t, "10", formatValue(10.0))
	assert.Equal(t, "0.5", formatValue("0.5"))
	assert.Equal(t, "true", formatValue(true))
}
