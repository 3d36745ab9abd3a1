package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	t.Run("success keeps value", func(t *testing.T) {
		r := Success(3.5)
		assert.True(t, r.OK())
		assert.Equal(t, 3.5, r.ValueOr(0))
	})

	t.Run("failure falls back", func(t *testing.T) {
		r := Failure[[]Transfer](errors.New("timeout"))
		assert.False(t, r.OK())
		assert.Empty(t, r.ValueOr([]Transfer{}))
		assert.NotNil(t, r.ValueOr([]Transfer{}))
	})

	t.Run("from value and error pair", func(t *testing.T) {
		assert.True(t, ResultOf(1, nil).OK())
		assert.Equal(t, 0, ResultOf(1, errors.New("x")).ValueOr(0))
	})
}

func TestFlagJSON(t *testing.T) {
	t.Run("frequency flag carries only a reason", func(t *testing.T) {
		data, err := json.Marshal(Flag{Kind: FlagHighFrequency, Reason: "Many recent outgoing transactions (6)"})
		require.NoError(t, err)

		var fields map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &fields))
		assert.Len(t, fields, 2)
		assert.NotContains(t, fields, "txhash")
	})

	t.Run("large transfer flag inlines the transfer", func(t *testing.T) {
		data, err := json.Marshal(Flag{
			Kind:   FlagLargeTransfer,
			Reason: "Large transfer (15.0000 ETH)",
			TransferRef: &TransferRef{
				TxHash: "0xh", ValueEth: 15, From: "0xa", To: "0xb", BlockNum: "0x10",
			},
		})
		require.NoError(t, err)

		var fields map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &fields))
		assert.Equal(t, "0xh", fields["txhash"])
		assert.Equal(t, 15.0, fields["value_eth"])
		assert.Equal(t, "0x10", fields["blockNum"])
	})
}
