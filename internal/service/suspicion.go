package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fraud-desk/internal/types"
)

const (
	// LargeTransferThreshold is the value, in native units, at or above which a
	// single transfer is flagged
	LargeTransferThreshold = 10.0

	// HighFrequencyThreshold is the number of transfers from the same sender
	// that triggers a frequency flag
	HighFrequencyThreshold = 6
)

// AnalyzeTransfers flags large transfers and a repeated sender.
//
// Large-transfer flags come first in input order. At most one frequency flag
// follows. Frequency is measured only against the sender of the first
// transfer, which is the newest one when transfers are ordered descending.
// Values that do not parse as finite numbers are skipped.
func AnalyzeTransfers(transfers []types.Transfer) []types.Flag {
	flags := make([]types.Flag, 0)

	for _, t := range transfers {
		value, ok := parseValue(t.Value)
		if !ok {
			continue
		}
		if value >= LargeTransferThreshold {
			flags = append(flags, types.Flag{
				Kind:   types.FlagLargeTransfer,
				Reason: fmt.Sprintf("Large transfer (%.4f ETH)", value),
				TransferRef: &types.TransferRef{
					TxHash:   t.Hash,
					ValueEth: value,
					From:     t.From,
					To:       t.To,
					BlockNum: t.BlockNum,
				},
			})
		}
	}

	if len(transfers) == 0 {
		return flags
	}

	sender := strings.ToLower(transfers[0].From)
	count := 0
	for _, t := range transfers {
		if strings.ToLower(t.From) == sender {
			count++
		}
	}
	if count >= HighFrequencyThreshold {
		flags = append(flags, types.Flag{
			Kind:   types.FlagHighFrequency,
			Reason: fmt.Sprintf("Many recent outgoing transactions (%d)", count),
		})
	}

	return flags
}

// parseValue reads a provider value. NaN and infinities are rejected since
// they cannot be encoded as JSON numbers.
func parseValue(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
