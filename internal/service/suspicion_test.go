package service

import (
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/fraud-desk/internal/types"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func transfer(from, value string) types.Transfer {
	return types.Transfer{Hash: "0xh", From: from, To: "0xme", Value: value, BlockNum: "0x1"}
}

func TestAnalyzeTransfers(t *testing.T) {
	tests := []struct {
		name      string
		transfers []types.Transfer
		want      []string
	}{
		{
			name:      "empty input",
			transfers: nil,
			want:      []string{},
		},
		{
			name:      "just below threshold",
			transfers: []types.Transfer{transfer("0xa", "9.9999")},
			want:      []string{},
		},
		{
			name:      "threshold is inclusive",
			transfers: []types.Transfer{transfer("0xa", "10")},
			want:      []string{"Large transfer (10.0000 ETH)"},
		},
		{
			name: "unparseable values are skipped",
			transfers: []types.Transfer{
				transfer("0xa", ""),
				transfer("0xb", "lots"),
				transfer("0xd", "Inf"),
				transfer("0xe", "NaN"),
				transfer("0xc", "15.5"),
			},
			want: []string{"Large transfer (15.5000 ETH)"},
		},
		{
			name: "six from first sender",
			transfers: []types.Transfer{
				transfer("0xAA", "1"), transfer("0xaa", "1"), transfer("0xAa", "1"),
				transfer("0xaa", "1"), transfer("0xaa", "1"), transfer("0xaA", "1"),
			},
			want: []string{"Many recent outgoing transactions (6)"},
		},
		{
			name: "five from first sender",
			transfers: []types.Transfer{
				transfer("0xa", "1"), transfer("0xa", "1"), transfer("0xa", "1"),
				transfer("0xa", "1"), transfer("0xa", "1"), transfer("0xb", "1"),
			},
			want: []string{},
		},
		{
			name: "repeated sender that is not first is ignored",
			transfers: []types.Transfer{
				transfer("0xfirst", "1"),
				transfer("0xb", "1"), transfer("0xb", "1"), transfer("0xb", "1"),
				transfer("0xb", "1"), transfer("0xb", "1"), transfer("0xb", "1"),
			},
			want: []string{},
		},
		{
			name: "large flags precede the frequency flag",
			transfers: []types.Transfer{
				transfer("0xa", "12"), transfer("0xa", "1"), transfer("0xa", "30"),
				transfer("0xa", "1"), transfer("0xa", "1"), transfer("0xa", "1"),
			},
			want: []string{
				"Large transfer (12.0000 ETH)",
				"Large transfer (30.0000 ETH)",
				"Many recent outgoing transactions (6)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := AnalyzeTransfers(tt.transfers)
			if flags == nil {
				t.Fatal("AnalyzeTransfers() returned nil slice")
			}

			got := make([]string, 0, len(flags))
			for _, f := range flags {
				got = append(got, f.Reason)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("reasons = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnalyzeTransfers_LargeFlagCarriesTransfer(t *testing.T) {
	in := types.Transfer{Hash: "0xdead", From: "0xf", To: "0xt", Value: "42.123456", BlockNum: "0xff"}
	flags := AnalyzeTransfers([]types.Transfer{in})

	if len(flags) != 1 {
		t.Fatalf("got %d flags, want 1", len(flags))
	}
	f := flags[0]
	if f.Kind != types.FlagLargeTransfer {
		t.Errorf("Kind = %s", f.Kind)
	}
	if f.Reason != "Large transfer (42.1235 ETH)" {
		t.Errorf("Reason = %q", f.Reason)
	}
	want := &types.TransferRef{TxHash: "0xdead", ValueEth: 42.123456, From: "0xf", To: "0xt", BlockNum: "0xff"}
	if !reflect.DeepEqual(f.TransferRef, want) {
		t.Errorf("TransferRef = %+v, want %+v", f.TransferRef, want)
	}
}

func genTransfers() gopter.Gen {
	value := gen.OneGenOf(
		gen.Float64Range(0, 25).Map(func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}),
		gen.OneConstOf("", "n/a", "10", "6.0"),
	)
	transfer := gen.Struct(reflect.TypeOf(types.Transfer{}), map[string]gopter.Gen{
		"Hash":     gen.Identifier(),
		"From":     gen.OneConstOf("0xaa", "0xAA", "0xbb", "0xcc"),
		"To":       gen.Const("0xme"),
		"Value":    value,
		"BlockNum": gen.OneConstOf("0x1", "0x2"),
	})
	return gen.SliceOf(transfer)
}

func TestAnalyzeTransfers_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("one large flag per transfer at or above threshold, in order", prop.ForAll(
		func(transfers []types.Transfer) bool {
			var want []string
			for _, tr := range transfers {
				if v, err := strconv.ParseFloat(tr.Value, 64); err == nil && v >= LargeTransferThreshold {
					want = append(want, tr.Hash)
				}
			}

			var got []string
			for _, f := range AnalyzeTransfers(transfers) {
				if f.Kind == types.FlagLargeTransfer {
					if f.TransferRef == nil || f.ValueEth < LargeTransferThreshold {
						return false
					}
					got = append(got, f.TxHash)
				}
			}
			return reflect.DeepEqual(got, want)
		},
		genTransfers(),
	))

	properties.Property("at most one frequency flag, present iff first sender repeats enough", prop.ForAll(
		func(transfers []types.Transfer) bool {
			freq := 0
			for _, f := range AnalyzeTransfers(transfers) {
				if f.Kind == types.FlagHighFrequency {
					freq++
					if f.TransferRef != nil {
						return false
					}
				}
			}

			expected := 0
			if len(transfers) > 0 {
				count := 0
				for _, tr := range transfers {
					if strings.EqualFold(tr.From, transfers[0].From) {
						count++
					}
				}
				if count >= HighFrequencyThreshold {
					expected = 1
				}
			}
			return freq == expected
		},
		genTransfers(),
	))

	properties.Property("frequency flag is last", prop.ForAll(
		func(transfers []types.Transfer) bool {
			flags := AnalyzeTransfers(transfers)
			for i, f := range flags {
				if f.Kind == types.FlagHighFrequency && i != len(flags)-1 {
					return false
				}
			}
			return true
		},
		genTransfers(),
	))

	properties.TestingRun(t)
}
