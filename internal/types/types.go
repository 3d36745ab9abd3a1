// Package types provides common type definitions for the fraud desk service.
package types

// Transfer is one asset movement returned by the upstream provider.
// Value is the provider's recorded value in native units, kept as text so that
// unparseable values can be told apart from zero.
type Transfer struct {
	Hash     string `json:"hash"`
	From     string `json:"from"`
	To       string `json:"to"`
	Value    string `json:"value"`
	Asset    string `json:"asset"`
	Category string `json:"category"`
	BlockNum string `json:"blockNum"`
}

// TransferCategory is an alchemy_getAssetTransfers category tag
type TransferCategory string

const (
	CategoryExternal TransferCategory = "external"
	CategoryERC20    TransferCategory = "erc20"
	CategoryERC721   TransferCategory = "erc721"
	CategoryERC1155  TransferCategory = "erc1155"
)

// IncomingCategories are the categories requested for wallet lookups
var IncomingCategories = []TransferCategory{
	CategoryExternal,
	CategoryERC20,
	CategoryERC721,
	CategoryERC1155,
}

// FlagKind identifies which heuristic produced a Flag
type FlagKind string

const (
	// FlagLargeTransfer marks a single transfer at or above the value threshold
	FlagLargeTransfer FlagKind = "large_transfer"
	// FlagHighFrequency marks a sender that appears many times in the window
	FlagHighFrequency FlagKind = "high_outgoing_frequency"
)

// TransferRef carries the transfer a large-transfer flag points at
type TransferRef struct {
	TxHash   string  `json:"txhash"`
	ValueEth float64 `json:"value_eth"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	BlockNum string  `json:"blockNum"`
}

// Flag is one reason an address's activity warrants review.
// Frequency flags carry only a reason, so TransferRef is nil for them.
type Flag struct {
	Kind   FlagKind `json:"kind"`
	Reason string   `json:"reason"`
	*TransferRef
}

// WalletTransaction is the simplified transfer returned by the wallet lookup
type WalletTransaction struct {
	Hash     string  `json:"hash"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	ValueEth float64 `json:"value_eth"`
	Asset    string  `json:"asset"`
	Category string  `json:"category"`
	BlockNum string  `json:"blockNum"`
}

// WalletReport is the wallet lookup response body
type WalletReport struct {
	Address      string              `json:"address"`
	BalanceEth   float64             `json:"balance_eth"`
	TxCount      int                 `json:"tx_count"`
	Transactions []WalletTransaction `json:"transactions"`
	Suspicious   []Flag              `json:"suspicious"`
}

// Result holds either a value or the reason it could not be produced
type Result[T any] struct {
	Value T
	Err   error
}

// Success wraps a value
func Success[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Failure wraps an error; the zero value of T is kept as Value
func Failure[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// ResultOf builds a Result from a conventional (value, error) pair
func ResultOf[T any](v T, err error) Result[T] {
	if err != nil {
		return Failure[T](err)
	}
	return Success(v)
}

// OK reports whether the result holds a value
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// ValueOr returns the value, or fallback when the result is a failure
func (r Result[T]) ValueOr(fallback T) T {
	if r.Err != nil {
		return fallback
	}
	return r.Value
}
