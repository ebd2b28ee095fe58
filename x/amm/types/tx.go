package types

import (
	"context"
)

// MsgServer is the server API for the AMM's state-mutating operations.
type MsgServer interface {
	InitializePool(context.Context, *MsgInitializePool) (*MsgInitializePoolResponse, error)
	AddLiquidity(context.Context, *MsgAddLiquidity) (*MsgAddLiquidityResponse, error)
	RemoveLiquidity(context.Context, *MsgRemoveLiquidity) (*MsgRemoveLiquidityResponse, error)
	Swap(context.Context, *MsgSwap) (*MsgSwapResponse, error)
}

// QueryPoolRequest looks a pool up by address, or by its ordered asset pair
// when Address is empty.
type QueryPoolRequest struct {
	Address string `json:"address,omitempty"`
	AssetA  string `json:"asset_a,omitempty"`
	AssetB  string `json:"asset_b,omitempty"`
}

// QueryPoolResponse carries a single pool.
type QueryPoolResponse struct {
	Pool Pool `json:"pool"`
}

// QueryPoolsRequest lists pools in store order. A zero Limit uses the
// default page size.
type QueryPoolsRequest struct {
	Limit uint64 `json:"limit,omitempty"`
}

// QueryPoolsResponse carries a page of pools.
type QueryPoolsResponse struct {
	Pools []Pool `json:"pools"`
}

// QuoteSwapRequest prices selling AmountIn of InputAsset into Pool.
type QuoteSwapRequest struct {
	Pool       string `json:"pool"`
	InputAsset string `json:"input_asset"`
	AmountIn   uint64 `json:"amount_in"`
}

// QuoteSwapResponse is the output a swap would pay at current reserves.
type QuoteSwapResponse struct {
	OutputAsset string `json:"output_asset"`
	AmountOut   uint64 `json:"amount_out"`
	Invariant   uint64 `json:"invariant"`
}

// QuerySequenceRequest asks for the sequence Address must sign its next
// message at.
type QuerySequenceRequest struct {
	Address string `json:"address"`
}

// QuerySequenceResponse carries a signer's next expected sequence.
type QuerySequenceResponse struct {
	Address  string `json:"address"`
	Sequence uint64 `json:"sequence"`
}

// QueryServer is the read-only API of the AMM.
type QueryServer interface {
	Pool(context.Context, *QueryPoolRequest) (*QueryPoolResponse, error)
	Pools(context.Context, *QueryPoolsRequest) (*QueryPoolsResponse, error)
	QuoteSwap(context.Context, *QuoteSwapRequest) (*QuoteSwapResponse, error)
	Sequence(context.Context, *QuerySequenceRequest) (*QuerySequenceResponse, error)
}
