package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/paw-chain/cpamm/x/amm/types"
)

type queryServer struct {
	Keeper
}

const (
	defaultPaginationLimit = 100
	maxPaginationLimit     = 1000
)

// NewQueryServerImpl returns an implementation of the amm QueryServer interface
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

// Pool returns a pool by address or by ordered asset pair
func (qs queryServer) Pool(goCtx context.Context, req *types.QueryPoolRequest) (*types.QueryPoolResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	unlock := qs.locks.lockStore()
	defer unlock()

	var (
		pool *types.Pool
		err  error
	)
	switch {
	case req.Address != "":
		addr, aerr := sdk.AccAddressFromBech32(req.Address)
		if aerr != nil {
			return nil, types.ErrInvalidAddress.Wrapf("pool: %v", aerr)
		}
		pool, err = qs.Keeper.GetPool(goCtx, addr)
	case req.AssetA != "" && req.AssetB != "":
		pool, err = qs.Keeper.GetPoolByAssets(goCtx, req.AssetA, req.AssetB)
	default:
		return nil, sdkerrors.ErrInvalidRequest.Wrap("pool address or asset pair required")
	}
	if err != nil {
		return nil, fmt.Errorf("Pool: %w", err)
	}

	return &types.QueryPoolResponse{Pool: *pool}, nil
}

// Pools returns up to req.Limit pools in store order
func (qs queryServer) Pools(goCtx context.Context, req *types.QueryPoolsRequest) (*types.QueryPoolsResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultPaginationLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	unlock := qs.locks.lockStore()
	defer unlock()

	pools := make([]types.Pool, 0)
	err := qs.Keeper.IteratePools(goCtx, func(pool types.Pool) bool {
		pools = append(pools, pool)
		return uint64(len(pools)) >= limit
	})
	if err != nil {
		return nil, fmt.Errorf("Pools: %w", err)
	}

	return &types.QueryPoolsResponse{Pools: pools}, nil
}

// QuoteSwap prices a swap against current reserves without executing it
func (qs queryServer) QuoteSwap(goCtx context.Context, req *types.QuoteSwapRequest) (*types.QuoteSwapResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	pool, _, err := qs.loadPool(goCtx, req.Pool)
	if err != nil {
		return nil, fmt.Errorf("QuoteSwap: %w", err)
	}

	reserveIn, reserveOut, err := pool.Reserves(req.InputAsset)
	if err != nil {
		return nil, fmt.Errorf("QuoteSwap: %w", err)
	}
	amountOut, err := CalculateSwapOutput(reserveIn, reserveOut, req.AmountIn)
	if err != nil {
		return nil, fmt.Errorf("QuoteSwap: %w", err)
	}

	newIn, err := SafeAdd(reserveIn, req.AmountIn)
	if err != nil {
		return nil, fmt.Errorf("QuoteSwap: %w", err)
	}
	invariant, err := SafeMul(newIn, reserveOut-amountOut)
	if err != nil {
		return nil, fmt.Errorf("QuoteSwap: %w", err)
	}

	return &types.QuoteSwapResponse{
		OutputAsset: pool.CounterAsset(req.InputAsset),
		AmountOut:   amountOut,
		Invariant:   invariant,
	}, nil
}

// Sequence returns the sequence an address must sign its next message at
func (qs queryServer) Sequence(goCtx context.Context, req *types.QuerySequenceRequest) (*types.QuerySequenceResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	signer, err := sdk.AccAddressFromBech32(req.Address)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("signer: %v", err)
	}

	unlock := qs.locks.lockStore()
	defer unlock()

	return &types.QuerySequenceResponse{
		Address:  signer.String(),
		Sequence: qs.Keeper.GetSequence(goCtx, signer),
	}, nil
}
