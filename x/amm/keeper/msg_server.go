package keeper

import (
	"context"
	"fmt"

	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/hashicorp/go-metrics"

	"github.com/paw-chain/cpamm/x/amm/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the amm MsgServer interface.
// Every handler verifies the signer, its sequence and the account references
// of the request before any arithmetic or ledger call runs, and consumes the
// sequence only when the operation succeeds.
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// InitializePool handles the creation of a pool for an ordered asset pair
func (ms msgServer) InitializePool(goCtx context.Context, msg *types.MsgInitializePool) (*types.MsgInitializePoolResponse, error) {
	defer telemetry.MeasureSince(telemetry.Now(), types.ModuleName, "initialize_pool")

	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("InitializePool: validate: %w", err)
	}

	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		return nil, fmt.Errorf("InitializePool: invalid authority address: %w", err)
	}
	release, err := ms.authorize(goCtx, authority, msg, msg.Signature)
	if err != nil {
		return nil, fmt.Errorf("InitializePool: %w", err)
	}
	defer release()

	pool, err := ms.Keeper.InitializePool(goCtx, authority, msg.AssetA, msg.AssetB, msg.ShareAsset)
	if err != nil {
		return nil, fmt.Errorf("InitializePool: %w", err)
	}
	ms.consumeSequence(goCtx, authority, msg.Sequence)

	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "pool_initialized"},
		1,
		[]metrics.Label{telemetry.NewLabel("pool", pool.Address)},
	)

	return &types.MsgInitializePoolResponse{Pool: *pool}, nil
}

// AddLiquidity handles a deposit into an existing pool
func (ms msgServer) AddLiquidity(goCtx context.Context, msg *types.MsgAddLiquidity) (*types.MsgAddLiquidityResponse, error) {
	defer telemetry.MeasureSince(telemetry.Now(), types.ModuleName, "add_liquidity")

	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("AddLiquidity: validate: %w", err)
	}

	depositor, err := sdk.AccAddressFromBech32(msg.Depositor)
	if err != nil {
		return nil, fmt.Errorf("AddLiquidity: invalid depositor address: %w", err)
	}
	release, err := ms.authorize(goCtx, depositor, msg, msg.Signature)
	if err != nil {
		return nil, fmt.Errorf("AddLiquidity: %w", err)
	}
	defer release()

	pool, poolAddr, err := ms.loadPool(goCtx, msg.Pool)
	if err != nil {
		return nil, fmt.Errorf("AddLiquidity: %w", err)
	}
	accts, err := bindLiquidityAccounts(*pool, depositor,
		msg.DepositorCustodyA, msg.DepositorCustodyB, msg.DepositorShareAccount,
		msg.PoolCustodyA, msg.PoolCustodyB)
	if err != nil {
		return nil, fmt.Errorf("AddLiquidity: %w", err)
	}

	shares, usedA, usedB, err := ms.Keeper.AddLiquidity(goCtx, poolAddr, accts, msg.AmountA, msg.AmountB)
	if err != nil {
		return nil, fmt.Errorf("AddLiquidity: %w", err)
	}
	ms.consumeSequence(goCtx, depositor, msg.Sequence)

	return &types.MsgAddLiquidityResponse{
		SharesIssued: shares,
		AmountA:      usedA,
		AmountB:      usedB,
	}, nil
}

// RemoveLiquidity handles redeeming pool shares
func (ms msgServer) RemoveLiquidity(goCtx context.Context, msg *types.MsgRemoveLiquidity) (*types.MsgRemoveLiquidityResponse, error) {
	defer telemetry.MeasureSince(telemetry.Now(), types.ModuleName, "remove_liquidity")

	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: validate: %w", err)
	}

	withdrawer, err := sdk.AccAddressFromBech32(msg.Withdrawer)
	if err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: invalid withdrawer address: %w", err)
	}
	release, err := ms.authorize(goCtx, withdrawer, msg, msg.Signature)
	if err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: %w", err)
	}
	defer release()

	pool, poolAddr, err := ms.loadPool(goCtx, msg.Pool)
	if err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: %w", err)
	}
	accts, err := bindLiquidityAccounts(*pool, withdrawer,
		msg.WithdrawerCustodyA, msg.WithdrawerCustodyB, msg.WithdrawerShareAccount,
		msg.PoolCustodyA, msg.PoolCustodyB)
	if err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: %w", err)
	}

	amountA, amountB, err := ms.Keeper.RemoveLiquidity(goCtx, poolAddr, accts, msg.ShareAmount)
	if err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: %w", err)
	}
	ms.consumeSequence(goCtx, withdrawer, msg.Sequence)

	return &types.MsgRemoveLiquidityResponse{
		AmountA: amountA,
		AmountB: amountB,
	}, nil
}

// Swap handles selling one pool asset for the other
func (ms msgServer) Swap(goCtx context.Context, msg *types.MsgSwap) (*types.MsgSwapResponse, error) {
	defer telemetry.MeasureSince(telemetry.Now(), types.ModuleName, "swap")

	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("Swap: validate: %w", err)
	}

	trader, err := sdk.AccAddressFromBech32(msg.Trader)
	if err != nil {
		return nil, fmt.Errorf("Swap: invalid trader address: %w", err)
	}
	release, err := ms.authorize(goCtx, trader, msg, msg.Signature)
	if err != nil {
		return nil, fmt.Errorf("Swap: %w", err)
	}
	defer release()

	pool, poolAddr, err := ms.loadPool(goCtx, msg.Pool)
	if err != nil {
		return nil, fmt.Errorf("Swap: %w", err)
	}
	accts, err := bindSwapAccounts(*pool, trader, msg.InputAsset,
		msg.TraderCustodyIn, msg.TraderCustodyOut, msg.PoolCustodyIn, msg.PoolCustodyOut)
	if err != nil {
		return nil, fmt.Errorf("Swap: %w", err)
	}

	amountOut, err := ms.Keeper.Swap(goCtx, poolAddr, accts, msg.InputAsset, msg.AmountIn, msg.MinAmountOut)
	if err != nil {
		return nil, fmt.Errorf("Swap: %w", err)
	}
	ms.consumeSequence(goCtx, trader, msg.Sequence)

	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "swap"},
		1,
		[]metrics.Label{
			telemetry.NewLabel("pool", msg.Pool),
			telemetry.NewLabel("input_asset", msg.InputAsset),
		},
	)

	return &types.MsgSwapResponse{AmountOut: amountOut}, nil
}
