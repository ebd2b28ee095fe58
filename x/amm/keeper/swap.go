package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// CalculateSwapOutput returns the amount of the output asset released for
// selling amountIn into reserves (reserveIn, reserveOut).
//
// The post-trade output reserve is rounded up, so the product of the new
// reserves is never below reserveIn * reserveOut.
func CalculateSwapOutput(reserveIn, reserveOut, amountIn uint64) (uint64, error) {
	if amountIn == 0 {
		return 0, types.ErrInvalidAmount.Wrap("swap amount must be positive")
	}
	if reserveIn == 0 || reserveOut == 0 {
		return 0, types.ErrInsufficientLiquidity.Wrapf("reserves %d/%d", reserveIn, reserveOut)
	}

	newReserveIn, err := SafeAdd(reserveIn, amountIn)
	if err != nil {
		return 0, err
	}
	newReserveOut, err := SafeMulDivCeil(reserveIn, reserveOut, newReserveIn)
	if err != nil {
		return 0, err
	}
	return SafeSub(reserveOut, newReserveOut)
}

// Swap sells amountIn of inputAsset into the pool at poolAddr from the
// trader's input custody account and pays the constant-product output to the
// trader's output custody account. The swap fails with ErrSlippageExceeded if
// the output would be below minAmountOut.
func (k Keeper) Swap(ctx context.Context, poolAddr sdk.AccAddress, trader types.SwapAccounts, inputAsset string, amountIn, minAmountOut uint64) (amountOut uint64, err error) {
	var next types.Pool
	var outputAsset string
	err = k.executeAtomic(ctx, poolAddr, func(cacheCtx sdk.Context) error {
		pool, err := k.GetPool(cacheCtx, poolAddr)
		if err != nil {
			return err
		}

		reserveIn, reserveOut, err := pool.Reserves(inputAsset)
		if err != nil {
			return err
		}
		outputAsset = pool.CounterAsset(inputAsset)

		amountOut, err = CalculateSwapOutput(reserveIn, reserveOut, amountIn)
		if err != nil {
			return err
		}
		if amountOut == 0 {
			return types.ErrInvalidAmount.Wrapf("swap of %d%s yields no output", amountIn, inputAsset)
		}
		if amountOut < minAmountOut {
			return types.ErrSlippageExceeded.Wrapf("output %d%s below minimum %d", amountOut, outputAsset, minAmountOut)
		}

		newIn, err := SafeAdd(reserveIn, amountIn)
		if err != nil {
			return err
		}
		newOut, err := SafeSub(reserveOut, amountOut)
		if err != nil {
			return err
		}

		next = *pool
		if inputAsset == pool.AssetA {
			next.ReserveA, next.ReserveB = newIn, newOut
		} else {
			next.ReserveA, next.ReserveB = newOut, newIn
		}
		if next.Invariant, err = SafeMul(next.ReserveA, next.ReserveB); err != nil {
			return err
		}
		if next.Invariant < pool.Invariant {
			k.metrics.InvariantViolations.WithLabelValues(pool.Address, "swap").Inc()
			return types.ErrInvariantViolation.Wrapf("swap lowers k from %d to %d", pool.Invariant, next.Invariant)
		}

		custodyIn, err := pool.CustodyAccount(inputAsset)
		if err != nil {
			return types.ErrInvalidPoolState.Wrapf("custody %s: %v", inputAsset, err)
		}
		custodyOut, err := pool.CustodyAccount(outputAsset)
		if err != nil {
			return types.ErrInvalidPoolState.Wrapf("custody %s: %v", outputAsset, err)
		}
		if err := k.ledger.Transfer(cacheCtx, inputAsset, trader.In, custodyIn, amountIn); err != nil {
			return ledgerErr(err, "transfer %d%s to pool", amountIn, inputAsset)
		}
		if err := k.ledger.Transfer(cacheCtx, outputAsset, custodyOut, trader.Out, amountOut); err != nil {
			return ledgerErr(err, "transfer %d%s from pool", amountOut, outputAsset)
		}

		if err := k.SetPool(cacheCtx, next); err != nil {
			return err
		}

		cacheCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeSwap,
				sdk.NewAttribute(types.AttributeKeyPool, pool.Address),
				sdk.NewAttribute(types.AttributeKeyTrader, trader.In.String()),
				sdk.NewAttribute(types.AttributeKeyAssetIn, inputAsset),
				sdk.NewAttribute(types.AttributeKeyAssetOut, outputAsset),
				sdk.NewAttribute(types.AttributeKeyAmountIn, strconv.FormatUint(amountIn, 10)),
				sdk.NewAttribute(types.AttributeKeyAmountOut, strconv.FormatUint(amountOut, 10)),
				sdk.NewAttribute(types.AttributeKeyInvariant, strconv.FormatUint(next.Invariant, 10)),
			),
		)
		return nil
	})
	k.metrics.recordOutcome("swap", err)
	if err != nil {
		return 0, err
	}

	k.metrics.SwapsTotal.WithLabelValues(next.Address, inputAsset, outputAsset).Inc()
	k.metrics.SwapVolume.WithLabelValues(next.Address, inputAsset).Add(float64(amountIn))
	k.metrics.recordPool(next)

	k.Logger(ctx).Debug("swap executed",
		"pool", next.Address,
		"asset_in", inputAsset,
		"amount_in", amountIn,
		"amount_out", amountOut,
	)
	return amountOut, nil
}
