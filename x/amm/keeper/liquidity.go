package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// CalculateDeposit returns the shares issued for depositing up to amountA and
// amountB into pool, and the amounts actually taken.
//
// The first deposit into an empty pool is taken in full and issues
// amountA * amountB shares. Later deposits are taken at the current reserve
// ratio (the excess side is left with the depositor) and issue shares in
// proportion to the existing supply, rounded down.
func CalculateDeposit(pool types.Pool, amountA, amountB uint64) (shares, usedA, usedB uint64, err error) {
	if amountA == 0 || amountB == 0 {
		return 0, 0, 0, types.ErrInvalidAmount.Wrap("deposit amounts must be positive")
	}

	if pool.IsEmpty() {
		shares, err = SafeMul(amountA, amountB)
		if err != nil {
			return 0, 0, 0, err
		}
		return shares, amountA, amountB, nil
	}

	if pool.ReserveA == 0 || pool.ReserveB == 0 || pool.ShareSupply == 0 {
		return 0, 0, 0, types.ErrInvalidPoolState.Wrapf("reserves %d/%d with share supply %d",
			pool.ReserveA, pool.ReserveB, pool.ShareSupply)
	}

	usedA, usedB = amountA, amountB
	optimalB, err := SafeMulDiv(amountA, pool.ReserveB, pool.ReserveA)
	if err != nil {
		return 0, 0, 0, err
	}
	if optimalB <= amountB {
		usedB = optimalB
	} else {
		optimalA, err := SafeMulDiv(amountB, pool.ReserveA, pool.ReserveB)
		if err != nil {
			return 0, 0, 0, err
		}
		usedA = optimalA
	}
	if usedA == 0 || usedB == 0 {
		return 0, 0, 0, types.ErrInvalidAmount.Wrapf("deposit %d/%d too small for reserves %d/%d",
			amountA, amountB, pool.ReserveA, pool.ReserveB)
	}

	sharesA, err := SafeMulDiv(usedA, pool.ShareSupply, pool.ReserveA)
	if err != nil {
		return 0, 0, 0, err
	}
	sharesB, err := SafeMulDiv(usedB, pool.ShareSupply, pool.ReserveB)
	if err != nil {
		return 0, 0, 0, err
	}
	shares = min(sharesA, sharesB)
	if shares == 0 {
		return 0, 0, 0, types.ErrInvalidAmount.Wrap("deposit issues zero shares")
	}
	return shares, usedA, usedB, nil
}

// CalculateWithdrawal returns the reserves paid out for redeeming shareAmount
// shares: shareAmount * reserve / shareSupply of each asset, rounded down.
func CalculateWithdrawal(pool types.Pool, shareAmount uint64) (amountA, amountB uint64, err error) {
	if shareAmount == 0 {
		return 0, 0, types.ErrInvalidAmount.Wrap("share amount must be positive")
	}
	if pool.ShareSupply == 0 {
		return 0, 0, types.ErrDivisionByZero.Wrapf("pool %s has no outstanding shares", pool.Address)
	}
	if shareAmount > pool.ShareSupply {
		return 0, 0, types.ErrInsufficientShares.Wrapf("requested %d, supply %d", shareAmount, pool.ShareSupply)
	}

	amountA, err = SafeMulDiv(shareAmount, pool.ReserveA, pool.ShareSupply)
	if err != nil {
		return 0, 0, err
	}
	amountB, err = SafeMulDiv(shareAmount, pool.ReserveB, pool.ShareSupply)
	if err != nil {
		return 0, 0, err
	}
	if amountA == 0 || amountB == 0 {
		return 0, 0, types.ErrInvalidAmount.Wrapf("redeeming %d shares pays out %d/%d", shareAmount, amountA, amountB)
	}
	return amountA, amountB, nil
}

// AddLiquidity deposits into the pool at poolAddr from the provider's custody
// accounts and mints the issued shares to the provider's share account.
// Returns the shares issued and the amounts of each asset taken.
func (k Keeper) AddLiquidity(ctx context.Context, poolAddr sdk.AccAddress, provider types.LiquidityAccounts, amountA, amountB uint64) (shares, usedA, usedB uint64, err error) {
	var next types.Pool
	err = k.executeAtomic(ctx, poolAddr, func(cacheCtx sdk.Context) error {
		pool, err := k.GetPool(cacheCtx, poolAddr)
		if err != nil {
			return err
		}

		shares, usedA, usedB, err = CalculateDeposit(*pool, amountA, amountB)
		if err != nil {
			return err
		}

		next = *pool
		if next.ReserveA, err = SafeAdd(pool.ReserveA, usedA); err != nil {
			return err
		}
		if next.ReserveB, err = SafeAdd(pool.ReserveB, usedB); err != nil {
			return err
		}
		if next.ShareSupply, err = SafeAdd(pool.ShareSupply, shares); err != nil {
			return err
		}
		if next.Invariant, err = SafeMul(next.ReserveA, next.ReserveB); err != nil {
			return err
		}
		if next.Invariant < pool.Invariant {
			k.metrics.InvariantViolations.WithLabelValues(pool.Address, "add_liquidity").Inc()
			return types.ErrInvariantViolation.Wrapf("deposit lowers k from %d to %d", pool.Invariant, next.Invariant)
		}

		custodyA, custodyB, err := poolCustody(*pool)
		if err != nil {
			return err
		}
		if err := k.ledger.Transfer(cacheCtx, pool.AssetA, provider.CustodyA, custodyA, usedA); err != nil {
			return ledgerErr(err, "transfer %d%s to pool", usedA, pool.AssetA)
		}
		if err := k.ledger.Transfer(cacheCtx, pool.AssetB, provider.CustodyB, custodyB, usedB); err != nil {
			return ledgerErr(err, "transfer %d%s to pool", usedB, pool.AssetB)
		}
		if err := k.ledger.Mint(cacheCtx, pool.ShareAsset, provider.Shares, shares); err != nil {
			return ledgerErr(err, "mint %d%s", shares, pool.ShareAsset)
		}

		if err := k.SetPool(cacheCtx, next); err != nil {
			return err
		}

		cacheCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeAddLiquidity,
				sdk.NewAttribute(types.AttributeKeyPool, pool.Address),
				sdk.NewAttribute(types.AttributeKeyProvider, provider.Shares.String()),
				sdk.NewAttribute(types.AttributeKeyAmountA, strconv.FormatUint(usedA, 10)),
				sdk.NewAttribute(types.AttributeKeyAmountB, strconv.FormatUint(usedB, 10)),
				sdk.NewAttribute(types.AttributeKeyShares, strconv.FormatUint(shares, 10)),
				sdk.NewAttribute(types.AttributeKeyInvariant, strconv.FormatUint(next.Invariant, 10)),
			),
		)
		return nil
	})
	k.metrics.recordOutcome("add_liquidity", err)
	if err != nil {
		return 0, 0, 0, err
	}

	k.metrics.LiquidityAdded.WithLabelValues(next.Address, next.AssetA).Add(float64(usedA))
	k.metrics.LiquidityAdded.WithLabelValues(next.Address, next.AssetB).Add(float64(usedB))
	k.metrics.recordPool(next)
	return shares, usedA, usedB, nil
}

// RemoveLiquidity burns shareAmount shares from the provider's share account
// and pays out the proportional part of both reserves.
func (k Keeper) RemoveLiquidity(ctx context.Context, poolAddr sdk.AccAddress, provider types.LiquidityAccounts, shareAmount uint64) (amountA, amountB uint64, err error) {
	var next types.Pool
	err = k.executeAtomic(ctx, poolAddr, func(cacheCtx sdk.Context) error {
		pool, err := k.GetPool(cacheCtx, poolAddr)
		if err != nil {
			return err
		}

		amountA, amountB, err = CalculateWithdrawal(*pool, shareAmount)
		if err != nil {
			return err
		}

		next = *pool
		if next.ShareSupply, err = SafeSub(pool.ShareSupply, shareAmount); err != nil {
			return err
		}
		if next.ReserveA, err = SafeSub(pool.ReserveA, amountA); err != nil {
			return err
		}
		if next.ReserveB, err = SafeSub(pool.ReserveB, amountB); err != nil {
			return err
		}
		if next.Invariant, err = SafeMul(next.ReserveA, next.ReserveB); err != nil {
			return err
		}

		// A withdrawal shrinks k; what must not shrink is k per share squared:
		// k' * S^2 >= k * S'^2.
		if !productGTE(next.Invariant, pool.ShareSupply, pool.ShareSupply, pool.Invariant, next.ShareSupply, next.ShareSupply) {
			k.metrics.InvariantViolations.WithLabelValues(pool.Address, "remove_liquidity").Inc()
			return types.ErrInvariantViolation.Wrapf("withdrawal of %d shares is not proportional: k %d -> %d, supply %d -> %d",
				shareAmount, pool.Invariant, next.Invariant, pool.ShareSupply, next.ShareSupply)
		}

		custodyA, custodyB, err := poolCustody(*pool)
		if err != nil {
			return err
		}
		if err := k.ledger.Burn(cacheCtx, pool.ShareAsset, provider.Shares, shareAmount); err != nil {
			return ledgerErr(err, "burn %d%s", shareAmount, pool.ShareAsset)
		}
		if err := k.ledger.Transfer(cacheCtx, pool.AssetA, custodyA, provider.CustodyA, amountA); err != nil {
			return ledgerErr(err, "transfer %d%s from pool", amountA, pool.AssetA)
		}
		if err := k.ledger.Transfer(cacheCtx, pool.AssetB, custodyB, provider.CustodyB, amountB); err != nil {
			return ledgerErr(err, "transfer %d%s from pool", amountB, pool.AssetB)
		}

		if err := k.SetPool(cacheCtx, next); err != nil {
			return err
		}

		cacheCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeRemoveLiquidity,
				sdk.NewAttribute(types.AttributeKeyPool, pool.Address),
				sdk.NewAttribute(types.AttributeKeyProvider, provider.Shares.String()),
				sdk.NewAttribute(types.AttributeKeyAmountA, strconv.FormatUint(amountA, 10)),
				sdk.NewAttribute(types.AttributeKeyAmountB, strconv.FormatUint(amountB, 10)),
				sdk.NewAttribute(types.AttributeKeyShares, strconv.FormatUint(shareAmount, 10)),
				sdk.NewAttribute(types.AttributeKeyShareSupply, strconv.FormatUint(next.ShareSupply, 10)),
			),
		)
		return nil
	})
	k.metrics.recordOutcome("remove_liquidity", err)
	if err != nil {
		return 0, 0, err
	}

	k.metrics.LiquidityRemoved.WithLabelValues(next.Address, next.AssetA).Add(float64(amountA))
	k.metrics.LiquidityRemoved.WithLabelValues(next.Address, next.AssetB).Add(float64(amountB))
	k.metrics.recordPool(next)
	return amountA, amountB, nil
}

func poolCustody(pool types.Pool) (custodyA, custodyB sdk.AccAddress, err error) {
	if custodyA, err = pool.CustodyAccount(pool.AssetA); err != nil {
		return nil, nil, types.ErrInvalidPoolState.Wrapf("custody A: %v", err)
	}
	if custodyB, err = pool.CustodyAccount(pool.AssetB); err != nil {
		return nil, nil, types.ErrInvalidPoolState.Wrapf("custody B: %v", err)
	}
	return custodyA, custodyB, nil
}
