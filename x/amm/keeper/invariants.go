package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// RegisterInvariants registers all AMM invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "pool-state", PoolStateInvariant(k))
	ir.RegisterRoute(types.ModuleName, "custody-balance", CustodyBalanceInvariant(k))
}

// AllInvariants runs all invariants of the AMM module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := PoolStateInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		return CustodyBalanceInvariant(k)(ctx)
	}
}

// PoolStateInvariant checks every stored pool record: the cached invariant
// equals reserveA * reserveB, shares are outstanding exactly when the pool
// holds reserves, and the pool lives at the address derived from its pair.
func PoolStateInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		err := k.IteratePools(ctx, func(pool types.Pool) bool {
			if err := pool.Validate(); err != nil {
				count++
				msg += fmt.Sprintf("pool %s: %v\n", pool.Address, err)
			}
			return false
		})
		if err != nil {
			count++
			msg += fmt.Sprintf("iterate pools: %v\n", err)
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pool-state",
			fmt.Sprintf("found %d invalid pools\n%s", count, msg),
		), broken
	}
}

// CustodyBalanceInvariant checks that each pool's custody accounts hold at
// least the reserves the pool record attributes to them.
func CustodyBalanceInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		err := k.IteratePools(ctx, func(pool types.Pool) bool {
			custodyA, custodyB, err := poolCustody(pool)
			if err != nil {
				count++
				msg += fmt.Sprintf("pool %s: %v\n", pool.Address, err)
				return false
			}
			if bal := k.ledger.Balance(ctx, pool.AssetA, custodyA); bal < pool.ReserveA {
				count++
				msg += fmt.Sprintf("pool %s: custody balance for %s (%d) < reserve (%d)\n",
					pool.Address, pool.AssetA, bal, pool.ReserveA)
			}
			if bal := k.ledger.Balance(ctx, pool.AssetB, custodyB); bal < pool.ReserveB {
				count++
				msg += fmt.Sprintf("pool %s: custody balance for %s (%d) < reserve (%d)\n",
					pool.Address, pool.AssetB, bal, pool.ReserveB)
			}
			return false
		})
		if err != nil {
			count++
			msg += fmt.Sprintf("iterate pools: %v\n", err)
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "custody-balance",
			fmt.Sprintf("found %d under-collateralized reserves\n%s", count, msg),
		), broken
	}
}
