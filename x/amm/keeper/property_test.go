package keeper_test

import (
	"testing"

	"pgregory.net/rapid"

	keepertest "github.com/paw-chain/cpamm/testutil/keeper"
	"github.com/paw-chain/cpamm/x/amm/keeper"
	"github.com/paw-chain/cpamm/x/amm/types"
)

// TestSwapOutputProperties checks that a swap never lowers the constant
// product and never pays out the whole output reserve.
func TestSwapOutputProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reserveIn := rapid.Uint64Range(1, 1<<31).Draw(t, "reserveIn")
		reserveOut := rapid.Uint64Range(1, 1<<31).Draw(t, "reserveOut")
		amountIn := rapid.Uint64Range(1, 1<<31).Draw(t, "amountIn")

		out, err := keeper.CalculateSwapOutput(reserveIn, reserveOut, amountIn)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out >= reserveOut {
			t.Fatalf("output %d drains reserve %d", out, reserveOut)
		}
		if (reserveIn+amountIn)*(reserveOut-out) < reserveIn*reserveOut {
			t.Fatalf("k decreased: %d*%d < %d*%d", reserveIn+amountIn, reserveOut-out, reserveIn, reserveOut)
		}
	})
}

// TestPoolOperationProperties drives a pool through random deposits, swaps
// and withdrawals and checks the pool record after every step.
func TestPoolOperationProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := keepertest.AMMKeeper(t)
		pool := f.CreateTestPool(t, "atoken", "btoken", "lpab")
		actor := keepertest.NewAccount().Address
		liquidity := types.NewLiquidityAccounts(actor, pool)

		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			before, err := f.Keeper.GetPool(f.Ctx, pool.PoolAddress())
			if err != nil {
				rt.Fatalf("get pool: %v", err)
			}

			op := rapid.SampledFrom([]string{"deposit", "swap", "withdraw"}).Draw(rt, "op")
			var opErr error
			switch op {
			case "deposit":
				amountA := rapid.Uint64Range(1, 1<<20).Draw(rt, "amountA")
				amountB := rapid.Uint64Range(1, 1<<20).Draw(rt, "amountB")
				f.Fund(t, actor, "atoken", amountA)
				f.Fund(t, actor, "btoken", amountB)
				_, _, _, opErr = f.Keeper.AddLiquidity(f.Ctx, pool.PoolAddress(), liquidity, amountA, amountB)
			case "swap":
				asset := rapid.SampledFrom([]string{"atoken", "btoken"}).Draw(rt, "asset")
				amountIn := rapid.Uint64Range(1, 1<<20).Draw(rt, "amountIn")
				f.Fund(t, actor, asset, amountIn)
				accts := types.NewSwapAccounts(actor, pool, asset)
				_, opErr = f.Keeper.Swap(f.Ctx, pool.PoolAddress(), accts, asset, amountIn, 0)
			case "withdraw":
				if before.ShareSupply == 0 {
					continue
				}
				shares := rapid.Uint64Range(1, before.ShareSupply).Draw(rt, "shares")
				_, _, opErr = f.Keeper.RemoveLiquidity(f.Ctx, pool.PoolAddress(), liquidity, shares)
			}

			after, err := f.Keeper.GetPool(f.Ctx, pool.PoolAddress())
			if err != nil {
				rt.Fatalf("get pool: %v", err)
			}
			if opErr != nil {
				if *after != *before {
					rt.Fatalf("%s failed with %v but changed the pool: %s -> %s", op, opErr, before, after)
				}
				continue
			}
			if err := after.Validate(); err != nil {
				rt.Fatalf("%s left an invalid pool: %v", op, err)
			}
			if op != "withdraw" && after.Invariant < before.Invariant {
				rt.Fatalf("%s decreased k: %d -> %d", op, before.Invariant, after.Invariant)
			}
			if f.CustodyBalance(pool.PoolAddress(), "atoken") != after.ReserveA ||
				f.CustodyBalance(pool.PoolAddress(), "btoken") != after.ReserveB {
				rt.Fatalf("custody balances drifted from reserves after %s", op)
			}
			if f.CustodyBalance(actor, "lpab") != after.ShareSupply {
				rt.Fatalf("share balance %d != supply %d", f.CustodyBalance(actor, "lpab"), after.ShareSupply)
			}
		}
	})
}
