package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/cpamm/testutil/keeper"
	"github.com/paw-chain/cpamm/x/amm/keeper"
)

func TestInvariantsHoldAfterOperations(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	pool := f.CreateTestPool(t, "atoken", "btoken", "lpab")
	f.Deposit(t, pool, keepertest.NewAccount().Address, 1000, 2000)

	msg, broken := keeper.AllInvariants(f.Keeper)(f.Ctx)
	require.False(t, broken, msg)
}

func TestPoolStateInvariantBroken(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	pool := f.CreateTestPool(t, "atoken", "btoken", "lpab")
	f.Deposit(t, pool, keepertest.NewAccount().Address, 1000, 2000)

	stored, err := f.Keeper.GetPool(f.Ctx, pool.PoolAddress())
	require.NoError(t, err)
	stored.Invariant++
	require.NoError(t, f.Keeper.SetPool(f.Ctx, *stored))

	msg, broken := keeper.PoolStateInvariant(f.Keeper)(f.Ctx)
	require.True(t, broken)
	require.Contains(t, msg, pool.Address)

	_, broken = keeper.AllInvariants(f.Keeper)(f.Ctx)
	require.True(t, broken)
}

func TestCustodyBalanceInvariantBroken(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	pool := f.CreateTestPool(t, "atoken", "btoken", "lpab")
	f.Deposit(t, pool, keepertest.NewAccount().Address, 1000, 2000)

	stored, err := f.Keeper.GetPool(f.Ctx, pool.PoolAddress())
	require.NoError(t, err)
	stored.ReserveA, stored.Invariant = 1001, 1001*2000
	require.NoError(t, f.Keeper.SetPool(f.Ctx, *stored))

	_, broken := keeper.PoolStateInvariant(f.Keeper)(f.Ctx)
	require.False(t, broken)

	msg, broken := keeper.CustodyBalanceInvariant(f.Keeper)(f.Ctx)
	require.True(t, broken)
	require.Contains(t, msg, "atoken")
}
