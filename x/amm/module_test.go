package amm_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/cpamm/testutil/keeper"
	"github.com/paw-chain/cpamm/x/amm"
	"github.com/paw-chain/cpamm/x/amm/types"
)

type routeRecorder struct {
	routes map[string]sdk.Invariant
}

func (r *routeRecorder) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	r.routes[moduleName+"/"+route] = invar
}

func TestAppModuleGenesis(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	am := amm.NewAppModule(f.Keeper)
	require.Equal(t, types.ModuleName, am.Name())

	def := am.DefaultGenesis(nil)
	require.NoError(t, am.ValidateGenesis(nil, nil, def))
	require.Error(t, am.ValidateGenesis(nil, nil, []byte(`{"pools":[{"initialized":false}]}`)))

	pool := f.CreateTestPool(t, "atoken", "btoken", "lpab")
	f.Deposit(t, pool, keepertest.NewAccount().Address, 1000, 2000)
	exported := am.ExportGenesis(f.Ctx, nil)
	require.NoError(t, am.ValidateGenesis(nil, nil, exported))

	fresh := keepertest.AMMKeeper(t)
	amm.NewAppModule(fresh.Keeper).InitGenesis(fresh.Ctx, nil, exported)

	stored, err := fresh.Keeper.GetPool(fresh.Ctx, pool.PoolAddress())
	require.NoError(t, err)
	require.Equal(t, uint64(2_000_000), stored.ShareSupply)
}

func TestAppModuleInvariants(t *testing.T) {
	f := keepertest.AMMKeeper(t)
	rec := &routeRecorder{routes: make(map[string]sdk.Invariant)}
	amm.NewAppModule(f.Keeper).RegisterInvariants(rec)

	require.Contains(t, rec.routes, "amm/pool-state")
	require.Contains(t, rec.routes, "amm/custody-balance")
	for route, invar := range rec.routes {
		msg, broken := invar(f.Ctx)
		require.False(t, broken, "%s: %s", route, msg)
	}
}
