package keeper

import (
	"context"
	"errors"
	"sync"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/cpamm/x/amm/keeper"
	"github.com/paw-chain/cpamm/x/amm/ledger"
	"github.com/paw-chain/cpamm/x/amm/types"
)

// ErrInjected is returned by FaultyLedger for the call it was told to fail.
var ErrInjected = errors.New("injected ledger failure")

// FaultyLedger wraps the store ledger and fails a chosen call.
type FaultyLedger struct {
	ledger.StoreLedger

	mu     sync.Mutex
	failOp string
	failAt int
	calls  map[string]int
}

var _ types.LedgerKeeper = (*FaultyLedger)(nil)

// FailOn makes the nth (1-based) call of op ("transfer", "mint" or "burn")
// fail with ErrInjected. Counting restarts with every FailOn.
func (l *FaultyLedger) FailOn(op string, nth int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failOp, l.failAt = op, nth
	l.calls = make(map[string]int)
}

// Reset disables fault injection.
func (l *FaultyLedger) Reset() {
	l.FailOn("", 0)
}

func (l *FaultyLedger) fail(op string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.calls == nil {
		l.calls = make(map[string]int)
	}
	l.calls[op]++
	return op == l.failOp && l.calls[op] == l.failAt
}

// Transfer implements types.LedgerKeeper.
func (l *FaultyLedger) Transfer(ctx context.Context, asset string, from, to sdk.AccAddress, amount uint64) error {
	if l.fail("transfer") {
		return ErrInjected
	}
	return l.StoreLedger.Transfer(ctx, asset, from, to, amount)
}

// Mint implements types.LedgerKeeper.
func (l *FaultyLedger) Mint(ctx context.Context, asset string, to sdk.AccAddress, amount uint64) error {
	if l.fail("mint") {
		return ErrInjected
	}
	return l.StoreLedger.Mint(ctx, asset, to, amount)
}

// Burn implements types.LedgerKeeper.
func (l *FaultyLedger) Burn(ctx context.Context, asset string, from sdk.AccAddress, amount uint64) error {
	if l.fail("burn") {
		return ErrInjected
	}
	return l.StoreLedger.Burn(ctx, asset, from, amount)
}

// AMMFixture bundles a keeper with its context and ledger.
type AMMFixture struct {
	Keeper keeper.Keeper
	Ctx    sdk.Context
	Ledger *FaultyLedger
}

// AMMKeeper creates a test keeper for the AMM module over an in-memory
// multistore holding the amm and ledger stores.
func AMMKeeper(t testing.TB) AMMFixture {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	ledgerKey := storetypes.NewKVStoreKey(ledger.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(ledgerKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	faulty := &FaultyLedger{StoreLedger: ledger.NewStoreLedger(ledgerKey)}
	k := keeper.NewKeeper(types.ModuleCdc, storeKey, faulty, nil)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())
	require.NoError(t, k.InitGenesis(ctx, *types.DefaultGenesis()))

	return AMMFixture{Keeper: k, Ctx: ctx, Ledger: faulty}
}

// Account is a test identity with its signing key.
type Account struct {
	PrivKey *secp256k1.PrivKey
	Address sdk.AccAddress
}

// NewAccount generates a fresh secp256k1 identity.
func NewAccount() Account {
	priv := secp256k1.GenPrivKey()
	return Account{PrivKey: priv, Address: sdk.AccAddress(priv.PubKey().Address())}
}

// Sign returns the signature of acc over msg.
func (acc Account) Sign(t testing.TB, msg types.Signable) types.Signature {
	sig, err := types.Sign(acc.PrivKey, msg)
	require.NoError(t, err)
	return sig
}

// Fund mints amount of asset into owner's custody account for asset.
func (f AMMFixture) Fund(t testing.TB, owner sdk.AccAddress, asset string, amount uint64) {
	require.NoError(t, f.Ledger.StoreLedger.Mint(f.Ctx, asset, types.DeriveCustodyAddress(owner, asset), amount))
}

// CustodyBalance returns owner's balance in its custody account for asset.
func (f AMMFixture) CustodyBalance(owner sdk.AccAddress, asset string) uint64 {
	return f.Ledger.Balance(f.Ctx, asset, types.DeriveCustodyAddress(owner, asset))
}

// CreateTestPool initializes a pool for (assetA, assetB) with a fresh
// authority and returns it.
func (f AMMFixture) CreateTestPool(t testing.TB, assetA, assetB, shareAsset string) types.Pool {
	pool, err := f.Keeper.InitializePool(f.Ctx, NewAccount().Address, assetA, assetB, shareAsset)
	require.NoError(t, err)
	return *pool
}

// Deposit funds provider and adds liquidity to pool.
func (f AMMFixture) Deposit(t testing.TB, pool types.Pool, provider sdk.AccAddress, amountA, amountB uint64) uint64 {
	f.Fund(t, provider, pool.AssetA, amountA)
	f.Fund(t, provider, pool.AssetB, amountB)
	shares, _, _, err := f.Keeper.AddLiquidity(f.Ctx, pool.PoolAddress(), types.NewLiquidityAccounts(provider, pool), amountA, amountB)
	require.NoError(t, err)
	return shares
}
