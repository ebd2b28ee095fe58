package keeper

import (
	"context"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// Keeper of the amm store
type Keeper struct {
	storeKey storetypes.StoreKey
	cdc      *codec.LegacyAmino
	ledger   types.LedgerKeeper
	verifier types.SignatureVerifier
	locks    *poolLocks
	metrics  *AMMMetrics
}

// NewKeeper creates a new amm Keeper instance
func NewKeeper(
	cdc *codec.LegacyAmino,
	key storetypes.StoreKey,
	ledger types.LedgerKeeper,
	verifier types.SignatureVerifier,
) Keeper {
	if verifier == nil {
		verifier = types.Secp256k1Verifier{}
	}
	return Keeper{
		storeKey: key,
		cdc:      cdc,
		ledger:   ledger,
		verifier: verifier,
		locks:    newPoolLocks(),
		metrics:  NewAMMMetrics(),
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// getStore returns the KVStore for the amm module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}
