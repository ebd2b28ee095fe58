package keeper

import (
	"context"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// InitializePool creates the pool for the ordered pair (assetA, assetB) with
// zero reserves. The pool lives at the address derived from the pair, so a
// second initialization of the same pair fails with ErrAlreadyInitialized.
func (k Keeper) InitializePool(ctx context.Context, authority sdk.AccAddress, assetA, assetB, shareAsset string) (*types.Pool, error) {
	if err := types.ValidateAssets(assetA, assetB, shareAsset); err != nil {
		return nil, err
	}
	if len(authority) == 0 {
		return nil, types.ErrInvalidAddress.Wrap("authority cannot be empty")
	}

	pool := types.NewPool(assetA, assetB, shareAsset, authority)
	poolAddr := pool.PoolAddress()

	err := k.executeAtomic(ctx, poolAddr, func(cacheCtx sdk.Context) error {
		if k.HasPool(cacheCtx, poolAddr) {
			return types.ErrAlreadyInitialized.Wrapf("pool for %s/%s already exists at %s", assetA, assetB, poolAddr)
		}
		if err := k.SetPool(cacheCtx, pool); err != nil {
			return err
		}

		cacheCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypePoolInitialized,
				sdk.NewAttribute(types.AttributeKeyPool, pool.Address),
				sdk.NewAttribute(types.AttributeKeyAuthority, pool.Authority),
				sdk.NewAttribute(types.AttributeKeyAssetA, assetA),
				sdk.NewAttribute(types.AttributeKeyAssetB, assetB),
				sdk.NewAttribute(types.AttributeKeyShareAsset, shareAsset),
			),
		)
		return nil
	})
	k.metrics.recordOutcome("initialize_pool", err)
	if err != nil {
		return nil, err
	}

	k.metrics.PoolsInitialized.Inc()
	k.Logger(ctx).Info("pool initialized", "pool", pool.Address, "asset_a", assetA, "asset_b", assetB)
	return &pool, nil
}

// GetPool retrieves the pool stored at poolAddr.
// Returns ErrPoolNotFound if the pool does not exist.
func (k Keeper) GetPool(ctx context.Context, poolAddr sdk.AccAddress) (*types.Pool, error) {
	store := k.getStore(ctx)
	bz := store.Get(types.PoolKey(poolAddr))
	if bz == nil {
		return nil, types.ErrPoolNotFound.Wrapf("pool %s not found", poolAddr)
	}

	var pool types.Pool
	if err := k.cdc.Unmarshal(bz, &pool); err != nil {
		return nil, fmt.Errorf("GetPool: unmarshal pool %s: %w", poolAddr, err)
	}
	return &pool, nil
}

// GetPoolByAssets retrieves the pool for the ordered pair (assetA, assetB).
func (k Keeper) GetPoolByAssets(ctx context.Context, assetA, assetB string) (*types.Pool, error) {
	return k.GetPool(ctx, types.DerivePoolAddress(assetA, assetB))
}

// HasPool reports whether a pool exists at poolAddr.
func (k Keeper) HasPool(ctx context.Context, poolAddr sdk.AccAddress) bool {
	return k.getStore(ctx).Has(types.PoolKey(poolAddr))
}

// SetPool saves a pool to the store
func (k Keeper) SetPool(ctx context.Context, pool types.Pool) error {
	poolAddr, err := sdk.AccAddressFromBech32(pool.Address)
	if err != nil {
		return fmt.Errorf("SetPool: pool address %q: %w", pool.Address, err)
	}
	bz, err := k.cdc.Marshal(&pool)
	if err != nil {
		return fmt.Errorf("SetPool: marshal pool %s: %w", pool.Address, err)
	}
	k.getStore(ctx).Set(types.PoolKey(poolAddr), bz)
	return nil
}

// IteratePools iterates over all pools
func (k Keeper) IteratePools(ctx context.Context, cb func(pool types.Pool) (stop bool)) error {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.PoolKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := k.cdc.Unmarshal(iterator.Value(), &pool); err != nil {
			return fmt.Errorf("IteratePools: unmarshal pool: %w", err)
		}
		if cb(pool) {
			break
		}
	}
	return nil
}

// GetAllPools returns every pool in store order.
func (k Keeper) GetAllPools(ctx context.Context) ([]types.Pool, error) {
	var pools []types.Pool
	err := k.IteratePools(ctx, func(pool types.Pool) bool {
		pools = append(pools, pool)
		return false
	})
	return pools, err
}
