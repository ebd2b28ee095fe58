package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// executeAtomic runs fn with exclusive access to the pool at poolAddr inside a
// cached context. The cache, including any ledger movements made through it,
// is written back only if fn succeeds; on error nothing fn did is visible.
func (k Keeper) executeAtomic(ctx context.Context, poolAddr sdk.AccAddress, fn func(cacheCtx sdk.Context) error) error {
	unlock := k.locks.lock(poolAddr.String())
	defer unlock()

	// Balances read through the cache must not go stale before the write,
	// so the store stays held from the first read until the commit.
	unlockStore := k.locks.lockStore()
	defer unlockStore()

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, writeFn := sdkCtx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	writeFn()
	return nil
}
