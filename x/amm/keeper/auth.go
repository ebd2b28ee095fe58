package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// authorize checks that sig is a valid proof by identity over msg and that
// msg carries identity's next sequence. On success identity's sequence stays
// held until release is called; the caller consumes it with consumeSequence
// once the operation has succeeded, so a signed message runs at most once.
func (k Keeper) authorize(ctx context.Context, identity sdk.AccAddress, msg types.Signable, sig types.Signature) (release func(), err error) {
	if sig.IsEmpty() {
		return nil, types.ErrUnauthorized.Wrapf("request for %s is not signed", identity)
	}
	if !k.verifier.VerifySignature(identity, msg.GetSignBytes(), sig) {
		return nil, types.ErrUnauthorized.Wrapf("signature does not prove %s", identity)
	}

	release = k.locks.lockSigner(identity.String())

	unlockStore := k.locks.lockStore()
	expected := k.GetSequence(ctx, identity)
	unlockStore()

	if msg.GetSequence() != expected {
		release()
		return nil, types.ErrUnauthorized.Wrapf("%s signed at sequence %d, expected %d", identity, msg.GetSequence(), expected)
	}
	return release, nil
}

// loadPool reads the pool named by a request. Pool assets and custody
// accounts never change after initialization, so the record is good for
// binding checks even though the operation itself re-reads it under the pool
// lock.
func (k Keeper) loadPool(ctx context.Context, poolAddr string) (*types.Pool, sdk.AccAddress, error) {
	addr, err := sdk.AccAddressFromBech32(poolAddr)
	if err != nil {
		return nil, nil, types.ErrInvalidAddress.Wrapf("pool: %v", err)
	}

	unlock := k.locks.lockStore()
	defer unlock()

	pool, err := k.GetPool(ctx, addr)
	if err != nil {
		return nil, nil, err
	}
	return pool, addr, nil
}

// bindAccount checks that the supplied account reference is the expected one.
func bindAccount(name, supplied string, expected sdk.AccAddress) error {
	addr, err := sdk.AccAddressFromBech32(supplied)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("%s: %v", name, err)
	}
	if !addr.Equals(expected) {
		return types.ErrAccountMismatch.Wrapf("%s %s does not match %s", name, supplied, expected)
	}
	return nil
}

// bindLiquidityAccounts checks the account references of a liquidity
// request and returns the provider's derived accounts.
func bindLiquidityAccounts(pool types.Pool, owner sdk.AccAddress, custodyA, custodyB, shares, poolCustodyA, poolCustodyB string) (types.LiquidityAccounts, error) {
	accts := types.NewLiquidityAccounts(owner, pool)
	poolA, poolB, err := poolCustody(pool)
	if err != nil {
		return types.LiquidityAccounts{}, err
	}

	checks := []struct {
		name     string
		supplied string
		expected sdk.AccAddress
	}{
		{"custody account for " + pool.AssetA, custodyA, accts.CustodyA},
		{"custody account for " + pool.AssetB, custodyB, accts.CustodyB},
		{"share account for " + pool.ShareAsset, shares, accts.Shares},
		{"pool custody for " + pool.AssetA, poolCustodyA, poolA},
		{"pool custody for " + pool.AssetB, poolCustodyB, poolB},
	}
	for _, c := range checks {
		if err := bindAccount(c.name, c.supplied, c.expected); err != nil {
			return types.LiquidityAccounts{}, err
		}
	}
	return accts, nil
}

// bindSwapAccounts checks the account references of a swap request selling
// inputAsset and returns the trader's derived accounts.
func bindSwapAccounts(pool types.Pool, owner sdk.AccAddress, inputAsset, traderIn, traderOut, poolIn, poolOut string) (types.SwapAccounts, error) {
	if !pool.HasAsset(inputAsset) {
		return types.SwapAccounts{}, types.ErrWrongInputToken.Wrapf("%s is not traded by pool %s/%s", inputAsset, pool.AssetA, pool.AssetB)
	}
	outputAsset := pool.CounterAsset(inputAsset)

	accts := types.NewSwapAccounts(owner, pool, inputAsset)
	custodyIn, err := pool.CustodyAccount(inputAsset)
	if err != nil {
		return types.SwapAccounts{}, types.ErrInvalidPoolState.Wrap(err.Error())
	}
	custodyOut, err := pool.CustodyAccount(outputAsset)
	if err != nil {
		return types.SwapAccounts{}, types.ErrInvalidPoolState.Wrap(err.Error())
	}

	if err := bindAccount("custody account for "+inputAsset, traderIn, accts.In); err != nil {
		return types.SwapAccounts{}, err
	}
	if err := bindAccount("custody account for "+outputAsset, traderOut, accts.Out); err != nil {
		return types.SwapAccounts{}, err
	}
	if err := bindAccount("pool custody for "+inputAsset, poolIn, custodyIn); err != nil {
		return types.SwapAccounts{}, err
	}
	if err := bindAccount("pool custody for "+outputAsset, poolOut, custodyOut); err != nil {
		return types.SwapAccounts{}, err
	}
	return accts, nil
}
