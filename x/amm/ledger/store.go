package ledger

import (
	"context"
	"math/bits"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// StoreLedger is a custody ledger kept in its own KV store: one uint64
// balance per (account, asset) and one supply counter per asset. Every write
// goes through the context's store, so a cached context rolls ledger
// movements back together with the rest of the operation.
type StoreLedger struct {
	storeKey storetypes.StoreKey
}

var _ types.LedgerKeeper = StoreLedger{}

// NewStoreLedger creates a ledger backed by the store under key.
func NewStoreLedger(key storetypes.StoreKey) StoreLedger {
	return StoreLedger{storeKey: key}
}

func (l StoreLedger) getStore(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(l.storeKey)
}

// Balance returns owner's balance of asset.
func (l StoreLedger) Balance(ctx context.Context, asset string, owner sdk.AccAddress) uint64 {
	bz := l.getStore(ctx).Get(BalanceKey(owner, asset))
	if bz == nil {
		return 0
	}
	return sdk.BigEndianToUint64(bz)
}

// Supply returns the total amount of asset in existence.
func (l StoreLedger) Supply(ctx context.Context, asset string) uint64 {
	bz := l.getStore(ctx).Get(SupplyKey(asset))
	if bz == nil {
		return 0
	}
	return sdk.BigEndianToUint64(bz)
}

// Transfer moves amount of asset from one account to another.
func (l StoreLedger) Transfer(ctx context.Context, asset string, from, to sdk.AccAddress, amount uint64) error {
	if err := validate(asset, amount, from, to); err != nil {
		return err
	}
	if from.Equals(to) {
		return ErrSelfTransfer.Wrapf("%s", from)
	}

	store := l.getStore(ctx)
	fromBal := l.Balance(ctx, asset, from)
	if fromBal < amount {
		return ErrInsufficientFunds.Wrapf("%s has %d%s, needs %d", from, fromBal, asset, amount)
	}
	toBal, carry := bits.Add64(l.Balance(ctx, asset, to), amount, 0)
	if carry != 0 {
		return ErrSupplyOverflow.Wrapf("balance of %s in %s", to, asset)
	}

	setUint64(store, BalanceKey(from, asset), fromBal-amount)
	setUint64(store, BalanceKey(to, asset), toBal)
	return nil
}

// Mint creates amount of asset in the to account.
func (l StoreLedger) Mint(ctx context.Context, asset string, to sdk.AccAddress, amount uint64) error {
	if err := validate(asset, amount, to); err != nil {
		return err
	}

	supply, carry := bits.Add64(l.Supply(ctx, asset), amount, 0)
	if carry != 0 {
		return ErrSupplyOverflow.Wrapf("minting %d%s", amount, asset)
	}
	// Any balance is bounded by the supply, so this cannot carry.
	balance := l.Balance(ctx, asset, to) + amount

	store := l.getStore(ctx)
	setUint64(store, SupplyKey(asset), supply)
	setUint64(store, BalanceKey(to, asset), balance)
	return nil
}

// Burn destroys amount of asset held by the from account.
func (l StoreLedger) Burn(ctx context.Context, asset string, from sdk.AccAddress, amount uint64) error {
	if err := validate(asset, amount, from); err != nil {
		return err
	}

	balance := l.Balance(ctx, asset, from)
	if balance < amount {
		return ErrInsufficientFunds.Wrapf("%s has %d%s, burning %d", from, balance, asset, amount)
	}

	store := l.getStore(ctx)
	setUint64(store, BalanceKey(from, asset), balance-amount)
	setUint64(store, SupplyKey(asset), l.Supply(ctx, asset)-amount)
	return nil
}

// IterateBalances calls cb for every non-zero balance held by owner, in asset
// order, until cb returns true.
func (l StoreLedger) IterateBalances(ctx context.Context, owner sdk.AccAddress, cb func(asset string, amount uint64) (stop bool)) {
	iterator := balancesOf(l.getStore(ctx), owner).Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		amount := sdk.BigEndianToUint64(iterator.Value())
		if amount == 0 {
			continue
		}
		if cb(string(iterator.Key()), amount) {
			break
		}
	}
}

func setUint64(store storetypes.KVStore, key []byte, value uint64) {
	if value == 0 {
		store.Delete(key)
		return
	}
	store.Set(key, sdk.Uint64ToBigEndian(value))
}

func validate(asset string, amount uint64, accounts ...sdk.AccAddress) error {
	if err := sdk.ValidateDenom(asset); err != nil {
		return ErrInvalidAsset.Wrapf("%q: %v", asset, err)
	}
	if amount == 0 {
		return ErrInvalidAmount.Wrap("amount must be positive")
	}
	for _, acc := range accounts {
		if err := sdk.VerifyAddressFormat(acc); err != nil {
			return ErrInvalidAccount.Wrapf("%v", err)
		}
	}
	return nil
}
