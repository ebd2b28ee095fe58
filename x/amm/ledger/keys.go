package ledger

import (
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// StoreKey is the store key of the store-backed ledger.
	StoreKey = "ledger"
)

var (
	BalanceKeyPrefix = []byte{0x01}
	SupplyKeyPrefix  = []byte{0x02}
)

// BalanceKey is BalanceKeyPrefix | len(owner) | owner | asset.
func BalanceKey(owner []byte, asset string) []byte {
	key := append([]byte{}, BalanceKeyPrefix...)
	key = append(key, address.MustLengthPrefix(owner)...)
	return append(key, asset...)
}

// SupplyKey is SupplyKeyPrefix | asset.
func SupplyKey(asset string) []byte {
	return append(append([]byte{}, SupplyKeyPrefix...), asset...)
}

// balancesOf returns the store of every balance held by owner, keyed by asset.
func balancesOf(store storetypes.KVStore, owner []byte) prefix.Store {
	key := append([]byte{}, BalanceKeyPrefix...)
	return prefix.NewStore(store, append(key, address.MustLengthPrefix(owner)...))
}
