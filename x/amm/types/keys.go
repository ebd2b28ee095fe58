package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "amm"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName

	// poolDerivationKey separates pool addresses from any other address the
	// module might derive in the future.
	poolDerivationKey = "pool"
)

// Store key prefixes
var (
	PoolKeyPrefix     = []byte{0x01} // prefix for pool records, keyed by pool address
	SequenceKeyPrefix = []byte{0x02} // prefix for signer sequences, keyed by signer address
)

// PoolKey returns the store key for the pool living at poolAddr.
func PoolKey(poolAddr sdk.AccAddress) []byte {
	key := make([]byte, 0, len(PoolKeyPrefix)+1+len(poolAddr))
	key = append(key, PoolKeyPrefix...)
	return append(key, address.MustLengthPrefix(poolAddr)...)
}

// SequenceKey returns the store key for signer's next expected sequence.
func SequenceKey(signer sdk.AccAddress) []byte {
	key := make([]byte, 0, len(SequenceKeyPrefix)+1+len(signer))
	key = append(key, SequenceKeyPrefix...)
	return append(key, address.MustLengthPrefix(signer)...)
}

// DerivePoolAddress returns the deterministic address of the pool for the
// ordered pair (assetA, assetB). Swapping the arguments yields a different
// pool.
func DerivePoolAddress(assetA, assetB string) sdk.AccAddress {
	return sdk.AccAddress(address.Module(ModuleName, []byte(poolDerivationKey), []byte(assetA), []byte(assetB)))
}

// DeriveCustodyAddress returns the custody account holding asset on behalf of
// owner. Pools and users both hold their balances in accounts derived this way.
func DeriveCustodyAddress(owner sdk.AccAddress, asset string) sdk.AccAddress {
	return sdk.AccAddress(address.Derive(owner, []byte(asset)))
}
