package app

import (
	"sync"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// Bech32PrefixAccAddr defines the Bech32 prefix of an account's address
	Bech32PrefixAccAddr = "amm"
	// Bech32PrefixAccPub defines the Bech32 prefix of an account's public key
	Bech32PrefixAccPub = "ammpub"

	// CoinType is the coin type used for HD derivation (SLIP44)
	CoinType = 118
)

var configOnce sync.Once

// SetConfig sets the address configuration for ammd. Safe to call more than
// once.
func SetConfig() {
	configOnce.Do(func() {
		config := sdk.GetConfig()
		configureAddresses(config)
		config.Seal()
	})
}

// configureAddresses sets the account prefixes and coin type. The node has no
// validators, so the validator and consensus prefixes keep their defaults.
func configureAddresses(config *sdk.Config) {
	config.SetBech32PrefixForAccount(Bech32PrefixAccAddr, Bech32PrefixAccPub)
	config.SetCoinType(CoinType)
}
