package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// LedgerKeeper is the custody ledger the AMM moves balances through. Every call
// is synchronous and all-or-nothing; implementations that persist through the
// context passed in are rolled back together with the pool state.
type LedgerKeeper interface {
	Transfer(ctx context.Context, asset string, from, to sdk.AccAddress, amount uint64) error
	Mint(ctx context.Context, asset string, to sdk.AccAddress, amount uint64) error
	Burn(ctx context.Context, asset string, from sdk.AccAddress, amount uint64) error
	Balance(ctx context.Context, asset string, owner sdk.AccAddress) uint64
}

// SignatureVerifier proves that a request was authorized by identity.
type SignatureVerifier interface {
	VerifySignature(identity sdk.AccAddress, signBytes []byte, sig Signature) bool
}

// BankKeeper is the subset of the cosmos-sdk bank keeper the bank-backed
// ledger adapter needs.
type BankKeeper interface {
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}
