package ledger

import (
	"context"
	"fmt"
	stdmath "math"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// BankLedger adapts a cosmos-sdk bank keeper to the AMM's ledger interface.
// Share minting and burning pass through the amm module account, which must
// be registered with Minter and Burner permissions.
type BankLedger struct {
	bank types.BankKeeper
}

var _ types.LedgerKeeper = BankLedger{}

// NewBankLedger creates a ledger over bank.
func NewBankLedger(bank types.BankKeeper) BankLedger {
	return BankLedger{bank: bank}
}

func coins(asset string, amount uint64) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(asset, math.NewIntFromUint64(amount)))
}

// Transfer implements types.LedgerKeeper.
func (l BankLedger) Transfer(ctx context.Context, asset string, from, to sdk.AccAddress, amount uint64) error {
	if from.Equals(to) {
		return ErrSelfTransfer.Wrapf("%s", from)
	}
	if err := l.bank.SendCoins(ctx, from, to, coins(asset, amount)); err != nil {
		return fmt.Errorf("send %d%s: %w", amount, asset, err)
	}
	return nil
}

// Mint implements types.LedgerKeeper.
func (l BankLedger) Mint(ctx context.Context, asset string, to sdk.AccAddress, amount uint64) error {
	amt := coins(asset, amount)
	if err := l.bank.MintCoins(ctx, types.ModuleName, amt); err != nil {
		return fmt.Errorf("mint %d%s: %w", amount, asset, err)
	}
	if err := l.bank.SendCoinsFromModuleToAccount(ctx, types.ModuleName, to, amt); err != nil {
		return fmt.Errorf("send minted %d%s: %w", amount, asset, err)
	}
	return nil
}

// Burn implements types.LedgerKeeper.
func (l BankLedger) Burn(ctx context.Context, asset string, from sdk.AccAddress, amount uint64) error {
	amt := coins(asset, amount)
	if err := l.bank.SendCoinsFromAccountToModule(ctx, from, types.ModuleName, amt); err != nil {
		return fmt.Errorf("collect %d%s for burn: %w", amount, asset, err)
	}
	if err := l.bank.BurnCoins(ctx, types.ModuleName, amt); err != nil {
		return fmt.Errorf("burn %d%s: %w", amount, asset, err)
	}
	return nil
}

// Balance implements types.LedgerKeeper. Balances beyond the uint64 range
// saturate.
func (l BankLedger) Balance(ctx context.Context, asset string, owner sdk.AccAddress) uint64 {
	amount := l.bank.GetBalance(ctx, owner, asset).Amount
	if !amount.IsUint64() {
		return stdmath.MaxUint64
	}
	return amount.Uint64()
}
