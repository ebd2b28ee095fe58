package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// LiquidityAccounts are a liquidity provider's custody accounts for the two
// pool assets and the pool-share asset.
type LiquidityAccounts struct {
	CustodyA sdk.AccAddress
	CustodyB sdk.AccAddress
	Shares   sdk.AccAddress
}

// NewLiquidityAccounts derives owner's custody accounts for pool.
func NewLiquidityAccounts(owner sdk.AccAddress, pool Pool) LiquidityAccounts {
	return LiquidityAccounts{
		CustodyA: DeriveCustodyAddress(owner, pool.AssetA),
		CustodyB: DeriveCustodyAddress(owner, pool.AssetB),
		Shares:   DeriveCustodyAddress(owner, pool.ShareAsset),
	}
}

// SwapAccounts are a trader's custody accounts for the sold and bought asset.
type SwapAccounts struct {
	In  sdk.AccAddress
	Out sdk.AccAddress
}

// NewSwapAccounts derives owner's custody accounts for selling inputAsset
// into pool.
func NewSwapAccounts(owner sdk.AccAddress, pool Pool, inputAsset string) SwapAccounts {
	return SwapAccounts{
		In:  DeriveCustodyAddress(owner, inputAsset),
		Out: DeriveCustodyAddress(owner, pool.CounterAsset(inputAsset)),
	}
}
