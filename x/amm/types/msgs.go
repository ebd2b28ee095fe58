package types

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgInitializePool creates the pool for an ordered asset pair.
type MsgInitializePool struct {
	Authority  string    `json:"authority"`
	AssetA     string    `json:"asset_a"`
	AssetB     string    `json:"asset_b"`
	ShareAsset string    `json:"share_asset"`
	Sequence   uint64    `json:"sequence"`
	Signature  Signature `json:"signature"`
}

// MsgInitializePoolResponse returns the freshly created pool.
type MsgInitializePoolResponse struct {
	Pool Pool `json:"pool"`
}

// NewMsgInitializePool creates a new, unsigned MsgInitializePool.
func NewMsgInitializePool(authority sdk.AccAddress, assetA, assetB, shareAsset string) *MsgInitializePool {
	return &MsgInitializePool{
		Authority:  authority.String(),
		AssetA:     assetA,
		AssetB:     assetB,
		ShareAsset: shareAsset,
	}
}

// Route returns the message route.
func (msg MsgInitializePool) Route() string { return RouterKey }

// Type returns the message type.
func (msg MsgInitializePool) Type() string { return "initialize_pool" }

// GetSequence returns the signer sequence the message was signed at.
func (msg MsgInitializePool) GetSequence() uint64 { return msg.Sequence }

// GetSigners returns the identity that must sign the message.
func (msg MsgInitializePool) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{sdk.MustAccAddressFromBech32(msg.Authority)}
}

// GetSignBytes returns the canonical bytes covered by the signature.
func (msg MsgInitializePool) GetSignBytes() []byte {
	msg.Signature = Signature{}
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(&msg))
}

// ValidateBasic performs stateless validation.
func (msg MsgInitializePool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return errorsmod.Wrapf(ErrInvalidAddress, "invalid authority address: %s", err)
	}
	return ValidateAssets(msg.AssetA, msg.AssetB, msg.ShareAsset)
}

// MsgAddLiquidity deposits both pool assets in exchange for pool shares.
type MsgAddLiquidity struct {
	Depositor             string    `json:"depositor"`
	Pool                  string    `json:"pool"`
	DepositorCustodyA     string    `json:"depositor_custody_a"`
	DepositorCustodyB     string    `json:"depositor_custody_b"`
	DepositorShareAccount string    `json:"depositor_share_account"`
	PoolCustodyA          string    `json:"pool_custody_a"`
	PoolCustodyB          string    `json:"pool_custody_b"`
	AmountA               uint64    `json:"amount_a"`
	AmountB               uint64    `json:"amount_b"`
	Sequence              uint64    `json:"sequence"`
	Signature             Signature `json:"signature"`
}

// MsgAddLiquidityResponse reports the shares minted and the amounts taken.
type MsgAddLiquidityResponse struct {
	SharesIssued uint64 `json:"shares_issued"`
	AmountA      uint64 `json:"amount_a"`
	AmountB      uint64 `json:"amount_b"`
}

// NewMsgAddLiquidity creates an unsigned deposit into pool, filling in the
// depositor's and the pool's custody accounts.
func NewMsgAddLiquidity(depositor sdk.AccAddress, pool Pool, amountA, amountB uint64) *MsgAddLiquidity {
	return &MsgAddLiquidity{
		Depositor:             depositor.String(),
		Pool:                  pool.Address,
		DepositorCustodyA:     DeriveCustodyAddress(depositor, pool.AssetA).String(),
		DepositorCustodyB:     DeriveCustodyAddress(depositor, pool.AssetB).String(),
		DepositorShareAccount: DeriveCustodyAddress(depositor, pool.ShareAsset).String(),
		PoolCustodyA:          pool.CustodyA,
		PoolCustodyB:          pool.CustodyB,
		AmountA:               amountA,
		AmountB:               amountB,
	}
}

// Route returns the message route.
func (msg MsgAddLiquidity) Route() string { return RouterKey }

// Type returns the message type.
func (msg MsgAddLiquidity) Type() string { return "add_liquidity" }

// GetSequence returns the signer sequence the message was signed at.
func (msg MsgAddLiquidity) GetSequence() uint64 { return msg.Sequence }

// GetSigners returns the identity that must sign the message.
func (msg MsgAddLiquidity) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{sdk.MustAccAddressFromBech32(msg.Depositor)}
}

// GetSignBytes returns the canonical bytes covered by the signature.
func (msg MsgAddLiquidity) GetSignBytes() []byte {
	msg.Signature = Signature{}
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(&msg))
}

// ValidateBasic performs stateless validation.
func (msg MsgAddLiquidity) ValidateBasic() error {
	if err := validateAddresses(map[string]string{
		"depositor":               msg.Depositor,
		"pool":                    msg.Pool,
		"depositor custody A":     msg.DepositorCustodyA,
		"depositor custody B":     msg.DepositorCustodyB,
		"depositor share account": msg.DepositorShareAccount,
		"pool custody A":          msg.PoolCustodyA,
		"pool custody B":          msg.PoolCustodyB,
	}); err != nil {
		return err
	}
	if msg.AmountA == 0 || msg.AmountB == 0 {
		return errorsmod.Wrap(ErrInvalidAmount, "deposit amounts must be positive")
	}
	return nil
}

// MsgRemoveLiquidity redeems pool shares for a proportional part of both
// reserves.
type MsgRemoveLiquidity struct {
	Withdrawer             string    `json:"withdrawer"`
	Pool                   string    `json:"pool"`
	WithdrawerCustodyA     string    `json:"withdrawer_custody_a"`
	WithdrawerCustodyB     string    `json:"withdrawer_custody_b"`
	WithdrawerShareAccount string    `json:"withdrawer_share_account"`
	PoolCustodyA           string    `json:"pool_custody_a"`
	PoolCustodyB           string    `json:"pool_custody_b"`
	ShareAmount            uint64    `json:"share_amount"`
	Sequence               uint64    `json:"sequence"`
	Signature              Signature `json:"signature"`
}

// MsgRemoveLiquidityResponse reports the amounts paid out.
type MsgRemoveLiquidityResponse struct {
	AmountA uint64 `json:"amount_a"`
	AmountB uint64 `json:"amount_b"`
}

// NewMsgRemoveLiquidity creates an unsigned withdrawal from pool.
func NewMsgRemoveLiquidity(withdrawer sdk.AccAddress, pool Pool, shareAmount uint64) *MsgRemoveLiquidity {
	return &MsgRemoveLiquidity{
		Withdrawer:             withdrawer.String(),
		Pool:                   pool.Address,
		WithdrawerCustodyA:     DeriveCustodyAddress(withdrawer, pool.AssetA).String(),
		WithdrawerCustodyB:     DeriveCustodyAddress(withdrawer, pool.AssetB).String(),
		WithdrawerShareAccount: DeriveCustodyAddress(withdrawer, pool.ShareAsset).String(),
		PoolCustodyA:           pool.CustodyA,
		PoolCustodyB:           pool.CustodyB,
		ShareAmount:            shareAmount,
	}
}

// Route returns the message route.
func (msg MsgRemoveLiquidity) Route() string { return RouterKey }

// Type returns the message type.
func (msg MsgRemoveLiquidity) Type() string { return "remove_liquidity" }

// GetSequence returns the signer sequence the message was signed at.
func (msg MsgRemoveLiquidity) GetSequence() uint64 { return msg.Sequence }

// GetSigners returns the identity that must sign the message.
func (msg MsgRemoveLiquidity) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{sdk.MustAccAddressFromBech32(msg.Withdrawer)}
}

// GetSignBytes returns the canonical bytes covered by the signature.
func (msg MsgRemoveLiquidity) GetSignBytes() []byte {
	msg.Signature = Signature{}
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(&msg))
}

// ValidateBasic performs stateless validation.
func (msg MsgRemoveLiquidity) ValidateBasic() error {
	if err := validateAddresses(map[string]string{
		"withdrawer":               msg.Withdrawer,
		"pool":                     msg.Pool,
		"withdrawer custody A":     msg.WithdrawerCustodyA,
		"withdrawer custody B":     msg.WithdrawerCustodyB,
		"withdrawer share account": msg.WithdrawerShareAccount,
		"pool custody A":           msg.PoolCustodyA,
		"pool custody B":           msg.PoolCustodyB,
	}); err != nil {
		return err
	}
	if msg.ShareAmount == 0 {
		return errorsmod.Wrap(ErrInvalidAmount, "share amount must be positive")
	}
	return nil
}

// MsgSwap sells AmountIn of InputAsset to the pool for the other asset.
type MsgSwap struct {
	Trader           string    `json:"trader"`
	Pool             string    `json:"pool"`
	InputAsset       string    `json:"input_asset"`
	TraderCustodyIn  string    `json:"trader_custody_in"`
	TraderCustodyOut string    `json:"trader_custody_out"`
	PoolCustodyIn    string    `json:"pool_custody_in"`
	PoolCustodyOut   string    `json:"pool_custody_out"`
	AmountIn         uint64    `json:"amount_in"`
	MinAmountOut     uint64    `json:"min_amount_out"`
	Sequence         uint64    `json:"sequence"`
	Signature        Signature `json:"signature"`
}

// MsgSwapResponse reports the output paid to the trader.
type MsgSwapResponse struct {
	AmountOut uint64 `json:"amount_out"`
}

// NewMsgSwap creates an unsigned swap against pool. The custody accounts are
// filled in for inputAsset; an asset the pool does not trade gets the trader's
// custody account for that asset on both sides, which the pool rejects.
func NewMsgSwap(trader sdk.AccAddress, pool Pool, inputAsset string, amountIn, minAmountOut uint64) *MsgSwap {
	outputAsset := pool.CounterAsset(inputAsset)
	poolAddr := DerivePoolAddress(pool.AssetA, pool.AssetB)
	return &MsgSwap{
		Trader:           trader.String(),
		Pool:             pool.Address,
		InputAsset:       inputAsset,
		TraderCustodyIn:  DeriveCustodyAddress(trader, inputAsset).String(),
		TraderCustodyOut: DeriveCustodyAddress(trader, outputAsset).String(),
		PoolCustodyIn:    DeriveCustodyAddress(poolAddr, inputAsset).String(),
		PoolCustodyOut:   DeriveCustodyAddress(poolAddr, outputAsset).String(),
		AmountIn:         amountIn,
		MinAmountOut:     minAmountOut,
	}
}

// Route returns the message route.
func (msg MsgSwap) Route() string { return RouterKey }

// Type returns the message type.
func (msg MsgSwap) Type() string { return "swap" }

// GetSequence returns the signer sequence the message was signed at.
func (msg MsgSwap) GetSequence() uint64 { return msg.Sequence }

// GetSigners returns the identity that must sign the message.
func (msg MsgSwap) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{sdk.MustAccAddressFromBech32(msg.Trader)}
}

// GetSignBytes returns the canonical bytes covered by the signature.
func (msg MsgSwap) GetSignBytes() []byte {
	msg.Signature = Signature{}
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(&msg))
}

// ValidateBasic performs stateless validation.
func (msg MsgSwap) ValidateBasic() error {
	if err := validateAddresses(map[string]string{
		"trader":             msg.Trader,
		"pool":               msg.Pool,
		"trader custody in":  msg.TraderCustodyIn,
		"trader custody out": msg.TraderCustodyOut,
		"pool custody in":    msg.PoolCustodyIn,
		"pool custody out":   msg.PoolCustodyOut,
	}); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(msg.InputAsset); err != nil {
		return errorsmod.Wrapf(ErrInvalidAsset, "input asset: %s", err)
	}
	if msg.AmountIn == 0 {
		return errorsmod.Wrap(ErrInvalidAmount, "amount in must be positive")
	}
	return nil
}

func validateAddresses(addrs map[string]string) error {
	for name, addr := range addrs {
		if _, err := sdk.AccAddressFromBech32(addr); err != nil {
			return errorsmod.Wrapf(ErrInvalidAddress, "invalid %s address: %s", name, err)
		}
	}
	return nil
}
