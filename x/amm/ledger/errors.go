package ledger

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace is the error codespace of the store-backed ledger.
const Codespace = "ledger"

var (
	ErrInsufficientFunds = errorsmod.Register(Codespace, 2, "insufficient funds")
	ErrInvalidAmount     = errorsmod.Register(Codespace, 3, "invalid amount")
	ErrSupplyOverflow    = errorsmod.Register(Codespace, 4, "supply overflow")
	ErrSelfTransfer      = errorsmod.Register(Codespace, 5, "transfer within the same account")
	ErrInvalidAsset      = errorsmod.Register(Codespace, 6, "invalid asset")
	ErrInvalidAccount    = errorsmod.Register(Codespace, 7, "invalid account")
)
