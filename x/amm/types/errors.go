package types

import (
	errorsmod "cosmossdk.io/errors"
)

// AMM module sentinel errors
var (
	ErrArithmeticOverflow    = errorsmod.Register(ModuleName, 2, "arithmetic overflow")
	ErrDivisionByZero        = errorsmod.Register(ModuleName, 3, "division by zero")
	ErrInvariantViolation    = errorsmod.Register(ModuleName, 4, "constant product invariant violated")
	ErrWrongInputToken       = errorsmod.Register(ModuleName, 5, "wrong input token")
	ErrInsufficientShares    = errorsmod.Register(ModuleName, 6, "insufficient pool shares")
	ErrAccountMismatch       = errorsmod.Register(ModuleName, 7, "account does not belong to pool")
	ErrAlreadyInitialized    = errorsmod.Register(ModuleName, 8, "pool already initialized")
	ErrLedger                = errorsmod.Register(ModuleName, 9, "ledger operation failed")
	ErrPoolNotFound          = errorsmod.Register(ModuleName, 10, "pool not found")
	ErrInvalidAmount         = errorsmod.Register(ModuleName, 11, "invalid amount")
	ErrInvalidAsset          = errorsmod.Register(ModuleName, 12, "invalid asset")
	ErrUnauthorized          = errorsmod.Register(ModuleName, 13, "unauthorized")
	ErrSlippageExceeded      = errorsmod.Register(ModuleName, 14, "output amount below minimum")
	ErrInsufficientLiquidity = errorsmod.Register(ModuleName, 15, "insufficient liquidity in pool")
	ErrInvalidPoolState      = errorsmod.Register(ModuleName, 16, "invalid pool state")
	ErrInvalidAddress        = errorsmod.Register(ModuleName, 17, "invalid address")
)
