package keeper

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// ledgerErr wraps a failure reported by the custody ledger.
func ledgerErr(err error, format string, args ...any) error {
	return types.ErrLedger.Wrapf("%s: %v", fmt.Sprintf(format, args...), err)
}

// outcomeLabel maps an operation result onto a bounded metrics label.
func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	codespace, code, _ := errorsmod.ABCIInfo(err, false)
	return fmt.Sprintf("%s:%d", codespace, code)
}
