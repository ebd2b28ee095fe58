package app

import (
	"encoding/json"

	"github.com/paw-chain/cpamm/x/amm"
	ammtypes "github.com/paw-chain/cpamm/x/amm/types"
)

// GenesisState represents the genesis state of an ammd node, keyed by module
// name.
type GenesisState map[string]json.RawMessage

// NewDefaultGenesisState generates the default genesis state: no pools.
func NewDefaultGenesisState() GenesisState {
	return GenesisState{
		ammtypes.ModuleName: amm.AppModuleBasic{}.DefaultGenesis(nil),
	}
}
