package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisState is the AMM module's genesis state.
type GenesisState struct {
	Pools     []Pool           `json:"pools"`
	Sequences []SignerSequence `json:"sequences"`
}

// SignerSequence is the next sequence a signer's messages must carry.
type SignerSequence struct {
	Signer   string `json:"signer"`
	Sequence uint64 `json:"sequence"`
}

// DefaultGenesis returns the default genesis state for the AMM module.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Pools:     []Pool{},
		Sequences: []SignerSequence{},
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	seen := make(map[string]struct{}, len(gs.Pools))
	for i, pool := range gs.Pools {
		if err := pool.Validate(); err != nil {
			return fmt.Errorf("pool %d (%s/%s): %w", i, pool.AssetA, pool.AssetB, err)
		}
		if _, dup := seen[pool.Address]; dup {
			return fmt.Errorf("duplicate pool %s for pair %s/%s", pool.Address, pool.AssetA, pool.AssetB)
		}
		seen[pool.Address] = struct{}{}
	}

	signers := make(map[string]struct{}, len(gs.Sequences))
	for i, seq := range gs.Sequences {
		if _, err := sdk.AccAddressFromBech32(seq.Signer); err != nil {
			return ErrInvalidAddress.Wrapf("sequence %d: %v", i, err)
		}
		if seq.Sequence == 0 {
			return fmt.Errorf("sequence %d for %s must be positive", i, seq.Signer)
		}
		if _, dup := signers[seq.Signer]; dup {
			return fmt.Errorf("duplicate sequence for signer %s", seq.Signer)
		}
		signers[seq.Signer] = struct{}{}
	}
	return nil
}
