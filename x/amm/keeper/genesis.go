package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// InitGenesis initializes the amm module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid genesis state: %w", err)
	}

	for _, pool := range genState.Pools {
		if err := k.SetPool(ctx, pool); err != nil {
			return fmt.Errorf("failed to set pool %s: %w", pool.Address, err)
		}
		k.metrics.recordPool(pool)
	}
	for _, seq := range genState.Sequences {
		signer, err := sdk.AccAddressFromBech32(seq.Signer)
		if err != nil {
			return fmt.Errorf("failed to set sequence of %s: %w", seq.Signer, err)
		}
		k.SetSequence(ctx, signer, seq.Sequence)
	}
	return nil
}

// ExportGenesis returns the amm module's exported genesis
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	pools, err := k.GetAllPools(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export pools: %w", err)
	}

	genesis := types.DefaultGenesis()
	if pools != nil {
		genesis.Pools = pools
	}
	k.IterateSequences(ctx, func(signer sdk.AccAddress, sequence uint64) bool {
		genesis.Sequences = append(genesis.Sequences, types.SignerSequence{
			Signer:   signer.String(),
			Sequence: sequence,
		})
		return false
	})
	return genesis, nil
}
