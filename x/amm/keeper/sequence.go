package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// GetSequence returns the sequence signer's next message must be signed at.
// Signers that never had a message accepted are at zero.
func (k Keeper) GetSequence(ctx context.Context, signer sdk.AccAddress) uint64 {
	bz := k.getStore(ctx).Get(types.SequenceKey(signer))
	if bz == nil {
		return 0
	}
	return sdk.BigEndianToUint64(bz)
}

// SetSequence stores signer's next expected sequence.
func (k Keeper) SetSequence(ctx context.Context, signer sdk.AccAddress, sequence uint64) {
	k.getStore(ctx).Set(types.SequenceKey(signer), sdk.Uint64ToBigEndian(sequence))
}

// IterateSequences calls cb for every stored signer sequence.
func (k Keeper) IterateSequences(ctx context.Context, cb func(signer sdk.AccAddress, sequence uint64) (stop bool)) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.SequenceKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		// key: prefix | len | address
		key := iterator.Key()[len(types.SequenceKeyPrefix):]
		if len(key) == 0 || int(key[0]) != len(key)-1 {
			continue
		}
		if cb(sdk.AccAddress(key[1:]), sdk.BigEndianToUint64(iterator.Value())) {
			break
		}
	}
}

// consumeSequence advances signer past the sequence it just used.
func (k Keeper) consumeSequence(ctx context.Context, signer sdk.AccAddress, used uint64) {
	unlock := k.locks.lockStore()
	defer unlock()

	k.SetSequence(ctx, signer, used+1)
}
