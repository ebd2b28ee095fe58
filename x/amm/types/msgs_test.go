package types_test

import (
	"testing"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/cpamm/x/amm/types"
)

func TestMsgValidateBasic(t *testing.T) {
	user := testAddress()
	pool := types.NewPool("atoken", "btoken", "lpab", testAddress())

	tests := []struct {
		name     string
		msg      interface{ ValidateBasic() error }
		expected error
	}{
		{name: "initialize", msg: types.NewMsgInitializePool(user, "atoken", "btoken", "lpab")},
		{name: "initialize bad authority", msg: &types.MsgInitializePool{Authority: "x", AssetA: "atoken", AssetB: "btoken", ShareAsset: "lpab"}, expected: types.ErrInvalidAddress},
		{name: "initialize same assets", msg: types.NewMsgInitializePool(user, "atoken", "atoken", "lpab"), expected: types.ErrInvalidAsset},
		{name: "add", msg: types.NewMsgAddLiquidity(user, pool, 1, 1)},
		{name: "add zero", msg: types.NewMsgAddLiquidity(user, pool, 0, 1), expected: types.ErrInvalidAmount},
		{name: "remove", msg: types.NewMsgRemoveLiquidity(user, pool, 1)},
		{name: "remove zero", msg: types.NewMsgRemoveLiquidity(user, pool, 0), expected: types.ErrInvalidAmount},
		{name: "swap", msg: types.NewMsgSwap(user, pool, "atoken", 1, 0)},
		{name: "swap zero", msg: types.NewMsgSwap(user, pool, "atoken", 0, 0), expected: types.ErrInvalidAmount},
		{name: "swap bad asset", msg: types.NewMsgSwap(user, pool, "!", 1, 0), expected: types.ErrInvalidAsset},
		{name: "swap bad pool", msg: &types.MsgSwap{Trader: user.String(), Pool: "bad"}, expected: types.ErrInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.ValidateBasic()
			if tt.expected == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestSignBytesExcludeSignature(t *testing.T) {
	priv := secp256k1.GenPrivKey()
	trader := sdk.AccAddress(priv.PubKey().Address())
	pool := types.NewPool("atoken", "btoken", "lpab", testAddress())

	msg := types.NewMsgSwap(trader, pool, "atoken", 500, 600)
	unsigned := msg.GetSignBytes()

	sig, err := types.Sign(priv, msg)
	require.NoError(t, err)
	msg.Signature = sig

	require.Equal(t, unsigned, msg.GetSignBytes())

	msg.Sequence = 1
	require.NotEqual(t, unsigned, msg.GetSignBytes())
	msg.Sequence = 0
	require.Equal(t, []sdk.AccAddress{trader}, msg.GetSigners())
	require.Equal(t, types.RouterKey, msg.Route())
	require.Equal(t, "swap", msg.Type())
}

func TestSignatureVerification(t *testing.T) {
	priv := secp256k1.GenPrivKey()
	signer := sdk.AccAddress(priv.PubKey().Address())
	pool := types.NewPool("atoken", "btoken", "lpab", testAddress())
	verifier := types.Secp256k1Verifier{}

	msg := types.NewMsgAddLiquidity(signer, pool, 1000, 2000)
	sig, err := types.Sign(priv, msg)
	require.NoError(t, err)
	require.True(t, verifier.VerifySignature(signer, msg.GetSignBytes(), sig))

	// Another identity cannot claim the signature.
	require.False(t, verifier.VerifySignature(testAddress(), msg.GetSignBytes(), sig))

	// Tampering with the message invalidates it.
	msg.AmountB = 2001
	require.False(t, verifier.VerifySignature(signer, msg.GetSignBytes(), sig))

	require.False(t, verifier.VerifySignature(signer, msg.GetSignBytes(), types.Signature{}))
	require.True(t, types.Signature{}.IsEmpty())
}

func TestAccountDerivation(t *testing.T) {
	owner := testAddress()
	pool := types.NewPool("atoken", "btoken", "lpab", testAddress())

	liq := types.NewLiquidityAccounts(owner, pool)
	require.Equal(t, types.DeriveCustodyAddress(owner, "atoken"), liq.CustodyA)
	require.Equal(t, types.DeriveCustodyAddress(owner, "btoken"), liq.CustodyB)
	require.Equal(t, types.DeriveCustodyAddress(owner, "lpab"), liq.Shares)

	swap := types.NewSwapAccounts(owner, pool, "btoken")
	require.Equal(t, types.DeriveCustodyAddress(owner, "btoken"), swap.In)
	require.Equal(t, types.DeriveCustodyAddress(owner, "atoken"), swap.Out)

	msg := types.NewMsgSwap(owner, pool, "btoken", 1, 0)
	require.Equal(t, pool.CustodyB, msg.PoolCustodyIn)
	require.Equal(t, pool.CustodyA, msg.PoolCustodyOut)
}
