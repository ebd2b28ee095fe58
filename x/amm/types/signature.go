package types

import (
	"bytes"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Signature is the proof attached to a message: a compressed secp256k1 public
// key and a signature over the message's sign bytes.
type Signature struct {
	PubKey    []byte `json:"pub_key"`
	Signature []byte `json:"signature"`
}

// IsEmpty reports whether no proof was attached.
func (s Signature) IsEmpty() bool {
	return len(s.PubKey) == 0 && len(s.Signature) == 0
}

// Secp256k1Verifier verifies secp256k1 signatures and binds the public key to
// the claimed identity through its account address.
type Secp256k1Verifier struct{}

var _ SignatureVerifier = Secp256k1Verifier{}

// VerifySignature implements SignatureVerifier.
func (Secp256k1Verifier) VerifySignature(identity sdk.AccAddress, signBytes []byte, sig Signature) bool {
	if len(sig.PubKey) != secp256k1.PubKeySize || len(sig.Signature) == 0 {
		return false
	}
	pubKey := &secp256k1.PubKey{Key: sig.PubKey}
	if !bytes.Equal(pubKey.Address(), identity) {
		return false
	}
	return pubKey.VerifySignature(signBytes, sig.Signature)
}

// Signable is implemented by every message the AMM accepts. The sign bytes
// cover the sequence, so a signature is good for exactly one sequence of its
// signer.
type Signable interface {
	GetSignBytes() []byte
	GetSequence() uint64
}

// Sign produces the Signature for msg with privKey.
func Sign(privKey *secp256k1.PrivKey, msg Signable) (Signature, error) {
	sig, err := privKey.Sign(msg.GetSignBytes())
	if err != nil {
		return Signature{}, err
	}
	return Signature{
		PubKey:    privKey.PubKey().Bytes(),
		Signature: sig,
	}, nil
}
