package types

import (
	"fmt"
	"math/bits"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Pool is the state record of a single constant-product market. Reserves,
// share supply and the cached invariant are whole units in each asset's native
// precision.
type Pool struct {
	Initialized bool   `json:"initialized"`
	Authority   string `json:"authority"`
	Address     string `json:"address"`
	AssetA      string `json:"asset_a"`
	AssetB      string `json:"asset_b"`
	ShareAsset  string `json:"share_asset"`
	CustodyA    string `json:"custody_a"`
	CustodyB    string `json:"custody_b"`
	ReserveA    uint64 `json:"reserve_a"`
	ReserveB    uint64 `json:"reserve_b"`
	ShareSupply uint64 `json:"share_supply"`
	Invariant   uint64 `json:"invariant"`
}

// NewPool builds an empty, initialized pool for the ordered pair
// (assetA, assetB). The pool address and its custody accounts are derived
// from the asset identifiers.
func NewPool(assetA, assetB, shareAsset string, authority sdk.AccAddress) Pool {
	poolAddr := DerivePoolAddress(assetA, assetB)
	return Pool{
		Initialized: true,
		Authority:   authority.String(),
		Address:     poolAddr.String(),
		AssetA:      assetA,
		AssetB:      assetB,
		ShareAsset:  shareAsset,
		CustodyA:    DeriveCustodyAddress(poolAddr, assetA).String(),
		CustodyB:    DeriveCustodyAddress(poolAddr, assetB).String(),
	}
}

// ValidateAssets checks that the three asset identifiers are valid denoms and
// pairwise distinct.
func ValidateAssets(assetA, assetB, shareAsset string) error {
	for _, denom := range []string{assetA, assetB, shareAsset} {
		if err := sdk.ValidateDenom(denom); err != nil {
			return ErrInvalidAsset.Wrapf("%q: %v", denom, err)
		}
	}
	if assetA == assetB {
		return ErrInvalidAsset.Wrap("pool assets must differ")
	}
	if shareAsset == assetA || shareAsset == assetB {
		return ErrInvalidAsset.Wrap("share asset must differ from both pool assets")
	}
	return nil
}

// Validate checks the structural invariants of a pool record.
func (p Pool) Validate() error {
	if !p.Initialized {
		return ErrInvalidPoolState.Wrap("pool is not initialized")
	}
	if err := ValidateAssets(p.AssetA, p.AssetB, p.ShareAsset); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(p.Authority); err != nil {
		return ErrInvalidAddress.Wrapf("authority: %v", err)
	}

	poolAddr := DerivePoolAddress(p.AssetA, p.AssetB)
	if p.Address != poolAddr.String() {
		return ErrInvalidPoolState.Wrapf("pool address %s does not match derived %s", p.Address, poolAddr)
	}
	if p.CustodyA != DeriveCustodyAddress(poolAddr, p.AssetA).String() ||
		p.CustodyB != DeriveCustodyAddress(poolAddr, p.AssetB).String() {
		return ErrInvalidPoolState.Wrap("custody accounts do not match pool address")
	}

	hi, lo := bits.Mul64(p.ReserveA, p.ReserveB)
	if hi != 0 || lo != p.Invariant {
		return ErrInvariantViolation.Wrapf("cached invariant %d != %d * %d", p.Invariant, p.ReserveA, p.ReserveB)
	}

	// Shares are outstanding exactly when both reserves are non-zero.
	empty := p.ReserveA == 0 && p.ReserveB == 0
	if (p.ShareSupply == 0) != empty {
		return ErrInvalidPoolState.Wrapf("share supply %d inconsistent with reserves %d/%d",
			p.ShareSupply, p.ReserveA, p.ReserveB)
	}
	if !empty && (p.ReserveA == 0 || p.ReserveB == 0) {
		return ErrInvalidPoolState.Wrapf("one-sided reserves %d/%d", p.ReserveA, p.ReserveB)
	}
	return nil
}

// IsEmpty reports whether the pool holds no liquidity.
func (p Pool) IsEmpty() bool {
	return p.ShareSupply == 0 && p.ReserveA == 0 && p.ReserveB == 0
}

// HasAsset reports whether asset is one of the pool's tradable assets.
func (p Pool) HasAsset(asset string) bool {
	return asset == p.AssetA || asset == p.AssetB
}

// Reserves returns (reserveIn, reserveOut) for a trade that sells asset into
// the pool.
func (p Pool) Reserves(asset string) (reserveIn, reserveOut uint64, err error) {
	switch asset {
	case p.AssetA:
		return p.ReserveA, p.ReserveB, nil
	case p.AssetB:
		return p.ReserveB, p.ReserveA, nil
	default:
		return 0, 0, ErrWrongInputToken.Wrapf("%s is not traded by pool %s/%s", asset, p.AssetA, p.AssetB)
	}
}

// CounterAsset returns the pool asset on the other side of asset.
func (p Pool) CounterAsset(asset string) string {
	if asset == p.AssetA {
		return p.AssetB
	}
	return p.AssetA
}

// PoolAddress returns the pool's address.
func (p Pool) PoolAddress() sdk.AccAddress {
	return sdk.MustAccAddressFromBech32(p.Address)
}

// CustodyAccount returns the pool-owned custody account for asset.
func (p Pool) CustodyAccount(asset string) (sdk.AccAddress, error) {
	switch asset {
	case p.AssetA:
		return sdk.AccAddressFromBech32(p.CustodyA)
	case p.AssetB:
		return sdk.AccAddressFromBech32(p.CustodyB)
	default:
		return nil, ErrWrongInputToken.Wrapf("pool %s has no custody account for %s", p.Address, asset)
	}
}

// String implements fmt.Stringer.
func (p Pool) String() string {
	return fmt.Sprintf("pool %s [%s/%s] reserves=%d/%d shares=%d(%s) k=%d",
		p.Address, p.AssetA, p.AssetB, p.ReserveA, p.ReserveB, p.ShareSupply, p.ShareAsset, p.Invariant)
}
