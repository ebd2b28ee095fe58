package keeper

import (
	"math/bits"

	"cosmossdk.io/math"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// SafeMath provides overflow-checked uint64 arithmetic for every pool
// mutation. Nothing here wraps or truncates silently.

// SafeAdd adds two uint64 values with overflow checking
func SafeAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, types.ErrArithmeticOverflow.Wrapf("%d + %d", a, b)
	}
	return sum, nil
}

// SafeSub subtracts b from a with underflow checking
func SafeSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, types.ErrArithmeticOverflow.Wrapf("%d - %d", a, b)
	}
	return diff, nil
}

// SafeMul multiplies two uint64 values with overflow checking
func SafeMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, types.ErrArithmeticOverflow.Wrapf("%d * %d", a, b)
	}
	return lo, nil
}

// SafeDiv divides a by b, rounding down
func SafeDiv(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, types.ErrDivisionByZero.Wrapf("%d / 0", a)
	}
	return a / b, nil
}

// SafeMulDiv computes floor(a * b / c). The product is held in 128 bits, so
// only a quotient that does not fit in 64 bits overflows.
func SafeMulDiv(a, b, c uint64) (uint64, error) {
	q, _, err := mulDivRem(a, b, c)
	return q, err
}

// SafeMulDivCeil computes ceil(a * b / c).
func SafeMulDivCeil(a, b, c uint64) (uint64, error) {
	q, rem, err := mulDivRem(a, b, c)
	if err != nil {
		return 0, err
	}
	if rem != 0 {
		return SafeAdd(q, 1)
	}
	return q, nil
}

func mulDivRem(a, b, c uint64) (uint64, uint64, error) {
	if c == 0 {
		return 0, 0, types.ErrDivisionByZero.Wrapf("%d * %d / 0", a, b)
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return 0, 0, types.ErrArithmeticOverflow.Wrapf("%d * %d / %d", a, b, c)
	}
	q, rem := bits.Div64(hi, lo, c)
	return q, rem, nil
}

// productGTE reports whether a1*a2*a3 >= b1*b2*b3 without overflow.
func productGTE(a1, a2, a3, b1, b2, b3 uint64) bool {
	lhs := math.NewIntFromUint64(a1).Mul(math.NewIntFromUint64(a2)).Mul(math.NewIntFromUint64(a3))
	rhs := math.NewIntFromUint64(b1).Mul(math.NewIntFromUint64(b2)).Mul(math.NewIntFromUint64(b3))
	return lhs.GTE(rhs)
}
