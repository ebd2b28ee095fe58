package keeper_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paw-chain/cpamm/x/amm/keeper"
	"github.com/paw-chain/cpamm/x/amm/types"
)

func TestSafeAdd(t *testing.T) {
	sum, err := keeper.SafeAdd(1000, 2000)
	require.NoError(t, err)
	require.Equal(t, uint64(3000), sum)

	_, err = keeper.SafeAdd(math.MaxUint64, 1)
	require.ErrorIs(t, err, types.ErrArithmeticOverflow)
}

func TestSafeSub(t *testing.T) {
	diff, err := keeper.SafeSub(2000, 500)
	require.NoError(t, err)
	require.Equal(t, uint64(1500), diff)

	_, err = keeper.SafeSub(1, 2)
	require.ErrorIs(t, err, types.ErrArithmeticOverflow)
}

func TestSafeMul(t *testing.T) {
	product, err := keeper.SafeMul(1000, 2000)
	require.NoError(t, err)
	require.Equal(t, uint64(2_000_000), product)

	_, err = keeper.SafeMul(math.MaxUint64/2+1, 2)
	require.ErrorIs(t, err, types.ErrArithmeticOverflow)

	product, err = keeper.SafeMul(math.MaxUint64, 0)
	require.NoError(t, err)
	require.Zero(t, product)
}

func TestSafeDiv(t *testing.T) {
	q, err := keeper.SafeDiv(7, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(3), q)

	_, err = keeper.SafeDiv(7, 0)
	require.ErrorIs(t, err, types.ErrDivisionByZero)
}

func TestSafeMulDiv(t *testing.T) {
	tests := []struct {
		name     string
		a, b, c  uint64
		floor    uint64
		ceil     uint64
		expected error
	}{
		{name: "exact", a: 500, b: 2000, c: 1000, floor: 1000, ceil: 1000},
		{name: "rounds", a: 1000, b: 2000, c: 1500, floor: 1333, ceil: 1334},
		{name: "wide intermediate", a: math.MaxUint64, b: math.MaxUint64, c: math.MaxUint64, floor: math.MaxUint64, ceil: math.MaxUint64},
		{name: "quotient overflow", a: math.MaxUint64, b: 2, c: 1, expected: types.ErrArithmeticOverflow},
		{name: "zero divisor", a: 1, b: 1, c: 0, expected: types.ErrDivisionByZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			floor, err := keeper.SafeMulDiv(tt.a, tt.b, tt.c)
			if tt.expected != nil {
				require.ErrorIs(t, err, tt.expected)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.floor, floor)
			}

			ceil, err := keeper.SafeMulDivCeil(tt.a, tt.b, tt.c)
			if tt.expected != nil {
				require.ErrorIs(t, err, tt.expected)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.ceil, ceil)
		})
	}
}
