package modarith_test

import (
	"math"
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/mrsa/pkg/modarith"
)

type refOp func(z, a, b, m *big.Int) *big.Int

func bigRef(op refOp, a, b, m uint64) uint64 {
	ba := new(big.Int).SetUint64(a)
	bb := new(big.Int).SetUint64(b)
	bm := new(big.Int).SetUint64(m)
	z := op(new(big.Int), ba, bb, bm)
	return z.Mod(z, bm).Uint64()
}

var (
	refAdd refOp = func(z, a, b, m *big.Int) *big.Int { return z.Add(a, b) }
	refSub refOp = func(z, a, b, m *big.Int) *big.Int { return z.Sub(a, b) }
	refMul refOp = func(z, a, b, m *big.Int) *big.Int { return z.Mul(a, b) }
	refPow refOp = func(z, a, b, m *big.Int) *big.Int { return z.Exp(a, b, m) }
)

// edgeTriples stress the boundaries where a naive implementation overflows.
var edgeTriples = [][3]uint64{
	{0, 0, 1},
	{1, 1, 2},
	{math.MaxUint64, math.MaxUint64, math.MaxUint64},
	{math.MaxUint64, math.MaxUint64, math.MaxUint64 - 1},
	{math.MaxUint64 - 1, math.MaxUint64 - 2, math.MaxUint64},
	{1 << 63, 1 << 63, math.MaxUint64},
	{1 << 63, 1 << 63, (1 << 63) + 1},
	{(1 << 63) - 1, (1 << 63) + 5, 1 << 63},
	{12345, 67890, 1},
	{0, math.MaxUint64, 97},
	{math.MaxUint64, 0, 97},
	{3037000507, 3037000537, 9223372170628272259},
	{18446744073709551557, 2, 18446744073709551557},
	{7, 3, 10},
}

func TestAdd(t *testing.T) {
	for _, tc := range edgeTriples {
		a, b, m := tc[0], tc[1], tc[2]
		assert.Equal(t, bigRef(refAdd, a, b, m), modarith.Add(a, b, m), "Add(%d, %d, %d)", a, b, m)
	}
}

func TestSub(t *testing.T) {
	for _, tc := range edgeTriples {
		a, b, m := tc[0], tc[1], tc[2]
		assert.Equal(t, bigRef(refSub, a, b, m), modarith.Sub(a, b, m), "Sub(%d, %d, %d)", a, b, m)
	}
	assert.Equal(t, uint64(7), modarith.Sub(3, 6, 10))
}

func TestMul(t *testing.T) {
	for _, tc := range edgeTriples {
		a, b, m := tc[0], tc[1], tc[2]
		assert.Equal(t, bigRef(refMul, a, b, m), modarith.Mul(a, b, m), "Mul(%d, %d, %d)", a, b, m)
	}
}

func TestPow(t *testing.T) {
	for _, tc := range edgeTriples {
		a, b, m := tc[0], tc[1], tc[2]
		assert.Equal(t, bigRef(refPow, a, b, m), modarith.Pow(a, b, m), "Pow(%d, %d, %d)", a, b, m)
	}

	assert.Equal(t, uint64(1), modarith.Pow(0, 0, 7))
	assert.Equal(t, uint64(0), modarith.Pow(5, 0, 1))
	assert.Equal(t, uint64(4260624984792352302), modarith.Pow(12345, 65537, 9223372170628272259))
}

func TestArithmetic_RandomAgainstBig(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 2000; i++ {
		a, b := r.Uint64(), r.Uint64()
		m := r.Uint64()
		if i%3 == 0 {
			m >>= r.IntN(63)
		}
		if m == 0 {
			m = 1
		}
		require.Equal(t, bigRef(refAdd, a, b, m), modarith.Add(a, b, m), "Add(%d, %d, %d)", a, b, m)
		require.Equal(t, bigRef(refSub, a, b, m), modarith.Sub(a, b, m), "Sub(%d, %d, %d)", a, b, m)
		require.Equal(t, bigRef(refMul, a, b, m), modarith.Mul(a, b, m), "Mul(%d, %d, %d)", a, b, m)
		if i%4 == 0 {
			require.Equal(t, bigRef(refPow, a, b, m), modarith.Pow(a, b, m), "Pow(%d, %d, %d)", a, b, m)
		}
	}
}

func TestZeroModulusPanics(t *testing.T) {
	assert.PanicsWithValue(t, "modarith: zero modulus", func() { modarith.Add(1, 2, 0) })
	assert.PanicsWithValue(t, "modarith: zero modulus", func() { modarith.Sub(1, 2, 0) })
	assert.PanicsWithValue(t, "modarith: zero modulus", func() { modarith.Mul(1, 2, 0) })
	assert.PanicsWithValue(t, "modarith: zero modulus", func() { modarith.Pow(1, 2, 0) })
	assert.PanicsWithValue(t, "modarith: zero modulus", func() { modarith.Inverse(1, 0) })
}

func TestGCDAndLCM(t *testing.T) {
	assert.Equal(t, uint64(6), modarith.GCD(54, 24))
	assert.Equal(t, uint64(1), modarith.GCD(65537, 2305843067195752668))
	assert.Equal(t, uint64(9), modarith.GCD(0, 9))
	assert.Equal(t, uint64(0), modarith.GCD(0, 0))

	assert.Equal(t, uint64(216), modarith.LCM(54, 24))
	assert.Equal(t, uint64(0), modarith.LCM(0, 5))
	assert.Equal(t, uint64(2305843067195752668), modarith.LCM(2147483658, 2147483692))
}

func FuzzMul(f *testing.F) {
	f.Add(uint64(math.MaxUint64), uint64(math.MaxUint64), uint64(math.MaxUint64-1))
	f.Add(uint64(1<<63), uint64(3), uint64(1<<63+1))
	f.Fuzz(func(t *testing.T, a, b, m uint64) {
		if m == 0 {
			t.Skip()
		}
		if got, want := modarith.Mul(a, b, m), bigRef(refMul, a, b, m); got != want {
			t.Fatalf("Mul(%d, %d, %d) = %d, want %d", a, b, m, got, want)
		}
		if got, want := modarith.Add(a, b, m), bigRef(refAdd, a, b, m); got != want {
			t.Fatalf("Add(%d, %d, %d) = %d, want %d", a, b, m, got, want)
		}
		if got, want := modarith.Sub(a, b, m), bigRef(refSub, a, b, m); got != want {
			t.Fatalf("Sub(%d, %d, %d) = %d, want %d", a, b, m, got, want)
		}
	})
}

func FuzzPow(f *testing.F) {
	f.Add(uint64(2), uint64(math.MaxUint64), uint64(18446744073709551557))
	f.Fuzz(func(t *testing.T, a, b, m uint64) {
		if m == 0 {
			t.Skip()
		}
		if got, want := modarith.Pow(a, b, m), bigRef(refPow, a, b, m); got != want {
			t.Fatalf("Pow(%d, %d, %d) = %d, want %d", a, b, m, got, want)
		}
	})
}
