package osqrt_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shogo82148/osqrt"
	"github.com/shogo82148/osqrt/plain"
)

func TestDecompose(t *testing.T) {
	tests := []struct {
		x    uint64
		want uint32
	}{
		{1, 0x3f800000},
		{2, 0x40000000},
		{3, 0x40400000},
		{36, 0x42100000},
		{1 << 23, 0x4b000000},
		{1<<24 - 1, 0x4b7fffff},
	}

	for _, conv := range []osqrt.ScanConvention{osqrt.ScanInclusive, osqrt.ScanExclusive} {
		for _, r := range runners(t, 32, osqrt.WithScanConvention(conv)) {
			for _, tt := range tests {
				got, err := r.decompose(tt.x)
				require.NoError(t, err)
				assert.Equalf(t, uint64(tt.want), got, "%s/%s: Decompose(%d)", r.name, conv, tt.x)
			}
		}
	}
}

func TestDecompose_Fields(t *testing.T) {
	k, err := osqrt.New[uint64, bool](plain.Uint32())
	require.NoError(t, err)

	f, err := k.Decompose(36)
	require.NoError(t, err)
	assert.Equal(t, osqrt.DecomposedFloat[uint64]{Sign: 0, Exponent: 132, Mantissa: 0x100000}, f)
	assert.Equal(t, f, k.Unpack(k.Recompose(f)))
}

func TestDecompose_Invalid(t *testing.T) {
	k, err := osqrt.New[uint64, bool](plain.Uint32())
	require.NoError(t, err)

	_, err = k.Decompose(0)
	require.ErrorIs(t, err, osqrt.ErrZeroInput)
	var inputErr *osqrt.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "decompose", inputErr.Op)
	assert.EqualError(t, err, "decompose: osqrt: zero input")

	_, err = k.Decompose(1 << 24)
	assert.ErrorIs(t, err, osqrt.ErrWidthOverflow)
}

func TestDecomposeChecked(t *testing.T) {
	tests := []struct {
		x     uint64
		want  uint32
		fault osqrt.Fault
	}{
		{36, 0x42100000, osqrt.FaultNone},
		{0, 0, osqrt.FaultZeroInput},
		{1 << 24, 0, osqrt.FaultWidthOverflow},
		{1<<32 - 1, 0, osqrt.FaultWidthOverflow},
	}
	for _, r := range runners(t, 32) {
		for _, tt := range tests {
			got, fault := r.decomposeChecked(tt.x)
			assert.Equalf(t, tt.fault, fault, "%s: DecomposeChecked(%d)", r.name, tt.x)
			if tt.fault == osqrt.FaultNone {
				assert.Equalf(t, uint64(tt.want), got, "%s: DecomposeChecked(%d)", r.name, tt.x)
			}
		}
	}
}

func TestDecomposeSigned(t *testing.T) {
	tests := []struct {
		x    int64
		want float32
	}{
		{36, 36},
		{-36, -36},
		{-1, -1},
		{1<<24 - 1, 1<<24 - 1},
		{-(1<<24 - 1), -(1<<24 - 1)},
	}
	for _, r := range runners(t, 64) {
		for _, tt := range tests {
			got, err := r.decomposeSigned(uint64(tt.x))
			require.NoError(t, err)
			assert.Equalf(t, uint64(math.Float32bits(tt.want)), got, "%s: DecomposeSigned(%d)", r.name, tt.x)
		}
	}

	k, err := osqrt.New[uint64, bool](plain.Uint64())
	require.NoError(t, err)
	_, err = k.DecomposeSigned(0)
	assert.ErrorIs(t, err, osqrt.ErrZeroInput)
	neg := int64(-1 << 24)
	_, err = k.DecomposeSigned(uint64(neg))
	assert.ErrorIs(t, err, osqrt.ErrWidthOverflow)
}

// Every integer below 2^24 is a float32, so the conversion must be exact.
func TestDecompose_MatchesConversion(t *testing.T) {
	for _, r := range runners(t, 32) {
		check := func(x uint64) {
			got, err := r.decompose(x)
			require.NoError(t, err)
			if want := uint64(math.Float32bits(float32(x))); got != want {
				t.Fatalf("%s: Decompose(%d) = %#x, want %#x", r.name, x, got, want)
			}
		}
		for x := uint64(1); x < 1<<14; x++ {
			check(x)
		}
		rnd := newXorshift32()
		for i := 0; i < 5000; i++ {
			if x := uint64(rnd.Uint32() >> 8); x != 0 {
				check(x)
			}
		}
	}
}

func TestRecompose(t *testing.T) {
	k, err := osqrt.New[uint64, bool](plain.Uint32())
	require.NoError(t, err)

	tests := []struct {
		f    osqrt.DecomposedFloat[uint64]
		want uint64
	}{
		{osqrt.DecomposedFloat[uint64]{Sign: 0, Exponent: 127, Mantissa: 0}, 0x3f800000},
		{osqrt.DecomposedFloat[uint64]{Sign: 1, Exponent: 132, Mantissa: 0x100000}, 0xc2100000},
		{osqrt.DecomposedFloat[uint64]{Sign: 0, Exponent: 255, Mantissa: 0x7fffff}, 0x7fffffff},
		// oversized fields are truncated
		{osqrt.DecomposedFloat[uint64]{Sign: 3, Exponent: 0x180, Mantissa: 0xffffffff}, 0xc07fffff},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, k.Recompose(tt.f), "Recompose(%+v)", tt.f)
	}
}

func TestUnpack_RoundTrip(t *testing.T) {
	k, err := osqrt.New[uint64, bool](plain.Uint32())
	require.NoError(t, err)

	rnd := newXorshift32()
	for i := 0; i < 10000; i++ {
		w := uint64(rnd.Uint32())
		f := k.Unpack(w)
		require.Equal(t, w, k.Recompose(f))

		word := osqrt.FromBits(uint32(w))
		assert.Equal(t, uint64(word.Sign()), k.ExtractSign(w))
		assert.Equal(t, uint64(word.Mantissa()), k.MantissaRaw(w))
		assert.Equal(t, uint64(word.Significand()), k.Significand(w))
		assert.Equal(t, int32(word.Exponent()), int32(uint32(k.ExtractExponent(w))))
	}
}

func TestExtractExponent(t *testing.T) {
	k, err := osqrt.New[uint64, bool](plain.Uint64())
	require.NoError(t, err)

	assert.Equal(t, uint64(5), k.ExtractExponent(0x42100000))
	assert.Equal(t, uint64(0), k.ExtractExponent(0x3f800000))
	assert.Equal(t, int64(-1), int64(k.ExtractExponent(0x3f000000)))
	assert.Equal(t, int64(-127), int64(k.ExtractExponent(0)))
}
