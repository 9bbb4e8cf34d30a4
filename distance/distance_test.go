package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shogo82148/osqrt"
	"github.com/shogo82148/osqrt/opaque"
	"github.com/shogo82148/osqrt/plain"
)

func newPlain(t *testing.T) *osqrt.Kernel[uint64, bool] {
	t.Helper()
	k, err := osqrt.New[uint64, bool](plain.Uint64())
	require.NoError(t, err)
	return k
}

func pt(x, y uint64) Point[uint64] {
	return Point[uint64]{X: x, Y: y}
}

func TestRadicand(t *testing.T) {
	k := newPlain(t)
	tests := []struct {
		a, b Point[uint64]
		want uint64
	}{
		{pt(0, 0), pt(3, 4), 25},
		{pt(3, 4), pt(0, 0), 25},
		{pt(10, 2), pt(4, 10), 100},
		{pt(5, 5), pt(5, 5), 0},
		{pt(0, 0), pt(1<<16-1, 1<<16-1), 2 * (1<<16 - 1) * (1<<16 - 1)},
		// coordinates are truncated to 16 bits
		{pt(1<<16, 0), pt(3, 4), 25},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, Radicand(k, tt.a, tt.b), "Radicand(%v, %v)", tt.a, tt.b)
	}
}

func TestBetween(t *testing.T) {
	k := newPlain(t)
	tests := []struct {
		a, b Point[uint64]
		want float32
	}{
		{pt(0, 0), pt(3, 4), 5},
		{pt(10, 2), pt(4, 10), 10},
		{pt(1, 1), pt(2, 2), float32(math.Sqrt2)},
		{pt(0, 0), pt(2048, 0), 2048},
	}
	for _, tt := range tests {
		got, err := Between(k, tt.a, tt.b)
		require.NoError(t, err)
		want := math.Float32bits(tt.want)
		// truncated root: never above the rounded one
		assert.Truef(t, got == uint64(want) || got+1 == uint64(want),
			"Between(%v, %v) = %#x, want %#x", tt.a, tt.b, got, want)
	}

	_, err := Between(k, pt(7, 7), pt(7, 7))
	assert.ErrorIs(t, err, osqrt.ErrZeroInput)

	_, err = Between(k, pt(0, 0), pt(4096, 0))
	assert.ErrorIs(t, err, osqrt.ErrWidthOverflow)
}

func TestBetweenChecked(t *testing.T) {
	client, server, err := opaque.GenerateKeys(64)
	require.NoError(t, err)
	k, err := osqrt.New[opaque.Cipher, opaque.CipherBit](server)
	require.NoError(t, err)

	enc := func(x, y uint64) Point[opaque.Cipher] {
		return Point[opaque.Cipher]{X: client.Encrypt(x), Y: client.Encrypt(y)}
	}
	dec := func(c opaque.Cipher) uint64 {
		v, err := client.Decrypt(c)
		require.NoError(t, err)
		return v
	}

	tests := []struct {
		a, b  Point[opaque.Cipher]
		want  uint32
		fault osqrt.Fault
	}{
		{enc(0, 0), enc(3, 4), 0x40a00000, osqrt.FaultNone},
		{enc(10, 2), enc(4, 10), 0x41200000, osqrt.FaultNone},
		{enc(7, 7), enc(7, 7), 0, osqrt.FaultZeroInput},
		{enc(0, 0), enc(4096, 0), 0, osqrt.FaultWidthOverflow},
	}
	for _, tt := range tests {
		dist, fault, err := BetweenChecked(k, tt.a, tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.fault, osqrt.Fault(dec(fault)))
		if tt.fault == osqrt.FaultNone {
			assert.Equal(t, uint64(tt.want), dec(dist))
		}
	}
}

func TestRadicand_Oblivious(t *testing.T) {
	counts := func(a, b Point[uint64]) map[string]int64 {
		c := opaque.NewCounter[uint64, bool](plain.Uint64())
		k, err := osqrt.New[uint64, bool](c)
		require.NoError(t, err)
		_, _, err = BetweenChecked(k, a, b)
		require.NoError(t, err)
		return c.Counts()
	}
	want := counts(pt(0, 0), pt(3, 4))
	assert.Equal(t, want, counts(pt(9, 9), pt(9, 9)))
	assert.Equal(t, want, counts(pt(1<<16-1, 0), pt(0, 1<<16-1)))
}
