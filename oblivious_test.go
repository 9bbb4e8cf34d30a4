package osqrt_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shogo82148/osqrt"
	"github.com/shogo82148/osqrt/opaque"
	"github.com/shogo82148/osqrt/plain"
)

func TestNew(t *testing.T) {
	_, server, err := opaque.GenerateKeys(64)
	require.NoError(t, err)

	k, err := osqrt.New[opaque.Cipher, opaque.CipherBit](server)
	require.NoError(t, err)
	assert.Equal(t, osqrt.Oblivious, k.Strategy())
	assert.False(t, k.Transparent())

	_, err = osqrt.New[opaque.Cipher, opaque.CipherBit](server, osqrt.WithStrategy(osqrt.EarlyExit))
	assert.ErrorIs(t, err, osqrt.ErrOpaqueBranch)

	p, err := osqrt.New[uint64, bool](plain.Uint64())
	require.NoError(t, err)
	assert.Equal(t, osqrt.EarlyExit, p.Strategy())
	assert.True(t, p.Transparent())

	p, err = osqrt.New[uint64, bool](plain.Uint64(), osqrt.WithStrategy(osqrt.Oblivious))
	require.NoError(t, err)
	assert.Equal(t, osqrt.Oblivious, p.Strategy())

	narrow, err := plain.New(16)
	require.NoError(t, err)
	_, err = osqrt.New[uint64, bool](narrow)
	assert.ErrorIs(t, err, osqrt.ErrWidthOverflow)

	_, err = osqrt.New[uint64, bool](plain.Uint64(), osqrt.WithStrategy(osqrt.Strategy(7)))
	assert.Error(t, err)
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []osqrt.Strategy{osqrt.Auto, osqrt.EarlyExit, osqrt.Oblivious} {
		got, err := osqrt.ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := osqrt.ParseStrategy("lazy")
	assert.Error(t, err)

	for _, c := range []osqrt.ScanConvention{osqrt.ScanInclusive, osqrt.ScanExclusive} {
		got, err := osqrt.ParseScanConvention(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err = osqrt.ParseScanConvention("half-open")
	assert.Error(t, err)
}

func TestFault(t *testing.T) {
	assert.NoError(t, osqrt.FaultNone.Err())
	assert.ErrorIs(t, osqrt.FaultZeroInput.Err(), osqrt.ErrZeroInput)
	assert.ErrorIs(t, osqrt.FaultNegativeInput.Err(), osqrt.ErrNegativeInput)
	assert.ErrorIs(t, osqrt.FaultWidthOverflow.Err(), osqrt.ErrWidthOverflow)
	assert.Error(t, osqrt.Fault(42).Err())
	assert.Equal(t, "negative input", osqrt.FaultNegativeInput.String())
	assert.Equal(t, "Fault(42)", osqrt.Fault(42).String())
}

func TestInputError(t *testing.T) {
	err := error(&osqrt.InputError{Op: "fsqrt", Err: osqrt.ErrNegativeInput})
	assert.EqualError(t, err, "fsqrt: osqrt: negative input")
	assert.True(t, errors.Is(err, osqrt.ErrNegativeInput))
}

// counted runs fn on a fresh counting kernel and returns the operation counts.
func counted(t *testing.T, opts []osqrt.Option, fn func(k *osqrt.Kernel[uint64, bool])) map[string]int64 {
	t.Helper()
	c := opaque.NewCounter[uint64, bool](plain.Uint64())
	k, err := osqrt.New[uint64, bool](c, opts...)
	require.NoError(t, err)
	require.Equal(t, osqrt.Oblivious, k.Strategy())
	fn(k)
	return c.Counts()
}

// sameTrace asserts that every input makes the same operations.
func sameTrace(t *testing.T, name string, opts []osqrt.Option, inputs []uint64, fn func(k *osqrt.Kernel[uint64, bool], x uint64)) {
	t.Helper()
	var first map[string]int64
	for i, x := range inputs {
		counts := counted(t, opts, func(k *osqrt.Kernel[uint64, bool]) { fn(k, x) })
		require.NotEmptyf(t, counts, "%s(%#x)", name, x)
		if i == 0 {
			first = counts
			continue
		}
		assert.Equalf(t, first, counts, "%s(%#x) and %s(%#x) differ", name, inputs[0], name, x)
	}
}

func TestOblivious(t *testing.T) {
	for _, conv := range []osqrt.ScanConvention{osqrt.ScanInclusive, osqrt.ScanExclusive} {
		opts := []osqrt.Option{osqrt.WithScanConvention(conv)}

		sameTrace(t, "FindOrder", opts, []uint64{0, 1, 36, 1 << 40, ^uint64(0)}, func(k *osqrt.Kernel[uint64, bool], x uint64) {
			_, err := k.FindOrder(x, 32)
			require.NoError(t, err)
		})

		sameTrace(t, "LeadingBitShift", opts, []uint64{0, 1, 36, 1 << 23, 1<<24 - 1}, func(k *osqrt.Kernel[uint64, bool], x uint64) {
			_, err := k.LeadingBitShift(x, 23)
			require.NoError(t, err)
		})

		// the order is public; the radicand is not
		sameTrace(t, "IntegerSqrt", opts, []uint64{0, 1 << 46, 1<<46 + 1, 9 << 44, 1<<48 - 1}, func(k *osqrt.Kernel[uint64, bool], x uint64) {
			_, err := k.IntegerSqrt(x, 23)
			require.NoError(t, err)
		})

		sameTrace(t, "DecomposeChecked", opts, []uint64{0, 1, 36, 1<<24 - 1, 1 << 30}, func(k *osqrt.Kernel[uint64, bool], x uint64) {
			f, _ := k.DecomposeChecked(x)
			k.Recompose(f)
		})

		sameTrace(t, "DecomposeSignedChecked", opts, []uint64{0, 36, uint64(1<<64 - 36), 1 << 63}, func(k *osqrt.Kernel[uint64, bool], x uint64) {
			f, _ := k.DecomposeSignedChecked(x)
			k.Recompose(f)
		})

		sameTrace(t, "FloatSqrtChecked", opts, []uint64{0, 0x3f800000, 0x40000000, 0x42100000, 0xc2100000, 0x7f7fffff}, func(k *osqrt.Kernel[uint64, bool], x uint64) {
			_, _, err := k.FloatSqrtChecked(x)
			require.NoError(t, err)
		})
	}
}

func TestOblivious_ScanLength(t *testing.T) {
	inclusive := counted(t, nil, func(k *osqrt.Kernel[uint64, bool]) {
		_, err := k.LeadingBitShift(36, 23)
		require.NoError(t, err)
	})
	exclusive := counted(t, []osqrt.Option{osqrt.WithScanConvention(osqrt.ScanExclusive)}, func(k *osqrt.Kernel[uint64, bool]) {
		_, err := k.LeadingBitShift(36, 23)
		require.NoError(t, err)
	})
	// one iteration fewer, one select more to finish the normalization
	assert.Equal(t, int64(24), inclusive["shl"]-1)
	assert.Equal(t, int64(23), exclusive["shl"]-2)
	assert.Equal(t, inclusive["select"], exclusive["select"])
}
