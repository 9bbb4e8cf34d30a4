package osqrt_test

import (
	"testing"

	"github.com/shogo82148/osqrt"
	"github.com/shogo82148/osqrt/opaque"
	"github.com/shogo82148/osqrt/plain"
)

// runner exposes a kernel over plaintext uint64 inputs and outputs.
type runner struct {
	name  string
	width uint

	findOrder        func(x uint64, bound uint) (uint64, error)
	leadingBitShift  func(x uint64, width uint) (uint64, error)
	integerSqrt      func(x uint64, m uint) (uint64, error)
	decompose        func(x uint64) (uint64, error)
	decomposeSigned  func(x uint64) (uint64, error)
	decomposeChecked func(x uint64) (uint64, osqrt.Fault)
	floatSqrt        func(w uint64) (uint64, error)
	floatSqrtChecked func(w uint64) (uint64, osqrt.Fault, error)
}

func newRunner[V, B any](name string, k *osqrt.Kernel[V, B], enc func(uint64) V, dec func(V) uint64) runner {
	pack := func(f osqrt.DecomposedFloat[V], err error) (uint64, error) {
		if err != nil {
			return 0, err
		}
		return dec(k.Recompose(f)), nil
	}
	lift := func(v V, err error) (uint64, error) {
		if err != nil {
			return 0, err
		}
		return dec(v), nil
	}
	return runner{
		name:  name,
		width: k.Ops().Width(),
		findOrder: func(x uint64, bound uint) (uint64, error) {
			return lift(k.FindOrder(enc(x), bound))
		},
		leadingBitShift: func(x uint64, width uint) (uint64, error) {
			return lift(k.LeadingBitShift(enc(x), width))
		},
		integerSqrt: func(x uint64, m uint) (uint64, error) {
			return lift(k.IntegerSqrt(enc(x), m))
		},
		decompose: func(x uint64) (uint64, error) {
			return pack(k.Decompose(enc(x)))
		},
		decomposeSigned: func(x uint64) (uint64, error) {
			return pack(k.DecomposeSigned(enc(x)))
		},
		decomposeChecked: func(x uint64) (uint64, osqrt.Fault) {
			f, fault := k.DecomposeChecked(enc(x))
			return dec(k.Recompose(f)), osqrt.Fault(dec(fault))
		},
		floatSqrt: func(w uint64) (uint64, error) {
			return lift(k.FloatSqrt(enc(w)))
		},
		floatSqrtChecked: func(w uint64) (uint64, osqrt.Fault, error) {
			r, fault, err := k.FloatSqrtChecked(enc(w))
			if err != nil {
				return 0, 0, err
			}
			return dec(r), osqrt.Fault(dec(fault)), nil
		},
	}
}

func identity(v uint64) uint64 { return v }

// runners returns the plain backend with both strategies and the opaque
// backend, all over width-bit words.
func runners(t testing.TB, width uint, opts ...osqrt.Option) []runner {
	t.Helper()

	p, err := plain.New(width)
	if err != nil {
		t.Fatal(err)
	}
	early, err := osqrt.New[uint64, bool](p, opts...)
	if err != nil {
		t.Fatal(err)
	}
	oblivious, err := osqrt.New[uint64, bool](p, append(opts, osqrt.WithStrategy(osqrt.Oblivious))...)
	if err != nil {
		t.Fatal(err)
	}

	client, server, err := opaque.GenerateKeys(width)
	if err != nil {
		t.Fatal(err)
	}
	sealed, err := osqrt.New[opaque.Cipher, opaque.CipherBit](server, opts...)
	if err != nil {
		t.Fatal(err)
	}
	decrypt := func(c opaque.Cipher) uint64 {
		v, err := client.Decrypt(c)
		if err != nil {
			panic(err)
		}
		return v
	}

	return []runner{
		newRunner("plain", early, identity, identity),
		newRunner("plain-oblivious", oblivious, identity, identity),
		newRunner("opaque", sealed, client.Encrypt, decrypt),
	}
}

// xorshift32 is a small deterministic generator for sampled tests.
type xorshift32 struct {
	x uint32
}

func newXorshift32() *xorshift32 {
	return &xorshift32{x: 2463534242}
}

func (r *xorshift32) Uint32() uint32 {
	r.x ^= r.x << 13
	r.x ^= r.x >> 17
	r.x ^= r.x << 5
	return r.x
}

func (r *xorshift32) Uint64() uint64 {
	return uint64(r.Uint32())<<32 | uint64(r.Uint32())
}
