package osqrt

import "fmt"

// sqrtOrder is the order of every normalized radicand: the significand
// shifted by 23 or 24 bits lies in [2^46, 2^48).
const sqrtOrder = shift32

// FloatSqrt returns the square root of the single precision word w,
// truncated to 23 mantissa bits. The backend must be at least 48 bits wide.
//
// On transparent backends zero and subnormal inputs are reported as
// ErrZeroInput and negative inputs as ErrNegativeInput. Opaque backends
// cannot observe them; use FloatSqrtChecked to receive the fault as a word.
//
// Infinities and NaNs are not special cased.
func (k *Kernel[V, B]) FloatSqrt(w V) (V, error) {
	if err := k.checkSqrtWidth(); err != nil {
		var zero V
		return zero, err
	}
	if k.reveal != nil {
		zero, neg := k.sqrtFlags(w)
		switch {
		case k.reveal.Reveal(zero):
			var z V
			return z, inputError("fsqrt", ErrZeroInput)
		case k.reveal.Reveal(neg):
			var z V
			return z, inputError("fsqrt", ErrNegativeInput)
		}
	}
	return k.floatSqrt(w)
}

// FloatSqrtChecked is like FloatSqrt, but returns the input check as a
// Fault word instead of an error, so that it stays opaque.
func (k *Kernel[V, B]) FloatSqrtChecked(w V) (root, fault V, err error) {
	if err := k.checkSqrtWidth(); err != nil {
		var zero V
		return zero, zero, err
	}
	ops := k.ops
	zero, neg := k.sqrtFlags(w)
	fault = ops.Select(neg, ops.Const(uint64(FaultNegativeInput)), ops.Const(uint64(FaultNone)))
	fault = ops.Select(zero, ops.Const(uint64(FaultZeroInput)), fault)

	root, err = k.floatSqrt(w)
	if err != nil {
		var z V
		return z, z, err
	}
	return root, fault, nil
}

func (k *Kernel[V, B]) checkSqrtWidth() error {
	if k.ops.Width() < 2*(sqrtOrder+1) {
		return fmt.Errorf("%w: square root needs %d-bit words, have %d", ErrWidthOverflow, 2*(sqrtOrder+1), k.ops.Width())
	}
	return nil
}

func (k *Kernel[V, B]) sqrtFlags(w V) (zero, neg B) {
	ops := k.ops
	return k.isZero(k.exponentField(w)), ops.Eq(k.ExtractSign(w), ops.Const(1))
}

func (k *Kernel[V, B]) floatSqrt(w V) (V, error) {
	ops := k.ops

	// normalize w
	exp := k.exponentField(w)
	frac := k.Significand(w)

	// The biased exponent is even exactly when the unbiased one is odd.
	// Double the radicand then, so that the exponent halves cleanly.
	odd := ops.Eq(ops.And(exp, ops.Const(1)), ops.Const(0))
	frac = k.sel(odd, ops.Shl(frac, shift32+1), ops.Shl(frac, shift32))
	exp = k.sel(odd, ops.Sub(exp, ops.Const(1)), exp)

	root, err := k.IntegerSqrt(frac, sqrtOrder)
	if err != nil {
		var zero V
		return zero, err
	}

	// exponent of square root: bias + (exp-bias)/2 = (exp+bias)/2
	exp = ops.And(ops.Shr(ops.Add(exp, ops.Const(bias32)), 1), ops.Const(mask32))
	return ops.Or(ops.Shl(exp, shift32), ops.And(root, ops.Const(fracMask32))), nil
}
