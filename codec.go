package osqrt

// DecomposedFloat is a single precision value split into its fields.
// Exponent is the biased field and Mantissa excludes the hidden bit.
type DecomposedFloat[V any] struct {
	Sign     V
	Exponent V
	Mantissa V
}

// Decompose converts the magnitude x into single precision fields.
// x must be non-zero and below 2^24 so that it is represented exactly.
//
// On transparent backends invalid inputs are reported as ErrZeroInput or
// ErrWidthOverflow. Opaque backends cannot observe them; use DecomposeChecked
// to receive the fault as a word.
func (k *Kernel[V, B]) Decompose(x V) (DecomposedFloat[V], error) {
	if k.reveal != nil {
		if err := k.checkMagnitude("decompose", x); err != nil {
			return DecomposedFloat[V]{}, err
		}
	}
	return k.decompose(x, k.ops.Const(0)), nil
}

// DecomposeSigned is like Decompose, but treats x as a two's complement
// integer of the word width and records its sign.
func (k *Kernel[V, B]) DecomposeSigned(x V) (DecomposedFloat[V], error) {
	sign, mag := k.signMagnitude(x)
	if k.reveal != nil {
		if err := k.checkMagnitude("decompose", mag); err != nil {
			return DecomposedFloat[V]{}, err
		}
	}
	return k.decompose(mag, sign), nil
}

// DecomposeChecked is like Decompose, but returns the input check as a
// Fault word instead of an error, so that it stays opaque.
func (k *Kernel[V, B]) DecomposeChecked(x V) (DecomposedFloat[V], V) {
	return k.decompose(x, k.ops.Const(0)), k.magnitudeFault(x)
}

// DecomposeSignedChecked is the signed counterpart of DecomposeChecked.
func (k *Kernel[V, B]) DecomposeSignedChecked(x V) (DecomposedFloat[V], V) {
	sign, mag := k.signMagnitude(x)
	return k.decompose(mag, sign), k.magnitudeFault(mag)
}

func (k *Kernel[V, B]) decompose(x, sign V) DecomposedFloat[V] {
	ops := k.ops
	shifts, normalized := k.scan(x, shift32)
	return DecomposedFloat[V]{
		Sign:     sign,
		Exponent: ops.Sub(ops.Const(bias32+shift32), shifts),
		Mantissa: ops.And(normalized, ops.Const(fracMask32)),
	}
}

func (k *Kernel[V, B]) signMagnitude(x V) (sign, mag V) {
	ops := k.ops
	sign = ops.Shr(x, ops.Width()-1)
	neg := ops.Eq(sign, ops.Const(1))
	mag = k.sel(neg, ops.Sub(ops.Const(0), x), x)
	return sign, mag
}

func (k *Kernel[V, B]) magnitudeFlags(x V) (zero, over B) {
	return k.isZero(x), k.ops.Gt(x, k.mask(shift32+1))
}

func (k *Kernel[V, B]) checkMagnitude(op string, x V) error {
	zero, over := k.magnitudeFlags(x)
	switch {
	case k.reveal.Reveal(zero):
		return inputError(op, ErrZeroInput)
	case k.reveal.Reveal(over):
		return inputError(op, ErrWidthOverflow)
	}
	return nil
}

func (k *Kernel[V, B]) magnitudeFault(x V) V {
	ops := k.ops
	zero, over := k.magnitudeFlags(x)
	fault := ops.Select(over, ops.Const(uint64(FaultWidthOverflow)), ops.Const(uint64(FaultNone)))
	return ops.Select(zero, ops.Const(uint64(FaultZeroInput)), fault)
}

// Recompose packs f into a single precision word. Fields wider than their
// slots are truncated; no normalization is done.
func (k *Kernel[V, B]) Recompose(f DecomposedFloat[V]) V {
	ops := k.ops
	sign := ops.Shl(ops.And(f.Sign, ops.Const(1)), signShift32)
	exp := ops.Shl(ops.And(f.Exponent, ops.Const(mask32)), shift32)
	return ops.Or(ops.Or(sign, exp), ops.And(f.Mantissa, ops.Const(fracMask32)))
}

// Unpack splits the single precision word w into its fields.
// It is the inverse of Recompose.
func (k *Kernel[V, B]) Unpack(w V) DecomposedFloat[V] {
	return DecomposedFloat[V]{
		Sign:     k.ExtractSign(w),
		Exponent: k.exponentField(w),
		Mantissa: k.MantissaRaw(w),
	}
}

// ExtractSign returns the sign bit of w.
func (k *Kernel[V, B]) ExtractSign(w V) V {
	return k.ops.And(k.ops.Shr(w, signShift32), k.ops.Const(1))
}

// ExtractExponent returns the unbiased exponent of w in two's complement of
// the word width.
func (k *Kernel[V, B]) ExtractExponent(w V) V {
	return k.ops.Sub(k.exponentField(w), k.ops.Const(bias32))
}

// MantissaRaw returns the stored mantissa of w without the hidden bit.
func (k *Kernel[V, B]) MantissaRaw(w V) V {
	return k.ops.And(w, k.ops.Const(fracMask32))
}

// Significand returns the mantissa of w with the hidden bit set.
func (k *Kernel[V, B]) Significand(w V) V {
	return k.ops.Or(k.MantissaRaw(w), k.ops.Const(1<<shift32))
}

func (k *Kernel[V, B]) exponentField(w V) V {
	return k.ops.And(k.ops.Shr(w, shift32), k.ops.Const(mask32))
}
