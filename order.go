package osqrt

import "fmt"

// FindOrder returns the largest m below bound with 2^(2m) <= x, or 0 when no
// such m exists (x == 0). The result sizes IntegerSqrt.
//
// bound is the number of candidate orders; 16 covers every 32-bit word.
// Obliviously, bound-1 comparisons are made for every x and the answer is
// accumulated by masked addition.
func (k *Kernel[V, B]) FindOrder(x V, bound uint) (V, error) {
	ops := k.ops
	if bound == 0 || 2*(bound-1) >= ops.Width() {
		var zero V
		return zero, fmt.Errorf("%w: order bound %d for %d-bit words", ErrWidthOverflow, bound, ops.Width())
	}

	if k.early {
		var m uint
		for m+1 < bound && k.reveal.Reveal(k.le(k.pow4(m+1), x)) {
			m++
		}
		return ops.Const(uint64(m)), nil
	}

	m := ops.Const(0)
	for j := uint(1); j < bound; j++ {
		fits := k.le(k.pow4(j), x)
		m = ops.Add(m, ops.BoolValue(fits))
	}
	return m, nil
}

// LeadingBitShift returns the number of left shifts that move the leading set
// bit of x to bit position width. x must be non-zero and below 2^(width+1);
// zero yields the scan length.
func (k *Kernel[V, B]) LeadingBitShift(x V, width uint) (V, error) {
	if width+1 >= k.ops.Width() {
		var zero V
		return zero, fmt.Errorf("%w: pivot bit %d for %d-bit words", ErrWidthOverflow, width, k.ops.Width())
	}
	shifts, _ := k.scan(x, width)
	return shifts, nil
}

// scan counts the leading zero positions above the pivot and returns x
// shifted so that its leading bit sits on the pivot.
func (k *Kernel[V, B]) scan(x V, width uint) (shifts, normalized V) {
	ops := k.ops
	pivot := ops.Shl(ops.Const(1), width)
	zero := ops.Const(0)

	n := width + 1
	if k.conv == ScanExclusive {
		n = width
	}

	if k.early {
		var i uint
		for i < n && k.reveal.Reveal(ops.Eq(ops.And(ops.Shl(x, i), pivot), zero)) {
			i++
		}
		return ops.Const(uint64(i)), ops.Shl(x, i)
	}

	// still holds while every shift tested so far left the pivot clear.
	still := k.truth()
	shifts = zero
	normalized = x
	for i := uint(0); i < n; i++ {
		shifted := ops.Shl(x, i)
		normalized = ops.Select(still, shifted, normalized)
		still = ops.BoolAnd(still, ops.Eq(ops.And(shifted, pivot), zero))
		shifts = ops.Add(shifts, ops.BoolValue(still))
	}
	if k.conv == ScanExclusive {
		normalized = ops.Select(still, ops.Shl(x, width), normalized)
	}
	return shifts, normalized
}

// pow4 returns 4^n, which may exceed 64 bits on wide backends.
func (k *Kernel[V, B]) pow4(n uint) V {
	return k.ops.Shl(k.ops.Const(1), 2*n)
}
