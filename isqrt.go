package osqrt

import "fmt"

// IntegerSqrt returns the integer square root of x by digit recurrence.
// m must satisfy 2^(2m) <= x < 2^(2(m+1)), as returned by FindOrder for
// the same x; the result is undefined otherwise, except that x == 0 with
// m == 0 yields 0.
//
// The recurrence keeps r², 2rd and d² for the partial root r and the digit
// weight d = 2^(m-k), and accepts r+d whenever (r+d)² <= x.
// Obliviously, it runs exactly m iterations and freezes the result once an
// exact match is found instead of returning.
func (k *Kernel[V, B]) IntegerSqrt(x V, m uint) (V, error) {
	ops := k.ops
	if m+1 > ops.Width()/2 {
		var zero V
		return zero, fmt.Errorf("%w: order %d for %d-bit words", ErrWidthOverflow, m, ops.Width())
	}

	a := k.pow4(m)
	b := a
	c := ops.Shr(a, 2)
	s := ops.Add(ops.Add(a, b), c)

	if k.early {
		for i := uint(1); i <= m; i++ {
			b = ops.Shr(b, 1)
			if k.reveal.Reveal(ops.Eq(s, x)) {
				return ops.Shr(ops.Add(b, c), m-i), nil
			}
			if k.reveal.Reveal(ops.Gt(x, s)) {
				a = s
				b = ops.Add(b, c)
			}
			c = ops.Shr(c, 2)
			s = ops.Add(ops.Add(a, b), c)
		}
		if k.reveal.Reveal(k.isZero(x)) {
			return ops.Const(0), nil
		}
		return b, nil
	}

	active := k.truth()
	for i := uint(1); i <= m; i++ {
		b = ops.Select(active, ops.Shr(b, 1), b)

		hit := ops.BoolAnd(active, ops.Eq(s, x))
		b = ops.Select(hit, ops.Shr(ops.Add(b, c), m-i), b)
		active = ops.BoolAnd(active, ops.BoolNot(hit))

		less := ops.BoolAnd(active, ops.Gt(x, s))
		a = ops.Select(less, s, a)
		b = ops.Select(less, ops.Add(b, c), b)

		c = ops.Shr(c, 2)
		s = ops.Add(ops.Add(a, b), c)
	}
	return ops.Select(k.isZero(x), ops.Const(0), b), nil
}

// ValidateOrder reports ErrOrderOutOfBounds unless 2^(2m) <= x < 2^(2(m+1)),
// or x == 0 and m == 0. It needs a transparent backend.
func (k *Kernel[V, B]) ValidateOrder(x V, m uint) error {
	if k.reveal == nil {
		return ErrOpaqueBranch
	}
	if m+1 > k.ops.Width()/2 {
		return fmt.Errorf("%w: order %d for %d-bit words", ErrWidthOverflow, m, k.ops.Width())
	}
	if k.reveal.Reveal(k.isZero(x)) {
		if m == 0 {
			return nil
		}
		return inputError("isqrt", ErrOrderOutOfBounds)
	}
	if k.reveal.Reveal(k.ops.Gt(k.pow4(m), x)) {
		return inputError("isqrt", ErrOrderOutOfBounds)
	}
	// 4^(m+1) may not fit in the word; the largest order is unbounded above.
	if 2*(m+1) < k.ops.Width() && !k.reveal.Reveal(k.ops.Gt(k.pow4(m+1), x)) {
		return inputError("isqrt", ErrOrderOutOfBounds)
	}
	return nil
}
