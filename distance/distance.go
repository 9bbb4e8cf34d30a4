// Package distance computes Euclidean distances between grid points with the
// osqrt kernel, so that the coordinates may stay opaque end to end.
package distance

import (
	"github.com/shogo82148/osqrt"
)

// CoordBits is the width of a coordinate. Wider coordinates are truncated.
const CoordBits = 16

// Point is a point with unsigned coordinates below 2^CoordBits.
type Point[V any] struct {
	X, Y V
}

// Radicand returns dx² + dy² for the points a and b.
// It makes the same sequence of operations for all coordinates.
func Radicand[V, B any](k *osqrt.Kernel[V, B], a, b Point[V]) V {
	ops := k.Ops()
	dx := absDiff(ops, coord(ops, a.X), coord(ops, b.X))
	dy := absDiff(ops, coord(ops, a.Y), coord(ops, b.Y))
	return ops.Add(square(ops, dx), square(ops, dy))
}

// Between returns the distance between a and b as a packed single precision
// word. Identical points yield osqrt.ErrZeroInput and radicands of 2^24 or
// more yield osqrt.ErrWidthOverflow on transparent backends.
func Between[V, B any](k *osqrt.Kernel[V, B], a, b Point[V]) (V, error) {
	f, err := k.Decompose(Radicand(k, a, b))
	if err != nil {
		var zero V
		return zero, err
	}
	return k.FloatSqrt(k.Recompose(f))
}

// BetweenChecked is like Between, but returns the input check as an
// osqrt.Fault word.
func BetweenChecked[V, B any](k *osqrt.Kernel[V, B], a, b Point[V]) (dist, fault V, err error) {
	ops := k.Ops()
	f, decomposeFault := k.DecomposeChecked(Radicand(k, a, b))
	dist, sqrtFault, err := k.FloatSqrtChecked(k.Recompose(f))
	if err != nil {
		var zero V
		return zero, zero, err
	}
	ok := ops.Eq(decomposeFault, ops.Const(uint64(osqrt.FaultNone)))
	return dist, ops.Select(ok, sqrtFault, decomposeFault), nil
}

func coord[V, B any](ops osqrt.Ops[V, B], v V) V {
	return ops.And(v, ops.Const(1<<CoordBits-1))
}

func absDiff[V, B any](ops osqrt.Ops[V, B], a, b V) V {
	return ops.Select(ops.Gt(a, b), ops.Sub(a, b), ops.Sub(b, a))
}

// square multiplies d < 2^CoordBits by itself with shift-and-add.
func square[V, B any](ops osqrt.Ops[V, B], d V) V {
	one := ops.Const(1)
	zero := ops.Const(0)
	acc := zero
	for i := uint(0); i < CoordBits; i++ {
		bit := ops.Eq(ops.And(ops.Shr(d, i), one), one)
		acc = ops.Add(acc, ops.Select(bit, ops.Shl(d, i), zero))
	}
	return acc
}
