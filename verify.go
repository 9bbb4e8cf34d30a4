package osqrt

import "github.com/shogo82148/int128"

// IsFloorRoot reports whether root is the integer square root of x,
// that is root² <= x < (root+1)². The squares are computed in 128 bits.
func IsFloorRoot(x, root uint64) bool {
	r := int128.Uint128{L: root}
	n := int128.Uint128{L: x}
	if r.Mul(r).Cmp(n) > 0 {
		return false
	}
	r1 := r.Add(int128.Uint128{L: 1})
	return r1.Mul(r1).Cmp(n) > 0
}

// IsExactRoot reports whether root² == x.
func IsExactRoot(x, root uint64) bool {
	r := int128.Uint128{L: root}
	return r.Mul(r).Cmp(int128.Uint128{L: x}) == 0
}
