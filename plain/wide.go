package plain

import (
	"github.com/holiman/uint256"

	"github.com/shogo82148/osqrt"
)

// Wide is a backend over 256-bit words.
type Wide struct{}

var (
	_ osqrt.Ops[uint256.Int, bool] = Wide{}
	_ osqrt.Revealer[bool]         = Wide{}
)

// Uint256 returns a backend over 256-bit words.
func Uint256() Wide {
	return Wide{}
}

func (Wide) Width() uint { return 256 }

func (Wide) Const(v uint64) uint256.Int {
	return *uint256.NewInt(v)
}

func (Wide) And(a, b uint256.Int) (z uint256.Int) {
	z.And(&a, &b)
	return z
}

func (Wide) Or(a, b uint256.Int) (z uint256.Int) {
	z.Or(&a, &b)
	return z
}

func (Wide) Xor(a, b uint256.Int) (z uint256.Int) {
	z.Xor(&a, &b)
	return z
}

func (Wide) Not(a uint256.Int) (z uint256.Int) {
	z.Not(&a)
	return z
}

func (Wide) Shl(a uint256.Int, n uint) (z uint256.Int) {
	z.Lsh(&a, n)
	return z
}

func (Wide) Shr(a uint256.Int, n uint) (z uint256.Int) {
	z.Rsh(&a, n)
	return z
}

func (Wide) Add(a, b uint256.Int) (z uint256.Int) {
	z.Add(&a, &b)
	return z
}

func (Wide) Sub(a, b uint256.Int) (z uint256.Int) {
	z.Sub(&a, &b)
	return z
}

func (Wide) Eq(a, b uint256.Int) bool { return a.Eq(&b) }
func (Wide) Gt(a, b uint256.Int) bool { return a.Gt(&b) }

func (Wide) Select(cond bool, a, b uint256.Int) uint256.Int {
	if cond {
		return a
	}
	return b
}

func (Wide) BoolAnd(a, b bool) bool { return a && b }
func (Wide) BoolOr(a, b bool) bool { return a || b }
func (Wide) BoolNot(a bool) bool { return !a }
func (Wide) Reveal(b bool) bool { return b }

func (Wide) BoolValue(b bool) uint256.Int {
	if b {
		return *uint256.NewInt(1)
	}
	return uint256.Int{}
}
