// Package plain provides transparent backends for the osqrt kernel.
// Comparison results are ordinary bools and may be revealed, so kernels
// running on these backends exit loops early by default.
package plain

import (
	"fmt"

	"github.com/shogo82148/osqrt"
)

// Native is a backend over machine words of up to 64 bits held in uint64.
// Results are truncated to the word width.
type Native struct {
	width uint
	mask  uint64
}

var (
	_ osqrt.Ops[uint64, bool] = (*Native)(nil)
	_ osqrt.Revealer[bool]    = (*Native)(nil)
)

// New returns a backend over width-bit words.
func New(width uint) (*Native, error) {
	if width == 0 || width > 64 {
		return nil, fmt.Errorf("plain: unsupported width %d", width)
	}
	mask := ^uint64(0)
	if width < 64 {
		mask = 1<<width - 1
	}
	return &Native{width: width, mask: mask}, nil
}

// Uint32 returns a backend over 32-bit words.
func Uint32() *Native {
	return &Native{width: 32, mask: 1<<32 - 1}
}

// Uint64 returns a backend over 64-bit words.
func Uint64() *Native {
	return &Native{width: 64, mask: ^uint64(0)}
}

func (w *Native) Width() uint { return w.width }
func (w *Native) Const(v uint64) uint64 { return v & w.mask }
func (w *Native) And(a, b uint64) uint64 { return a & b }
func (w *Native) Or(a, b uint64) uint64 { return a | b }
func (w *Native) Xor(a, b uint64) uint64 { return a ^ b }
func (w *Native) Not(a uint64) uint64 { return ^a & w.mask }
func (w *Native) Add(a, b uint64) uint64 { return (a + b) & w.mask }
func (w *Native) Sub(a, b uint64) uint64 { return (a - b) & w.mask }
func (w *Native) Eq(a, b uint64) bool { return a == b }
func (w *Native) Gt(a, b uint64) bool { return a > b }
func (w *Native) BoolAnd(a, b bool) bool { return a && b }
func (w *Native) BoolOr(a, b bool) bool { return a || b }
func (w *Native) BoolNot(a bool) bool { return !a }
func (w *Native) Reveal(b bool) bool { return b }

func (w *Native) Shl(a uint64, n uint) uint64 {
	return (a << n) & w.mask
}

func (w *Native) Shr(a uint64, n uint) uint64 {
	return a >> n
}

func (w *Native) Select(cond bool, a, b uint64) uint64 {
	if cond {
		return a
	}
	return b
}

func (w *Native) BoolValue(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
