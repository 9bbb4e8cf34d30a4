package osqrt

import "math"

const (
	signShift32 = 31
	signMask32  = 1 << signShift32
	shift32     = 23
	mask32      = 0xff
	bias32      = 127
	fracMask32  = 1<<shift32 - 1
)

// Word is a packed single precision value: bit 31 is the sign, bits 30-23
// the exponent biased by 127 and bits 22-0 the mantissa.
type Word uint32

// FromBits returns the word with the binary representation b.
func FromBits(b uint32) Word {
	return Word(b)
}

// FromFloat32 returns the word holding f.
func FromFloat32(f float32) Word {
	return Word(math.Float32bits(f))
}

// Bits returns the binary representation of w.
func (w Word) Bits() uint32 {
	return uint32(w)
}

// Float32 returns w as a float32.
func (w Word) Float32() float32 {
	return math.Float32frombits(uint32(w))
}

// Sign returns the sign bit of w.
func (w Word) Sign() uint32 {
	return uint32(w >> signShift32)
}

// Exponent returns the unbiased exponent of w.
func (w Word) Exponent() int {
	return int((w>>shift32)&mask32) - bias32
}

// Mantissa returns the mantissa of w without the hidden bit.
func (w Word) Mantissa() uint32 {
	return uint32(w & fracMask32)
}

// Significand returns the mantissa of w with the hidden bit set.
func (w Word) Significand() uint32 {
	return uint32(w&fracMask32) | 1<<shift32
}
