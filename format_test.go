package osqrt_test

import (
	"fmt"
	"testing"

	"github.com/shogo82148/osqrt"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		format string
		x      osqrt.Word
		want   string
	}{
		{"%b", osqrt.FromFloat32(0), "0p-149"},
		{"%b", osqrt.FromFloat32(36), "9437184p-18"},
		{"%b", osqrt.FromFloat32(-0.5), "-8388608p-24"},
		{"%b", osqrt.FromFloat32(1 << 24), "8388608p+1"},
		{"%+b", osqrt.FromFloat32(36), "+9437184p-18"},

		{"%f", osqrt.FromFloat32(0.5), "0.5"},
		{"%f", osqrt.FromFloat32(-0.5), "-0.5"},
		{"%+f", osqrt.FromFloat32(0.5), "+0.5"},
		{"%+f", osqrt.FromFloat32(-0.5), "-0.5"},
		{"% f", osqrt.FromFloat32(0.5), " 0.5"},
		{"% f", osqrt.FromFloat32(-0.5), "-0.5"},
		{"%8f", osqrt.FromFloat32(0.5), "     0.5"},
		{"%-8f", osqrt.FromFloat32(0.5), "0.5     "},
		{"%.2f", osqrt.FromFloat32(36), "36.00"},

		{"%.6e", osqrt.FromFloat32(0.5), "5.000000e-01"},

		{"%g", osqrt.FromFloat32(0.5), "0.5"},

		{"%x", osqrt.FromBits(0x42100000), "0x42100000"},
		{"%x", osqrt.FromBits(0x1), "0x00000001"},
		{"%X", osqrt.FromBits(0x3fb504f3), "0X3FB504F3"},
		{"%12x", osqrt.FromBits(0x42100000), "  0x42100000"},

		{"%v", osqrt.FromFloat32(36), "36"},
		{"%v", osqrt.FromBits(0x3fb504f3), "1.4142135"},
	}

	for _, tt := range tests {
		got := fmt.Sprintf(tt.format, tt.x)
		if got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.format, tt.want, got)
		}
	}
}

func TestWord(t *testing.T) {
	w := osqrt.FromFloat32(-36)
	if got, want := w.Bits(), uint32(0xc2100000); got != want {
		t.Errorf("Bits() = %#x, want %#x", got, want)
	}
	if w.Sign() != 1 || w.Exponent() != 5 || w.Mantissa() != 0x100000 || w.Significand() != 0x900000 {
		t.Errorf("fields of %x: sign=%d exponent=%d mantissa=%#x significand=%#x",
			w, w.Sign(), w.Exponent(), w.Mantissa(), w.Significand())
	}
	if got := w.String(); got != "-36" {
		t.Errorf("String() = %q, want %q", got, "-36")
	}
	if got := osqrt.FromFloat32(0.25).Exponent(); got != -2 {
		t.Errorf("Exponent() = %d, want -2", got)
	}
}

func TestIsFloorRoot(t *testing.T) {
	tests := []struct {
		x, root uint64
		floor   bool
		exact   bool
	}{
		{0, 0, true, true},
		{1, 1, true, true},
		{35, 5, true, false},
		{35, 6, false, false},
		{36, 6, true, true},
		{48, 6, true, false},
		{49, 6, false, false},
		{^uint64(0), 1<<32 - 1, true, false},
		{^uint64(0), 1 << 32, false, false},
	}
	for _, tt := range tests {
		if got := osqrt.IsFloorRoot(tt.x, tt.root); got != tt.floor {
			t.Errorf("IsFloorRoot(%d, %d) = %t, want %t", tt.x, tt.root, got, tt.floor)
		}
		if got := osqrt.IsExactRoot(tt.x, tt.root); got != tt.exact {
			t.Errorf("IsExactRoot(%d, %d) = %t, want %t", tt.x, tt.root, got, tt.exact)
		}
	}
}
