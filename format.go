package osqrt

import (
	"fmt"
	"strconv"
)

var _ fmt.Formatter = Word(0)

func (w Word) String() string {
	return strconv.FormatFloat(float64(w.Float32()), 'g', -1, 32)
}

// Format implements [fmt.Formatter].
//
// %b prints the significand and the binary exponent as "mantissa p exponent",
// %x and %X print the packed bits, every other verb prints the decimal value.
func (w Word) Format(s fmt.State, verb rune) {
	var prefix []byte
	var data []byte

	switch verb {
	case 'b':
		if w&signMask32 != 0 {
			prefix = append(prefix, '-')
		} else if s.Flag('+') {
			prefix = append(prefix, '+')
		}
		data = w.appendBin(data)
	case 'x':
		data = append(data, "0x"...)
		data = appendHex(data, uint32(w), "0123456789abcdef")
	case 'X':
		data = append(data, "0X"...)
		data = appendHex(data, uint32(w), "0123456789ABCDEF")
	default:
		f := w.Float32()
		if f >= 0 {
			if s.Flag('+') {
				prefix = append(prefix, '+')
			} else if s.Flag(' ') {
				prefix = append(prefix, ' ')
			}
		}
		fmtc := byte('g')
		switch verb {
		case 'e', 'E', 'f', 'F', 'g', 'G':
			fmtc = byte(verb)
		}
		prec := -1
		if p, ok := s.Precision(); ok {
			prec = p
		}
		data = strconv.AppendFloat(data, float64(f), fmtc, prec, 32)
	}

	if wd, ok := s.Width(); ok {
		var buf [1]byte
		buf[0] = ' '
		pad := wd - len(prefix) - len(data)
		if s.Flag('-') {
			s.Write(prefix)
			s.Write(data)
			for i := 0; i < pad; i++ {
				s.Write(buf[:1])
			}
		} else {
			for i := 0; i < pad; i++ {
				s.Write(buf[:1])
			}
			s.Write(prefix)
			s.Write(data)
		}
		return
	}

	if len(prefix) > 0 {
		s.Write(prefix)
	}
	s.Write(data)
}

func (w Word) appendBin(buf []byte) []byte {
	exp := int(w>>shift32&mask32) - bias32
	frac := uint64(w & fracMask32)

	if exp == -bias32 {
		exp++
	} else {
		frac |= 1 << shift32
	}
	exp -= shift32

	buf = strconv.AppendUint(buf, frac, 10)
	buf = append(buf, 'p')
	if exp >= 0 {
		buf = append(buf, '+')
	}
	return strconv.AppendInt(buf, int64(exp), 10)
}

func appendHex(buf []byte, v uint32, digits string) []byte {
	for shift := 28; shift >= 0; shift -= 4 {
		buf = append(buf, digits[(v>>uint(shift))&0xf])
	}
	return buf
}
