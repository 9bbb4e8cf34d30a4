package opaque

import (
	"github.com/shogo82148/osqrt"
)

var _ osqrt.Ops[Cipher, CipherBit] = (*ServerKey)(nil)

// Width returns the word width.
func (s *ServerKey) Width() uint { return s.k.width }

// Const returns the trivial encryption of the public constant v.
func (s *ServerKey) Const(v uint64) Cipher { return s.k.seal(v) }

func (s *ServerKey) And(a, b Cipher) Cipher { return s.k.seal(s.open(a) & s.open(b)) }
func (s *ServerKey) Or(a, b Cipher) Cipher { return s.k.seal(s.open(a) | s.open(b)) }
func (s *ServerKey) Xor(a, b Cipher) Cipher { return s.k.seal(s.open(a) ^ s.open(b)) }
func (s *ServerKey) Not(a Cipher) Cipher { return s.k.seal(^s.open(a)) }
func (s *ServerKey) Add(a, b Cipher) Cipher { return s.k.seal(s.open(a) + s.open(b)) }
func (s *ServerKey) Sub(a, b Cipher) Cipher { return s.k.seal(s.open(a) - s.open(b)) }

func (s *ServerKey) Shl(a Cipher, n uint) Cipher { return s.k.seal(s.open(a) << n) }
func (s *ServerKey) Shr(a Cipher, n uint) Cipher { return s.k.seal(s.open(a) >> n) }

func (s *ServerKey) Eq(a, b Cipher) CipherBit { return s.k.sealBit(s.open(a) == s.open(b)) }
func (s *ServerKey) Gt(a, b Cipher) CipherBit { return s.k.sealBit(s.open(a) > s.open(b)) }

// Select multiplexes a and b; both are always decoded so that the work does
// not depend on cond.
func (s *ServerKey) Select(cond CipherBit, a, b Cipher) Cipher {
	c := uint64(0)
	if s.openBit(cond) {
		c = ^uint64(0)
	}
	return s.k.seal(s.open(a)&c | s.open(b)&^c)
}

func (s *ServerKey) BoolAnd(a, b CipherBit) CipherBit {
	return s.k.sealBit(s.openBit(a) && s.openBit(b))
}

func (s *ServerKey) BoolOr(a, b CipherBit) CipherBit {
	return s.k.sealBit(s.openBit(a) || s.openBit(b))
}

func (s *ServerKey) BoolNot(a CipherBit) CipherBit {
	return s.k.sealBit(!s.openBit(a))
}

func (s *ServerKey) BoolValue(b CipherBit) Cipher {
	if s.openBit(b) {
		return s.k.seal(1)
	}
	return s.k.seal(0)
}

func (s *ServerKey) open(x Cipher) uint64 {
	if x.key != s.k.id {
		panic(ErrKeyMismatch)
	}
	return s.k.open(x)
}

func (s *ServerKey) openBit(x CipherBit) bool {
	if x.key != s.k.id {
		panic(ErrKeyMismatch)
	}
	return s.k.openBit(x)
}
