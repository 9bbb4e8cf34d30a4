package cli

import (
	"fmt"

	"github.com/shogo82148/osqrt"
	"github.com/shogo82148/osqrt/distance"
	"github.com/shogo82148/osqrt/opaque"
	"github.com/shogo82148/osqrt/plain"
)

// wordWidth is the width of every backend the tool builds. The square root
// pipeline needs at least 48 bits.
const wordWidth = 64

// maxBound is the order search bound for wordWidth-bit words.
const maxBound = wordWidth / 2

// engine runs kernel operations on plaintext inputs, encrypting them first
// when the backend is opaque.
type engine interface {
	order(x uint64, bound uint) (uint64, error)
	shift(x uint64, width uint) (uint64, error)
	isqrt(x uint64, m uint, validate bool) (uint64, error)
	decompose(x uint64, signed bool) (osqrt.Word, error)
	recompose(sign, exp, mant uint64) osqrt.Word
	fsqrt(w osqrt.Word) (osqrt.Word, error)
	radicand(a, b [2]uint64) (uint64, error)
	dist(a, b [2]uint64) (osqrt.Word, error)
	strategy() osqrt.Strategy
}

func newEngine(backend string, opts []osqrt.Option) (engine, error) {
	switch backend {
	case "plain":
		k, err := osqrt.New[uint64, bool](plain.Uint64(), opts...)
		if err != nil {
			return nil, err
		}
		return &plainEngine{k: k}, nil
	case "opaque":
		client, server, err := opaque.GenerateKeys(wordWidth)
		if err != nil {
			return nil, err
		}
		k, err := osqrt.New[opaque.Cipher, opaque.CipherBit](server, opts...)
		if err != nil {
			return nil, err
		}
		return &opaqueEngine{k: k, client: client}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", backend)
}

type plainEngine struct {
	k *osqrt.Kernel[uint64, bool]
}

func (e *plainEngine) strategy() osqrt.Strategy { return e.k.Strategy() }

func (e *plainEngine) order(x uint64, bound uint) (uint64, error) {
	return e.k.FindOrder(x, bound)
}

func (e *plainEngine) shift(x uint64, width uint) (uint64, error) {
	return e.k.LeadingBitShift(x, width)
}

func (e *plainEngine) isqrt(x uint64, m uint, validate bool) (uint64, error) {
	if validate {
		if err := e.k.ValidateOrder(x, m); err != nil {
			return 0, err
		}
	}
	return e.k.IntegerSqrt(x, m)
}

func (e *plainEngine) decompose(x uint64, signed bool) (osqrt.Word, error) {
	var f osqrt.DecomposedFloat[uint64]
	var err error
	if signed {
		f, err = e.k.DecomposeSigned(x)
	} else {
		f, err = e.k.Decompose(x)
	}
	if err != nil {
		return 0, err
	}
	return osqrt.FromBits(uint32(e.k.Recompose(f))), nil
}

func (e *plainEngine) recompose(sign, exp, mant uint64) osqrt.Word {
	w := e.k.Recompose(osqrt.DecomposedFloat[uint64]{Sign: sign, Exponent: exp, Mantissa: mant})
	return osqrt.FromBits(uint32(w))
}

func (e *plainEngine) fsqrt(w osqrt.Word) (osqrt.Word, error) {
	r, err := e.k.FloatSqrt(uint64(w.Bits()))
	if err != nil {
		return 0, err
	}
	return osqrt.FromBits(uint32(r)), nil
}

func (e *plainEngine) radicand(a, b [2]uint64) (uint64, error) {
	return distance.Radicand(e.k, point(a), point(b)), nil
}

func (e *plainEngine) dist(a, b [2]uint64) (osqrt.Word, error) {
	d, err := distance.Between(e.k, point(a), point(b))
	if err != nil {
		return 0, err
	}
	return osqrt.FromBits(uint32(d)), nil
}

func point(p [2]uint64) distance.Point[uint64] {
	return distance.Point[uint64]{X: p[0], Y: p[1]}
}

// opaqueEngine holds both keys: it plays the client encrypting the inputs
// and decrypting the results, and hands only the server key to the kernel.
// Ciphertexts cross between the two sides in their binary encoding.
type opaqueEngine struct {
	k      *osqrt.Kernel[opaque.Cipher, opaque.CipherBit]
	client *opaque.ClientKey
}

func (e *opaqueEngine) strategy() osqrt.Strategy { return e.k.Strategy() }

func (e *opaqueEngine) order(x uint64, bound uint) (uint64, error) {
	c, err := e.encrypt(x)
	if err != nil {
		return 0, err
	}
	m, err := e.k.FindOrder(c, bound)
	if err != nil {
		return 0, err
	}
	return e.decrypt(m)
}

func (e *opaqueEngine) shift(x uint64, width uint) (uint64, error) {
	c, err := e.encrypt(x)
	if err != nil {
		return 0, err
	}
	n, err := e.k.LeadingBitShift(c, width)
	if err != nil {
		return 0, err
	}
	return e.decrypt(n)
}

func (e *opaqueEngine) isqrt(x uint64, m uint, validate bool) (uint64, error) {
	if validate {
		// The order is checked on the client side, where x is known.
		if err := validateOrder(x, m); err != nil {
			return 0, err
		}
	}
	c, err := e.encrypt(x)
	if err != nil {
		return 0, err
	}
	r, err := e.k.IntegerSqrt(c, m)
	if err != nil {
		return 0, err
	}
	return e.decrypt(r)
}

func (e *opaqueEngine) decompose(x uint64, signed bool) (osqrt.Word, error) {
	c, err := e.encrypt(x)
	if err != nil {
		return 0, err
	}
	var f osqrt.DecomposedFloat[opaque.Cipher]
	var fault opaque.Cipher
	if signed {
		f, fault = e.k.DecomposeSignedChecked(c)
	} else {
		f, fault = e.k.DecomposeChecked(c)
	}
	if err := e.fault("decompose", fault); err != nil {
		return 0, err
	}
	return e.word(e.k.Recompose(f))
}

func (e *opaqueEngine) recompose(sign, exp, mant uint64) osqrt.Word {
	// the fields are sealed by the same key, so neither hop can fail
	s, _ := e.encrypt(sign)
	x, _ := e.encrypt(exp)
	m, _ := e.encrypt(mant)
	w, _ := e.word(e.k.Recompose(osqrt.DecomposedFloat[opaque.Cipher]{Sign: s, Exponent: x, Mantissa: m}))
	return w
}

func (e *opaqueEngine) fsqrt(w osqrt.Word) (osqrt.Word, error) {
	c, err := e.encrypt(uint64(w.Bits()))
	if err != nil {
		return 0, err
	}
	r, fault, err := e.k.FloatSqrtChecked(c)
	if err != nil {
		return 0, err
	}
	if err := e.fault("fsqrt", fault); err != nil {
		return 0, err
	}
	return e.word(r)
}

func (e *opaqueEngine) radicand(a, b [2]uint64) (uint64, error) {
	pa, err := e.point(a)
	if err != nil {
		return 0, err
	}
	pb, err := e.point(b)
	if err != nil {
		return 0, err
	}
	return e.decrypt(distance.Radicand(e.k, pa, pb))
}

func (e *opaqueEngine) dist(a, b [2]uint64) (osqrt.Word, error) {
	pa, err := e.point(a)
	if err != nil {
		return 0, err
	}
	pb, err := e.point(b)
	if err != nil {
		return 0, err
	}
	d, fault, err := distance.BetweenChecked(e.k, pa, pb)
	if err != nil {
		return 0, err
	}
	// a zero or oversized radicand is rejected by the decomposition step
	if err := e.fault("decompose", fault); err != nil {
		return 0, err
	}
	return e.word(d)
}

func (e *opaqueEngine) point(p [2]uint64) (distance.Point[opaque.Cipher], error) {
	x, err := e.encrypt(p[0])
	if err != nil {
		return distance.Point[opaque.Cipher]{}, err
	}
	y, err := e.encrypt(p[1])
	if err != nil {
		return distance.Point[opaque.Cipher]{}, err
	}
	return distance.Point[opaque.Cipher]{X: x, Y: y}, nil
}

// encrypt seals x on the client side and hands it to the server.
func (e *opaqueEngine) encrypt(x uint64) (opaque.Cipher, error) {
	return transfer(e.client.Encrypt(x))
}

// decrypt receives c from the server and opens it on the client side.
func (e *opaqueEngine) decrypt(c opaque.Cipher) (uint64, error) {
	c, err := transfer(c)
	if err != nil {
		return 0, err
	}
	return e.client.Decrypt(c)
}

func (e *opaqueEngine) word(c opaque.Cipher) (osqrt.Word, error) {
	v, err := e.decrypt(c)
	if err != nil {
		return 0, err
	}
	return osqrt.FromBits(uint32(v)), nil
}

func (e *opaqueEngine) fault(op string, c opaque.Cipher) error {
	v, err := e.decrypt(c)
	if err != nil {
		return err
	}
	if err := osqrt.Fault(v).Err(); err != nil {
		return &osqrt.InputError{Op: op, Err: err}
	}
	return nil
}

// transfer moves c across the client/server boundary in its wire encoding.
func transfer(c opaque.Cipher) (opaque.Cipher, error) {
	data, err := c.MarshalBinary()
	if err != nil {
		return opaque.Cipher{}, fmt.Errorf("failed to encode ciphertext: %w", err)
	}
	var out opaque.Cipher
	if err := out.UnmarshalBinary(data); err != nil {
		return opaque.Cipher{}, fmt.Errorf("failed to decode ciphertext: %w", err)
	}
	return out, nil
}

// validateOrder checks m against a plaintext x.
func validateOrder(x uint64, m uint) error {
	k, err := osqrt.New[uint64, bool](plain.Uint64())
	if err != nil {
		return err
	}
	return k.ValidateOrder(x, m)
}
