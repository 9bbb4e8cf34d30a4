// Package opaque simulates an opaque secure-value provider for the osqrt
// kernel. Words are only reachable through a ClientKey; the ServerKey
// evaluates operations on them but cannot reveal comparison results, so
// kernels running on it use fixed iteration loops.
//
// The masking used here provides no confidentiality. It stands in for a
// homomorphic scheme in tests and tools, keeping the same key handling:
// keys are passed explicitly and ciphertexts of different keys never mix.
package opaque

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrKeyMismatch is returned when a ciphertext was produced under another key.
var ErrKeyMismatch = errors.New("opaque: ciphertext belongs to another key")

type keyMaterial struct {
	id    uint32
	pad   uint64
	bit   uint8
	width uint
	mask  uint64
}

// ClientKey encrypts and decrypts words.
type ClientKey struct {
	k *keyMaterial
}

// ServerKey evaluates operations on ciphertexts of its ClientKey.
type ServerKey struct {
	k *keyMaterial
}

// GenerateKeys returns a fresh key pair for width-bit words.
func GenerateKeys(width uint) (*ClientKey, *ServerKey, error) {
	if width == 0 || width > 64 {
		return nil, nil, fmt.Errorf("opaque: unsupported width %d", width)
	}
	var seed [13]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, nil, fmt.Errorf("opaque: generating keys: %w", err)
	}
	mask := ^uint64(0)
	if width < 64 {
		mask = 1<<width - 1
	}
	k := &keyMaterial{
		id:    binary.LittleEndian.Uint32(seed[0:4]) | 1, // zero marks an uninitialized ciphertext
		pad:   binary.LittleEndian.Uint64(seed[4:12]) & mask,
		bit:   seed[12] & 1,
		width: width,
		mask:  mask,
	}
	return &ClientKey{k: k}, &ServerKey{k: k}, nil
}

// Width returns the word width of the key pair.
func (c *ClientKey) Width() uint {
	return c.k.width
}

// Encrypt returns the ciphertext of v truncated to the word width.
func (c *ClientKey) Encrypt(v uint64) Cipher {
	return c.k.seal(v)
}

// Decrypt returns the plaintext of x.
func (c *ClientKey) Decrypt(x Cipher) (uint64, error) {
	if x.key != c.k.id {
		return 0, ErrKeyMismatch
	}
	return c.k.open(x), nil
}

// EncryptBool returns the ciphertext of b.
func (c *ClientKey) EncryptBool(b bool) CipherBit {
	return c.k.sealBit(b)
}

// DecryptBool returns the plaintext of x.
func (c *ClientKey) DecryptBool(x CipherBit) (bool, error) {
	if x.key != c.k.id {
		return false, ErrKeyMismatch
	}
	return c.k.openBit(x), nil
}

func (k *keyMaterial) seal(v uint64) Cipher {
	return Cipher{key: k.id, body: (v & k.mask) ^ k.pad}
}

func (k *keyMaterial) open(x Cipher) uint64 {
	return x.body ^ k.pad
}

func (k *keyMaterial) sealBit(b bool) CipherBit {
	var v uint8
	if b {
		v = 1
	}
	return CipherBit{key: k.id, body: v ^ k.bit}
}

func (k *keyMaterial) openBit(x CipherBit) bool {
	return x.body^k.bit == 1
}

// Cipher is an encrypted word.
type Cipher struct {
	key  uint32
	body uint64
}

const cipherSize = 12

// MarshalBinary implements [encoding.BinaryMarshaler].
func (x Cipher) MarshalBinary() ([]byte, error) {
	buf := make([]byte, cipherSize)
	binary.LittleEndian.PutUint32(buf[0:4], x.key)
	binary.LittleEndian.PutUint64(buf[4:12], x.body)
	return buf, nil
}

// UnmarshalBinary implements [encoding.BinaryUnmarshaler].
func (x *Cipher) UnmarshalBinary(data []byte) error {
	if len(data) != cipherSize {
		return fmt.Errorf("opaque: invalid ciphertext length %d", len(data))
	}
	x.key = binary.LittleEndian.Uint32(data[0:4])
	x.body = binary.LittleEndian.Uint64(data[4:12])
	return nil
}

// CipherBit is an encrypted boolean.
type CipherBit struct {
	key  uint32
	body uint8
}
