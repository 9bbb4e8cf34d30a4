package osqrt

import (
	"errors"
	"fmt"
)

var (
	// ErrZeroInput is returned when a zero magnitude has to be normalized.
	ErrZeroInput = errors.New("osqrt: zero input")

	// ErrNegativeInput is returned when the square root of a negative value is requested.
	ErrNegativeInput = errors.New("osqrt: negative input")

	// ErrOrderOutOfBounds is returned when an order index does not bound the radicand.
	ErrOrderOutOfBounds = errors.New("osqrt: order out of bounds")

	// ErrWidthOverflow is returned when a shift, an order search or an input
	// exceeds what the word width can hold.
	ErrWidthOverflow = errors.New("osqrt: width overflow")

	// ErrOpaqueBranch is returned when an operation needs to branch on a value
	// the backend cannot reveal.
	ErrOpaqueBranch = errors.New("osqrt: backend cannot reveal comparison results")
)

// InputError records the entry point that rejected its input.
type InputError struct {
	Op  string
	Err error
}

func (e *InputError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *InputError) Unwrap() error { return e.Err }

func inputError(op string, err error) error {
	return &InputError{Op: op, Err: err}
}

// Fault is the tagged result of an input check, carried as a word so that
// opaque backends can return it without revealing it.
type Fault uint64

const (
	FaultNone Fault = iota
	FaultZeroInput
	FaultNegativeInput
	FaultWidthOverflow
)

// Err returns the error corresponding to f, or nil for FaultNone.
func (f Fault) Err() error {
	switch f {
	case FaultNone:
		return nil
	case FaultZeroInput:
		return ErrZeroInput
	case FaultNegativeInput:
		return ErrNegativeInput
	case FaultWidthOverflow:
		return ErrWidthOverflow
	}
	return fmt.Errorf("osqrt: unknown fault %d", uint64(f))
}

func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultZeroInput:
		return "zero input"
	case FaultNegativeInput:
		return "negative input"
	case FaultWidthOverflow:
		return "width overflow"
	}
	return fmt.Sprintf("Fault(%d)", uint64(f))
}
