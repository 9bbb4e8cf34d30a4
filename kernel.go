package osqrt

import "fmt"

// Strategy selects how data-dependent control flow is executed.
type Strategy int

const (
	// Auto exits early when the backend implements Revealer and runs
	// fixed iterations otherwise.
	Auto Strategy = iota

	// EarlyExit branches on comparison results. It requires a Revealer.
	EarlyExit

	// Oblivious runs every loop for its static bound and turns every
	// conditional into Select.
	Oblivious
)

func (s Strategy) String() string {
	switch s {
	case Auto:
		return "auto"
	case EarlyExit:
		return "early"
	case Oblivious:
		return "oblivious"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy parses the names returned by Strategy.String.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "auto":
		return Auto, nil
	case "early":
		return EarlyExit, nil
	case "oblivious":
		return Oblivious, nil
	}
	return Auto, fmt.Errorf("osqrt: unknown strategy %q", s)
}

// ScanConvention selects the iteration bound of the leading bit scan.
type ScanConvention int

const (
	// ScanInclusive tests shifts 0 through width, width+1 iterations.
	ScanInclusive ScanConvention = iota

	// ScanExclusive tests shifts 0 through width-1, width iterations.
	// It agrees with ScanInclusive on every non-zero input below 2^(width+1)
	// and reports width instead of width+1 for zero.
	ScanExclusive
)

func (c ScanConvention) String() string {
	switch c {
	case ScanInclusive:
		return "inclusive"
	case ScanExclusive:
		return "exclusive"
	}
	return fmt.Sprintf("ScanConvention(%d)", int(c))
}

// ParseScanConvention parses the names returned by ScanConvention.String.
func ParseScanConvention(s string) (ScanConvention, error) {
	switch s {
	case "", "inclusive":
		return ScanInclusive, nil
	case "exclusive":
		return ScanExclusive, nil
	}
	return ScanInclusive, fmt.Errorf("osqrt: unknown scan convention %q", s)
}

type options struct {
	strategy Strategy
	scan     ScanConvention
}

// Option configures a Kernel.
type Option func(*options)

// WithStrategy sets the execution strategy. The default is Auto.
func WithStrategy(s Strategy) Option {
	return func(o *options) { o.strategy = s }
}

// WithScanConvention sets the leading bit scan bound. The default is ScanInclusive.
func WithScanConvention(c ScanConvention) Option {
	return func(o *options) { o.scan = c }
}

// Kernel runs the square root and float codec algorithms against one backend.
// A Kernel holds no mutable state and is safe for concurrent use if its
// backend is.
type Kernel[V, B any] struct {
	ops    Ops[V, B]
	reveal Revealer[B] // nil for opaque backends
	early  bool
	conv   ScanConvention
}

// New returns a Kernel running on ops.
func New[V, B any](ops Ops[V, B], opts ...Option) (*Kernel[V, B], error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	k := &Kernel[V, B]{ops: ops, conv: o.scan}
	if r, ok := ops.(Revealer[B]); ok {
		k.reveal = r
	}

	switch o.strategy {
	case Auto:
		k.early = k.reveal != nil
	case EarlyExit:
		if k.reveal == nil {
			return nil, ErrOpaqueBranch
		}
		k.early = true
	case Oblivious:
		k.early = false
	default:
		return nil, fmt.Errorf("osqrt: unknown strategy %d", int(o.strategy))
	}

	switch o.scan {
	case ScanInclusive, ScanExclusive:
	default:
		return nil, fmt.Errorf("osqrt: unknown scan convention %d", int(o.scan))
	}

	if ops.Width() < 32 {
		return nil, fmt.Errorf("%w: %d-bit words are too narrow for the float layout", ErrWidthOverflow, ops.Width())
	}
	return k, nil
}

// Ops returns the backend of k.
func (k *Kernel[V, B]) Ops() Ops[V, B] {
	return k.ops
}

// Strategy returns the strategy k resolved at construction.
func (k *Kernel[V, B]) Strategy() Strategy {
	if k.early {
		return EarlyExit
	}
	return Oblivious
}

// Transparent reports whether the backend implements Revealer.
func (k *Kernel[V, B]) Transparent() bool {
	return k.reveal != nil
}

// sel picks a or b. Under the early exit strategy it branches natively.
func (k *Kernel[V, B]) sel(cond B, a, b V) V {
	if k.early {
		if k.reveal.Reveal(cond) {
			return a
		}
		return b
	}
	return k.ops.Select(cond, a, b)
}

// le reports a <= b.
func (k *Kernel[V, B]) le(a, b V) B {
	return k.ops.BoolNot(k.ops.Gt(a, b))
}

func (k *Kernel[V, B]) isZero(x V) B {
	return k.ops.Eq(x, k.ops.Const(0))
}

func (k *Kernel[V, B]) truth() B {
	zero := k.ops.Const(0)
	return k.ops.Eq(zero, zero)
}

func (k *Kernel[V, B]) mask(n uint) V {
	return k.ops.Const(1<<n - 1)
}
