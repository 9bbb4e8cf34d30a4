package osqrt

// Ops is the operation set a numeric backend must supply to run the kernel.
// V is the word type and B is the result type of comparisons; either may be
// opaque, in which case the kernel never inspects them.
//
// Shift amounts are always public. Select must evaluate both arms.
type Ops[V, B any] interface {
	// Width returns the word width in bits.
	Width() uint

	// Const returns the word holding the public constant v,
	// truncated to the word width.
	Const(v uint64) V

	And(a, b V) V
	Or(a, b V) V
	Xor(a, b V) V
	Not(a V) V
	Shl(a V, n uint) V
	Shr(a V, n uint) V
	Add(a, b V) V
	Sub(a, b V) V

	// Eq reports a == b.
	Eq(a, b V) B
	// Gt reports a > b, both treated as unsigned.
	Gt(a, b V) B

	// Select returns a if cond holds, b otherwise.
	Select(cond B, a, b V) V

	BoolAnd(a, b B) B
	BoolOr(a, b B) B
	BoolNot(a B) B

	// BoolValue returns 1 if b holds, 0 otherwise.
	BoolValue(b B) V
}

// Revealer is implemented by transparent backends whose comparison results
// may be branched on.
type Revealer[B any] interface {
	Reveal(b B) bool
}
