package opaque

import (
	"sync/atomic"

	"github.com/shogo82148/osqrt"
)

// Counter wraps a backend and counts the operations evaluated through it.
// It never implements osqrt.Revealer, so a kernel running on a Counter uses
// fixed iteration loops even when the wrapped backend is transparent.
type Counter[V, B any] struct {
	inner  osqrt.Ops[V, B]
	counts [numOps]atomic.Int64
}

type op int

const (
	opConst op = iota
	opAnd
	opOr
	opXor
	opNot
	opShl
	opShr
	opAdd
	opSub
	opEq
	opGt
	opSelect
	opBoolAnd
	opBoolOr
	opBoolNot
	opBoolValue
	numOps
)

var opNames = [numOps]string{
	opConst:     "const",
	opAnd:       "and",
	opOr:        "or",
	opXor:       "xor",
	opNot:       "not",
	opShl:       "shl",
	opShr:       "shr",
	opAdd:       "add",
	opSub:       "sub",
	opEq:        "eq",
	opGt:        "gt",
	opSelect:    "select",
	opBoolAnd:   "booland",
	opBoolOr:    "boolor",
	opBoolNot:   "boolnot",
	opBoolValue: "boolvalue",
}

// NewCounter returns a Counter wrapping inner.
func NewCounter[V, B any](inner osqrt.Ops[V, B]) *Counter[V, B] {
	return &Counter[V, B]{inner: inner}
}

// Counts returns the number of evaluations per operation name.
// Operations never evaluated are omitted.
func (c *Counter[V, B]) Counts() map[string]int64 {
	m := make(map[string]int64)
	for i := range c.counts {
		if n := c.counts[i].Load(); n != 0 {
			m[opNames[i]] = n
		}
	}
	return m
}

// Total returns the number of evaluated operations.
func (c *Counter[V, B]) Total() int64 {
	var n int64
	for i := range c.counts {
		n += c.counts[i].Load()
	}
	return n
}

// Reset zeroes every count.
func (c *Counter[V, B]) Reset() {
	for i := range c.counts {
		c.counts[i].Store(0)
	}
}

func (c *Counter[V, B]) inc(o op) {
	c.counts[o].Add(1)
}

func (c *Counter[V, B]) Width() uint { return c.inner.Width() }

func (c *Counter[V, B]) Const(v uint64) V {
	c.inc(opConst)
	return c.inner.Const(v)
}

func (c *Counter[V, B]) And(a, b V) V {
	c.inc(opAnd)
	return c.inner.And(a, b)
}

func (c *Counter[V, B]) Or(a, b V) V {
	c.inc(opOr)
	return c.inner.Or(a, b)
}

func (c *Counter[V, B]) Xor(a, b V) V {
	c.inc(opXor)
	return c.inner.Xor(a, b)
}

func (c *Counter[V, B]) Not(a V) V {
	c.inc(opNot)
	return c.inner.Not(a)
}

func (c *Counter[V, B]) Shl(a V, n uint) V {
	c.inc(opShl)
	return c.inner.Shl(a, n)
}

func (c *Counter[V, B]) Shr(a V, n uint) V {
	c.inc(opShr)
	return c.inner.Shr(a, n)
}

func (c *Counter[V, B]) Add(a, b V) V {
	c.inc(opAdd)
	return c.inner.Add(a, b)
}

func (c *Counter[V, B]) Sub(a, b V) V {
	c.inc(opSub)
	return c.inner.Sub(a, b)
}

func (c *Counter[V, B]) Eq(a, b V) B {
	c.inc(opEq)
	return c.inner.Eq(a, b)
}

func (c *Counter[V, B]) Gt(a, b V) B {
	c.inc(opGt)
	return c.inner.Gt(a, b)
}

func (c *Counter[V, B]) Select(cond B, a, b V) V {
	c.inc(opSelect)
	return c.inner.Select(cond, a, b)
}

func (c *Counter[V, B]) BoolAnd(a, b B) B {
	c.inc(opBoolAnd)
	return c.inner.BoolAnd(a, b)
}

func (c *Counter[V, B]) BoolOr(a, b B) B {
	c.inc(opBoolOr)
	return c.inner.BoolOr(a, b)
}

func (c *Counter[V, B]) BoolNot(a B) B {
	c.inc(opBoolNot)
	return c.inner.BoolNot(a)
}

func (c *Counter[V, B]) BoolValue(b B) V {
	c.inc(opBoolValue)
	return c.inner.BoolValue(b)
}
