// Package osqrt computes integer square roots and single precision float
// decompositions with a data independent control flow.
//
// The algorithms are written once against [Ops], the operation set of a
// numeric backend. A transparent backend such as package plain may reveal
// comparison results, and the kernel then exits loops early. An opaque
// backend, such as an encrypted integer provider, cannot; the kernel then
// runs every loop for its static bound and expresses every conditional
// with Select, so that the sequence of operations does not depend on the
// operands.
//
// The packed float layout is the single precision one: 1 sign bit, 8
// exponent bits biased by 127 and 23 mantissa bits with a hidden leading 1.
// Rounding modes, subnormals, infinities and NaNs are not supported.
package osqrt
