// Package bignum implements an arbitrary-precision integer (base 2^32) and a
// reduced rational built on top of it, per §4.2. Both types are value types:
// mutating methods return a new value rather than aliasing the receiver's
// limb buffer, so distinct values may be used concurrently from different
// goroutines.
package bignum

import "errors"

// ErrInvalidArgument covers a malformed numeric literal or a radix outside
// [2, 36].
var ErrInvalidArgument = errors.New("bignum: invalid argument")

// ErrDomainError covers a transcendental called outside its domain (ln of a
// non-positive value, arcsin of |x|>1, division by zero, ...).
var ErrDomainError = errors.New("bignum: domain error")
