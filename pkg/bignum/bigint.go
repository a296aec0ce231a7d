package bignum

import (
	"strings"
)

// base is the limb radix, 2^32, matching §4.2.
const base uint64 = 1 << 32

// Int is an arbitrary-precision integer: a sign plus a little-endian vector
// of 32-bit limbs in base 2^32. Canonical form (maintained by normalize
// after every mutating operation) has no trailing zero limb except the
// single-limb representation of zero, whose sign is always positive.
type Int struct {
	positive bool
	limbs    []uint32 // little-endian, limbs[0] is least significant
}

// Zero returns the additive identity.
func Zero() Int { return Int{positive: true, limbs: []uint32{0}} }

// FromInt64 builds an Int from a native signed integer.
func FromInt64(v int64) Int {
	positive := v >= 0
	u := uint64(v)
	if !positive {
		u = uint64(-v)
	}
	return fromUint64(u, positive)
}

// FromUint64 builds an Int from a native unsigned integer.
func FromUint64(v uint64) Int {
	return fromUint64(v, true)
}

func fromUint64(u uint64, positive bool) Int {
	if u == 0 {
		return Zero()
	}
	var limbs []uint32
	for u > 0 {
		limbs = append(limbs, uint32(u%base))
		u /= base
	}
	return Int{positive: positive, limbs: limbs}.normalize()
}

// FromString parses an optionally signed literal in the given radix
// (2..36), rejecting stray characters.
func FromString(s string, radix int) (Int, error) {
	if radix < 2 || radix > 36 {
		return Int{}, ErrInvalidArgument
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return Int{}, ErrInvalidArgument
	}

	positive := true
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		positive = false
		s = s[1:]
	}
	if s == "" {
		return Int{}, ErrInvalidArgument
	}

	result := Zero()
	r := FromInt64(int64(radix))
	for i := 0; i < len(s); i++ {
		d, ok := digitValue(s[i])
		if !ok || int(d) >= radix {
			return Int{}, ErrInvalidArgument
		}
		result = result.mulAssign(r)
		result = result.addMagnitude(FromInt64(int64(d)))
	}
	result.positive = positive || result.isZeroMagnitude()
	return result.normalize(), nil
}

func digitValue(c byte) (uint32, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint32(c - '0'), true
	case c >= 'a' && c <= 'z':
		return uint32(c-'a') + 10, true
	case c >= 'A' && c <= 'Z':
		return uint32(c-'A') + 10, true
	default:
		return 0, false
	}
}

// normalize trims trailing zero limbs, keeping a single zero limb for the
// value zero and forcing its sign positive, per §3.
func (x Int) normalize() Int {
	for len(x.limbs) > 1 && x.limbs[len(x.limbs)-1] == 0 {
		x.limbs = x.limbs[:len(x.limbs)-1]
	}
	if len(x.limbs) == 0 {
		x.limbs = []uint32{0}
	}
	if x.isZeroMagnitude() {
		x.positive = true
	}
	return x
}

func (x Int) isZeroMagnitude() bool {
	for _, l := range x.limbs {
		if l != 0 {
			return false
		}
	}
	return true
}

// IsZero reports whether x is the additive identity.
func (x Int) IsZero() bool { return x.isZeroMagnitude() }

// Sign returns -1, 0, or 1.
func (x Int) Sign() int {
	if x.isZeroMagnitude() {
		return 0
	}
	if x.positive {
		return 1
	}
	return -1
}

// Neg returns -x.
func (x Int) Neg() Int {
	y := x
	y.limbs = append([]uint32(nil), x.limbs...)
	if !y.isZeroMagnitude() {
		y.positive = !y.positive
	}
	return y
}

// Abs returns |x|.
func (x Int) Abs() Int {
	y := x
	y.limbs = append([]uint32(nil), x.limbs...)
	y.positive = true
	return y
}

// cmpMagnitude compares |x| and |y|: limb count first, then MSB to LSB.
func cmpMagnitude(x, y []uint32) int {
	if len(x) != len(y) {
		if len(x) < len(y) {
			return -1
		}
		return 1
	}
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != y[i] {
			if x[i] < y[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Cmp compares x and y: sign first, then magnitude, per §4.2.
func (x Int) Cmp(y Int) int {
	xs, ys := x.Sign(), y.Sign()
	if xs != ys {
		if xs < ys {
			return -1
		}
		return 1
	}
	m := cmpMagnitude(x.limbs, y.limbs)
	if !x.positive {
		return -m
	}
	return m
}

// Equal reports whether x == y.
func (x Int) Equal(y Int) bool { return x.Cmp(y) == 0 }

func addMagnitude(a, b []uint32, shift int) []uint32 {
	n := len(a)
	if shift+len(b) > n {
		n = shift + len(b)
	}
	out := make([]uint32, n+1)
	copy(out, a)
	var carry uint64
	for i := 0; i < len(b) || carry != 0; i++ {
		var bv uint64
		if i < len(b) {
			bv = uint64(b[i])
		}
		idx := shift + i
		sum := uint64(out[idx]) + bv + carry
		out[idx] = uint32(sum % base)
		carry = sum / base
	}
	return out
}

// subMagnitude computes a - b (shifted by shift limbs), assuming a >= b<<shift.
func subMagnitude(a, b []uint32, shift int) []uint32 {
	out := make([]uint32, len(a))
	copy(out, a)
	var borrow int64
	for i := 0; i < len(b) || borrow != 0; i++ {
		var bv int64
		if i < len(b) {
			bv = int64(b[i])
		}
		idx := shift + i
		diff := int64(out[idx]) - bv - borrow
		if diff < 0 {
			diff += int64(base)
			borrow = 1
		} else {
			borrow = 0
		}
		out[idx] = uint32(diff)
	}
	return out
}

// addMagnitude (method) adds |y| to the receiver's magnitude, ignoring sign.
func (x Int) addMagnitude(y Int) Int {
	x.limbs = addMagnitude(x.limbs, y.limbs, 0)
	return x.normalize()
}

// PlusAssign adds other*B^shift to x in place (the shift is how the
// Karatsuba reduction in §4.2 combines partial products) and returns x.
func (x *Int) PlusAssign(other Int, shift int) *Int {
	if x.positive == other.positive {
		x.limbs = addMagnitude(x.limbs, other.limbs, shift)
	} else {
		shifted := shiftLimbs(other.limbs, shift)
		if cmpMagnitude(x.limbs, shifted) >= 0 {
			x.limbs = subMagnitude(x.limbs, other.limbs, shift)
		} else {
			x.limbs = subMagnitude(shifted, x.limbs, 0)
			x.positive = other.positive
		}
	}
	*x = x.normalize()
	return x
}

func shiftLimbs(a []uint32, shift int) []uint32 {
	if shift == 0 {
		return a
	}
	out := make([]uint32, shift+len(a))
	copy(out[shift:], a)
	return out
}

// MinusAssign subtracts other from x in place and returns x.
func (x *Int) MinusAssign(other Int, shift int) *Int {
	neg := other
	neg.positive = !neg.positive
	if neg.isZeroMagnitude() {
		neg.positive = true
	}
	return x.PlusAssign(neg, shift)
}

// Add returns x + y.
func (x Int) Add(y Int) Int {
	z := x
	z.limbs = append([]uint32(nil), x.limbs...)
	return *z.PlusAssign(y, 0)
}

// Sub returns x - y.
func (x Int) Sub(y Int) Int {
	z := x
	z.limbs = append([]uint32(nil), x.limbs...)
	return *z.MinusAssign(y, 0)
}

// Inc returns x + 1.
func (x Int) Inc() Int { return x.Add(FromInt64(1)) }

// Dec returns x - 1.
func (x Int) Dec() Int { return x.Sub(FromInt64(1)) }
