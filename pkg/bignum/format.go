package bignum

import "strings"

const digitAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// String renders x in base 10.
func (x Int) String() string { return x.Text(10) }

// Text renders x in the given radix (2..36), matching the original's
// to_string behavior: a leading '-' for negative values, no leading zeros
// beyond a single "0".
func (x Int) Text(radix int) string {
	if radix < 2 || radix > 36 {
		radix = 10
	}
	if x.isZeroMagnitude() {
		return "0"
	}

	limbs := append([]uint32(nil), x.limbs...)
	r := []uint32{uint32(radix)}
	var digits []byte
	for !(len(limbs) == 1 && limbs[0] == 0) {
		q, rem := divModMagnitude(limbs, r)
		d := uint32(0)
		if len(rem) > 0 {
			d = rem[0]
		}
		digits = append(digits, digitAlphabet[d])
		limbs = trimMagnitude(q)
	}

	var b strings.Builder
	if !x.positive {
		b.WriteByte('-')
	}
	for i := len(digits) - 1; i >= 0; i-- {
		b.WriteByte(digits[i])
	}
	return b.String()
}
