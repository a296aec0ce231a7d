package bignum

// divModMagnitude computes (q, r) such that a == q*b + r, 0 <= r < b,
// using the binary-search-digit long division of §4.2: for each output
// limb position we binary-search the base-2^32 digit instead of guessing
// and correcting, since there is no hardware wide-divide to estimate from.
func divModMagnitude(a, b []uint32) (q, r []uint32) {
	if magnitudeLen(b) == 1 && b[0] == 0 {
		panic("bignum: division by zero magnitude")
	}
	if cmpMagnitude(a, b) < 0 {
		return []uint32{0}, append([]uint32(nil), a...)
	}

	n := magnitudeLen(a)
	quotient := make([]uint32, n)
	remainder := []uint32{0}

	for i := n - 1; i >= 0; i-- {
		remainder = shiftLimbs(remainder, 1)
		remainder[0] = a[i]
		remainder = trimMagnitude(remainder)

		// Binary search the largest digit d in [0, base) with b*d <= remainder.
		var lo, hi uint64 = 0, base - 1
		var best uint64
		for lo <= hi {
			mid := lo + (hi-lo)/2
			prod := mulMagnitudeSchoolbook(b, []uint32{uint32(mid)})
			if cmpMagnitude(prod, remainder) <= 0 {
				best = mid
				lo = mid + 1
			} else {
				if mid == 0 {
					break
				}
				hi = mid - 1
			}
		}
		quotient[i] = uint32(best)
		prod := mulMagnitudeSchoolbook(b, []uint32{uint32(best)})
		remainder = subMagnitudeChecked(remainder, prod)
		remainder = trimMagnitude(remainder)
	}

	return trimMagnitude(quotient), remainder
}

func trimMagnitude(a []uint32) []uint32 {
	n := len(a)
	for n > 1 && a[n-1] == 0 {
		n--
	}
	return a[:n]
}

// DivMod returns the quotient and remainder of x / y using truncating
// (toward zero) division, per §4.2. The remainder always carries x's sign
// (or is zero), matching the original's plus_assign-based long division.
func (x Int) DivMod(y Int) (q, r Int, err error) {
	if y.IsZero() {
		return Int{}, Int{}, ErrDomainError
	}
	qm, rm := divModMagnitude(x.limbs, y.limbs)
	quotient := Int{positive: x.positive == y.positive, limbs: qm}.normalize()
	remainder := Int{positive: x.positive, limbs: rm}.normalize()
	return quotient, remainder, nil
}

// Div returns the truncating quotient x / y.
func (x Int) Div(y Int) (Int, error) {
	q, _, err := x.DivMod(y)
	return q, err
}

// Mod returns the remainder of truncating division x / y.
func (x Int) Mod(y Int) (Int, error) {
	_, r, err := x.DivMod(y)
	return r, err
}
