package bignum

// Fraction is a reduced rational built on top of Int, per §4.2. Canonical
// form keeps the numerator's magnitude with a non-negative sign and lets
// the denominator carry the fraction's overall sign; gcd(|num|, |den|) is
// always 1 (or num is the canonical zero 0/1).
type Fraction struct {
	Numerator   Int
	Denominator Int
}

// NewFraction builds a canonical Fraction equal to num/den.
func NewFraction(num, den Int) (Fraction, error) {
	if den.IsZero() {
		return Fraction{}, ErrDomainError
	}
	return Fraction{Numerator: num, Denominator: den}.optimise(), nil
}

// FractionFromInt lifts an Int to n/1.
func FractionFromInt(n Int) Fraction {
	return Fraction{Numerator: n.Abs(), Denominator: fractionSign(n.Sign())}
}

func fractionSign(sign int) Int {
	one := FromInt64(1)
	one.positive = sign >= 0
	return one
}

func gcdInt(a, b Int) Int {
	a, b = a.Abs(), b.Abs()
	for !b.IsZero() {
		_, r := divModMagnitude(a.limbs, b.limbs)
		a = b
		b = Int{positive: true, limbs: r}.normalize()
	}
	return a
}

func (f Fraction) optimise() Fraction {
	sign := f.Numerator.Sign() * f.Denominator.Sign()
	num := f.Numerator.Abs()
	den := f.Denominator.Abs()

	if num.IsZero() {
		return Fraction{Numerator: Zero(), Denominator: FromInt64(1)}
	}

	g := gcdInt(num, den)
	if g.Cmp(FromInt64(1)) != 0 {
		num, _ = num.Div(g)
		den, _ = den.Div(g)
	}
	den.positive = sign >= 0
	return Fraction{Numerator: num, Denominator: den}
}

// IsZero reports whether f == 0.
func (f Fraction) IsZero() bool { return f.Numerator.IsZero() }

// Sign returns -1, 0, or 1.
func (f Fraction) Sign() int {
	if f.Numerator.IsZero() {
		return 0
	}
	return f.Denominator.Sign()
}

// Neg returns -f.
func (f Fraction) Neg() Fraction {
	return Fraction{Numerator: f.Numerator, Denominator: f.Denominator.Neg()}
}

// Abs returns |f|.
func (f Fraction) Abs() Fraction {
	return Fraction{Numerator: f.Numerator, Denominator: f.Denominator.Abs()}
}

// Add returns f + g. Since Numerator is always non-negative and
// Denominator carries the fraction's sign, the ordinary cross-multiplied
// sum a/b + c/d = (a*d + c*b)/(b*d) holds without special-casing signs.
func (f Fraction) Add(g Fraction) Fraction {
	num := f.Numerator.Mul(g.Denominator).Add(g.Numerator.Mul(f.Denominator))
	den := f.Denominator.Mul(g.Denominator)
	return Fraction{Numerator: num, Denominator: den}.optimise()
}

// Sub returns f - g.
func (f Fraction) Sub(g Fraction) Fraction { return f.Add(g.Neg()) }

// Mul returns f * g.
func (f Fraction) Mul(g Fraction) Fraction {
	num := f.Numerator.Mul(g.Numerator)
	den := f.Denominator.Mul(g.Denominator)
	return Fraction{Numerator: num, Denominator: den}.optimise()
}

// Div returns f / g.
func (f Fraction) Div(g Fraction) (Fraction, error) {
	if g.IsZero() {
		return Fraction{}, ErrDomainError
	}
	num := f.Numerator.Mul(g.Denominator)
	den := f.Denominator.Mul(g.Numerator)
	return Fraction{Numerator: num, Denominator: den}.optimise(), nil
}

// Cmp compares f and g. Equal-sign operands compare safely by direct cross
// multiplication since Denominator*Denominator is then positive; opposite
// signs are resolved directly without needing to multiply at all.
func (f Fraction) Cmp(g Fraction) int {
	sf, sg := f.Sign(), g.Sign()
	if sf != sg {
		if sf < sg {
			return -1
		}
		return 1
	}
	lhs := f.Numerator.Mul(g.Denominator)
	rhs := g.Numerator.Mul(f.Denominator)
	return lhs.Cmp(rhs)
}

// Equal reports whether f == g.
func (f Fraction) Equal(g Fraction) bool { return f.Cmp(g) == 0 }

// PowInt raises f to an integer power by repeated squaring; a negative n
// returns the reciprocal of f^|n|.
func (f Fraction) PowInt(n int) Fraction {
	if n == 0 {
		return FractionFromInt(FromInt64(1))
	}
	neg := n < 0
	if neg {
		n = -n
	}
	result := FractionFromInt(FromInt64(1))
	base := f
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		n >>= 1
	}
	if neg {
		result, _ = FractionFromInt(FromInt64(1)).Div(result)
	}
	return result
}
