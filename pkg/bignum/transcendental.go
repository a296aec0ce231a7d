package bignum

// This file implements the Fraction transcendentals of §4.2 as truncated
// Maclaurin/Taylor series evaluated in exact rational arithmetic: summation
// stops once the next term's magnitude drops below the caller-supplied
// epsilon, per the supplemented-features decision to take epsilon as a
// per-call parameter rather than a package-wide constant.

const maxSeriesTerms = 100000

func fracFromInts(n, d int64) Fraction {
	f, _ := NewFraction(FromInt64(n), FromInt64(d))
	return f
}

var (
	fracZero = fracFromInts(0, 1)
	fracOne  = fracFromInts(1, 1)
	fracTwo  = fracFromInts(2, 1)
	fracHalf = fracFromInts(1, 2)
)

// Sin returns sin(x) accurate to within epsilon.
func Sin(x, epsilon Fraction) (Fraction, error) {
	sum := fracZero
	term := x
	x2 := x.Mul(x)
	for n := 0; term.Abs().Cmp(epsilon) >= 0; n++ {
		if n > maxSeriesTerms {
			return Fraction{}, ErrDomainError
		}
		sum = sum.Add(term)
		term = term.Mul(x2).Neg()
		term = term.Div2(int64((2*n + 2) * (2*n + 3)))
	}
	return sum, nil
}

// Div2 divides f by the given non-zero integer denominator, a small
// convenience used throughout the series expansions below.
func (f Fraction) Div2(d int64) Fraction {
	g, _ := f.Div(fracFromInts(d, 1))
	return g
}

// Cos returns cos(x) accurate to within epsilon.
func Cos(x, epsilon Fraction) (Fraction, error) {
	sum := fracZero
	term := fracOne
	x2 := x.Mul(x)
	for n := 0; term.Abs().Cmp(epsilon) >= 0; n++ {
		if n > maxSeriesTerms {
			return Fraction{}, ErrDomainError
		}
		sum = sum.Add(term)
		term = term.Mul(x2).Neg()
		term = term.Div2(int64((2*n + 1) * (2*n + 2)))
	}
	return sum, nil
}

// Tg returns tan(x) = sin(x)/cos(x).
func Tg(x, epsilon Fraction) (Fraction, error) {
	s, err := Sin(x, epsilon)
	if err != nil {
		return Fraction{}, err
	}
	c, err := Cos(x, epsilon)
	if err != nil {
		return Fraction{}, err
	}
	if c.IsZero() {
		return Fraction{}, ErrDomainError
	}
	v, _ := s.Div(c)
	return v, nil
}

// Ctg returns cot(x) = cos(x)/sin(x).
func Ctg(x, epsilon Fraction) (Fraction, error) {
	s, err := Sin(x, epsilon)
	if err != nil {
		return Fraction{}, err
	}
	c, err := Cos(x, epsilon)
	if err != nil {
		return Fraction{}, err
	}
	if s.IsZero() {
		return Fraction{}, ErrDomainError
	}
	v, _ := c.Div(s)
	return v, nil
}

// Sec returns 1/cos(x).
func Sec(x, epsilon Fraction) (Fraction, error) {
	c, err := Cos(x, epsilon)
	if err != nil {
		return Fraction{}, err
	}
	if c.IsZero() {
		return Fraction{}, ErrDomainError
	}
	v, _ := fracOne.Div(c)
	return v, nil
}

// Cosec returns 1/sin(x).
func Cosec(x, epsilon Fraction) (Fraction, error) {
	s, err := Sin(x, epsilon)
	if err != nil {
		return Fraction{}, err
	}
	if s.IsZero() {
		return Fraction{}, ErrDomainError
	}
	v, _ := fracOne.Div(s)
	return v, nil
}

// Arcsin returns asin(x) for |x| <= 1, via the standard binomial series.
func Arcsin(x, epsilon Fraction) (Fraction, error) {
	if x.Abs().Cmp(fracOne) > 0 {
		return Fraction{}, ErrDomainError
	}
	sum := fracZero
	term := x
	x2 := x.Mul(x)
	for n := 0; term.Abs().Cmp(epsilon) >= 0; n++ {
		if n > maxSeriesTerms {
			return Fraction{}, ErrDomainError
		}
		sum = sum.Add(term)
		num := int64(2*n+1) * int64(2*n+1)
		den := int64(2*n+2) * int64(2*n+3)
		term = term.Mul(x2).Mul(fracFromInts(num, den))
	}
	return sum, nil
}

// piApprox computes pi to within epsilon via pi = 6*arcsin(1/2), which
// converges far faster than 4*arctan(1).
func piApprox(epsilon Fraction) (Fraction, error) {
	tight := epsilon.Div2(6)
	half, _ := fracOne.Div(fracTwo)
	a, err := Arcsin(half, tight)
	if err != nil {
		return Fraction{}, err
	}
	return a.Mul(fracFromInts(6, 1)), nil
}

// Arccos returns acos(x) = pi/2 - asin(x) for |x| <= 1.
func Arccos(x, epsilon Fraction) (Fraction, error) {
	if x.Abs().Cmp(fracOne) > 0 {
		return Fraction{}, ErrDomainError
	}
	tight := epsilon.Div2(2)
	a, err := Arcsin(x, tight)
	if err != nil {
		return Fraction{}, err
	}
	pi, err := piApprox(tight)
	if err != nil {
		return Fraction{}, err
	}
	return pi.Div2(2).Sub(a), nil
}

// Arctg returns atan(x). For |x| <= 1 the Gregory series is used directly;
// otherwise atan(x) = sign(x)*pi/2 - atan(1/x).
func Arctg(x, epsilon Fraction) (Fraction, error) {
	if x.Abs().Cmp(fracOne) <= 0 {
		sum := fracZero
		term := x
		x2 := x.Mul(x)
		for n := 0; term.Abs().Cmp(epsilon) >= 0; n++ {
			if n > maxSeriesTerms {
				return Fraction{}, ErrDomainError
			}
			sum = sum.Add(term)
			term = term.Mul(x2).Neg().Mul(fracFromInts(int64(2*n+1), int64(2*n+3)))
		}
		return sum, nil
	}
	tight := epsilon.Div2(2)
	inv, _ := fracOne.Div(x)
	a, err := Arctg(inv, tight)
	if err != nil {
		return Fraction{}, err
	}
	pi, err := piApprox(tight)
	if err != nil {
		return Fraction{}, err
	}
	half := pi.Div2(2)
	if x.Sign() < 0 {
		half = half.Neg()
	}
	return half.Sub(a), nil
}

// Arcctg returns acot(x) = pi/2 - atan(x).
func Arcctg(x, epsilon Fraction) (Fraction, error) {
	tight := epsilon.Div2(2)
	a, err := Arctg(x, tight)
	if err != nil {
		return Fraction{}, err
	}
	pi, err := piApprox(tight)
	if err != nil {
		return Fraction{}, err
	}
	return pi.Div2(2).Sub(a), nil
}

// Arcsec returns asec(x) = acos(1/x) for |x| >= 1.
func Arcsec(x, epsilon Fraction) (Fraction, error) {
	if x.Abs().Cmp(fracOne) < 0 {
		return Fraction{}, ErrDomainError
	}
	inv, _ := fracOne.Div(x)
	return Arccos(inv, epsilon)
}

// Arccosec returns acsc(x) = asin(1/x) for |x| >= 1.
func Arccosec(x, epsilon Fraction) (Fraction, error) {
	if x.Abs().Cmp(fracOne) < 0 {
		return Fraction{}, ErrDomainError
	}
	inv, _ := fracOne.Div(x)
	return Arcsin(inv, epsilon)
}

// lnCore computes ln(x) for x close to 1 via ln(x) = 2*atanh((x-1)/(x+1)).
func lnCore(x, epsilon Fraction) (Fraction, error) {
	u, _ := x.Sub(fracOne).Div(x.Add(fracOne))
	u2 := u.Mul(u)
	sum := fracZero
	term := u
	for n := 0; term.Abs().Cmp(epsilon) >= 0; n++ {
		if n > maxSeriesTerms {
			return Fraction{}, ErrDomainError
		}
		sum = sum.Add(term.Div2(int64(2*n + 1)))
		term = term.Mul(u2)
	}
	return sum.Mul(fracTwo), nil
}

// Ln returns the natural log of x > 0, reducing the argument into [1, 2)
// before applying lnCore so the atanh series converges quickly.
func Ln(x, epsilon Fraction) (Fraction, error) {
	if x.Sign() <= 0 {
		return Fraction{}, ErrDomainError
	}
	tight := epsilon.Div2(4)
	ln2, err := lnCore(fracTwo, tight)
	if err != nil {
		return Fraction{}, err
	}

	y := x
	k := 0
	for n := 0; y.Cmp(fracTwo) >= 0; n++ {
		if n > maxSeriesTerms {
			return Fraction{}, ErrDomainError
		}
		y = y.Div2(2)
		k++
	}
	for n := 0; y.Cmp(fracOne) < 0; n++ {
		if n > maxSeriesTerms {
			return Fraction{}, ErrDomainError
		}
		y = y.Mul(fracTwo)
		k--
	}

	core, err := lnCore(y, tight)
	if err != nil {
		return Fraction{}, err
	}
	return core.Add(ln2.Mul(fracFromInts(int64(k), 1))), nil
}

// Log2 returns log base 2 of x > 0.
func Log2(x, epsilon Fraction) (Fraction, error) {
	tight := epsilon.Div2(2)
	lx, err := Ln(x, tight)
	if err != nil {
		return Fraction{}, err
	}
	l2, err := Ln(fracTwo, tight)
	if err != nil {
		return Fraction{}, err
	}
	v, _ := lx.Div(l2)
	return v, nil
}

// Lg returns log base 10 of x > 0.
func Lg(x, epsilon Fraction) (Fraction, error) {
	tight := epsilon.Div2(2)
	lx, err := Ln(x, tight)
	if err != nil {
		return Fraction{}, err
	}
	l10, err := Ln(fracFromInts(10, 1), tight)
	if err != nil {
		return Fraction{}, err
	}
	v, _ := lx.Div(l10)
	return v, nil
}

// Exp returns e^x via its Maclaurin series.
func Exp(x, epsilon Fraction) (Fraction, error) {
	sum := fracZero
	term := fracOne
	for n := 1; term.Abs().Cmp(epsilon) >= 0; n++ {
		if n > maxSeriesTerms {
			return Fraction{}, ErrDomainError
		}
		sum = sum.Add(term)
		term = term.Mul(x).Div2(int64(n))
	}
	return sum, nil
}

// Pow returns x^y for x > 0, via exp(y * ln(x)).
func Pow(x, y, epsilon Fraction) (Fraction, error) {
	if x.Sign() <= 0 {
		return Fraction{}, ErrDomainError
	}
	tight := epsilon.Div2(2)
	lx, err := Ln(x, tight)
	if err != nil {
		return Fraction{}, err
	}
	return Exp(lx.Mul(y), tight)
}

// Root returns the n-th root of x > 0.
func Root(x Fraction, n int, epsilon Fraction) (Fraction, error) {
	if n == 0 {
		return Fraction{}, ErrDomainError
	}
	return Pow(x, fracFromInts(1, int64(n)), epsilon)
}
