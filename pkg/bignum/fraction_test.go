package bignum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFraction_Optimise(t *testing.T) {
	f, err := NewFraction(FromInt64(4), FromInt64(8))
	require.NoError(t, err)
	require.True(t, f.Numerator.Equal(FromInt64(1)))
	require.True(t, f.Denominator.Equal(FromInt64(2)))
}

func TestFraction_OptimiseKeepsSignOnDenominator(t *testing.T) {
	f, err := NewFraction(FromInt64(-3), FromInt64(6))
	require.NoError(t, err)
	require.True(t, f.Numerator.Equal(FromInt64(1)))
	require.True(t, f.Denominator.Equal(FromInt64(-2)))
	require.Equal(t, -1, f.Sign())
}

func TestFraction_DivByZero(t *testing.T) {
	_, err := NewFraction(FromInt64(1), FromInt64(0))
	require.ErrorIs(t, err, ErrDomainError)
}

func TestFraction_AddSubMulDiv(t *testing.T) {
	a, _ := NewFraction(FromInt64(1), FromInt64(2))
	b, _ := NewFraction(FromInt64(1), FromInt64(3))

	sum := a.Add(b)
	want, _ := NewFraction(FromInt64(5), FromInt64(6))
	require.True(t, sum.Equal(want))

	diff := a.Sub(b)
	wantDiff, _ := NewFraction(FromInt64(1), FromInt64(6))
	require.True(t, diff.Equal(wantDiff))

	prod := a.Mul(b)
	wantProd, _ := NewFraction(FromInt64(1), FromInt64(6))
	require.True(t, prod.Equal(wantProd))

	quot, err := a.Div(b)
	require.NoError(t, err)
	wantQuot, _ := NewFraction(FromInt64(3), FromInt64(2))
	require.True(t, quot.Equal(wantQuot))
}

func TestFraction_Cmp(t *testing.T) {
	a, _ := NewFraction(FromInt64(1), FromInt64(2))
	b, _ := NewFraction(FromInt64(2), FromInt64(3))
	require.Equal(t, -1, a.Cmp(b))
	require.Equal(t, 1, b.Cmp(a))
	require.Equal(t, 0, a.Cmp(a))
}

func epsilonFor(denominator int64) Fraction {
	return fracFromInts(1, denominator)
}

func TestFraction_SinCosIdentityAtZero(t *testing.T) {
	eps := epsilonFor(10000)
	s, err := Sin(fracZero, eps)
	require.NoError(t, err)
	require.True(t, s.Abs().Cmp(eps) < 0)

	c, err := Cos(fracZero, eps)
	require.NoError(t, err)
	require.True(t, c.Sub(fracOne).Abs().Cmp(eps) < 0)
}

// TestFraction_ArctanPiIdentity checks 4*arctan(1) - pi ~= 0 within 4*epsilon,
// the scenario described for this subsystem.
func TestFraction_ArctanPiIdentity(t *testing.T) {
	eps := epsilonFor(10000)
	a, err := Arctg(fracOne, eps)
	require.NoError(t, err)
	four := a.Mul(fracFromInts(4, 1))

	pi, err := piApprox(eps)
	require.NoError(t, err)

	diff := four.Sub(pi).Abs()
	bound := eps.Mul(fracFromInts(4, 1))
	require.True(t, diff.Cmp(bound) <= 0, "diff=%v bound=%v", diff, bound)
}

func TestFraction_LnOfOneIsZero(t *testing.T) {
	eps := epsilonFor(10000)
	v, err := Ln(fracOne, eps)
	require.NoError(t, err)
	require.True(t, v.Abs().Cmp(eps) < 0)
}

func TestFraction_ExpLnRoundTrip(t *testing.T) {
	eps := epsilonFor(1000)
	x := fracFromInts(3, 2)
	lx, err := Ln(x, eps)
	require.NoError(t, err)
	ex, err := Exp(lx, eps)
	require.NoError(t, err)
	require.True(t, ex.Sub(x).Abs().Cmp(eps.Mul(fracFromInts(10, 1))) < 0)
}

func TestFraction_DomainErrors(t *testing.T) {
	eps := epsilonFor(1000)
	_, err := Ln(FractionFromInt(FromInt64(-1)), eps)
	require.ErrorIs(t, err, ErrDomainError)

	_, err = Arcsin(fracFromInts(2, 1), eps)
	require.ErrorIs(t, err, ErrDomainError)

	_, err = Arcsec(fracHalf, eps)
	require.ErrorIs(t, err, ErrDomainError)
}
