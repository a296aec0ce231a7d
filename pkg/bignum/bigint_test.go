package bignum

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInt_FromStringRoundTrip(t *testing.T) {
	cases := []string{"0", "1", "-1", "123456789012345678901234567890", "-42", "340282366920938463463374607431768211456"}
	for _, c := range cases {
		v, err := FromString(c, 10)
		require.NoError(t, err)
		require.Equal(t, c, v.String())
	}
}

func TestInt_FromStringRejectsInvalid(t *testing.T) {
	_, err := FromString("12x4", 10)
	require.Error(t, err)
	_, err = FromString("", 10)
	require.Error(t, err)
	_, err = FromString("12", 1)
	require.Error(t, err)
}

func TestInt_AddIdentity(t *testing.T) {
	x, _ := FromString("98765432109876543210", 10)
	require.True(t, x.Add(Zero()).Equal(x))
}

func TestInt_MulIdentity(t *testing.T) {
	x, _ := FromString("98765432109876543210", 10)
	one := FromInt64(1)
	require.True(t, x.Mul(one).Equal(x))
}

func TestInt_AddSubRoundTrip(t *testing.T) {
	a, _ := FromString("111222333444555666777888999", 10)
	b, _ := FromString("987654321", 10)
	require.True(t, a.Add(b).Sub(b).Equal(a))
}

func TestInt_DivModIdentity(t *testing.T) {
	a, _ := FromString("123456789012345678901234567890", 10)
	b, _ := FromString("98765432109", 10)
	q, r, err := a.DivMod(b)
	require.NoError(t, err)
	require.True(t, q.Mul(b).Add(r).Equal(a))
}

func TestInt_DivByZero(t *testing.T) {
	a := FromInt64(10)
	_, err := a.Div(Zero())
	require.ErrorIs(t, err, ErrDomainError)
}

func TestInt_KaratsubaMatchesSchoolbook(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		a := randomInt(rng, 200)
		b := randomInt(rng, 200)
		require.True(t, a.MulKaratsuba(b).Equal(a.MulSchoolbook(b)))
	}
}

func randomInt(rng *rand.Rand, limbCount int) Int {
	n := 1 + rng.Intn(limbCount)
	limbs := make([]uint32, n)
	for i := range limbs {
		limbs[i] = rng.Uint32()
	}
	return Int{positive: rng.Intn(2) == 0, limbs: limbs}.normalize()
}

func TestInt_ShiftRoundTrip(t *testing.T) {
	x, _ := FromString("123456789", 10)
	require.True(t, x.Shl(40).Shr(40).Equal(x))
}

func TestInt_Cmp(t *testing.T) {
	a := FromInt64(5)
	b := FromInt64(-5)
	require.Equal(t, 1, a.Cmp(b))
	require.Equal(t, -1, b.Cmp(a))
	require.Equal(t, 0, a.Cmp(FromInt64(5)))
}

func TestInt_IncDec(t *testing.T) {
	x := FromInt64(9)
	require.True(t, x.Inc().Equal(FromInt64(10)))
	require.True(t, x.Dec().Equal(FromInt64(8)))
}
