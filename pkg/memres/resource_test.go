package memres

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFitMode(t *testing.T) {
	m, err := ParseFitMode("BEST")
	require.NoError(t, err)
	require.Equal(t, Best, m)

	_, err = ParseFitMode("bogus")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSystemDefault_RoundTrip(t *testing.T) {
	p, err := Default.Allocate(32)
	require.NoError(t, err)
	require.NotNil(t, p)

	require.NoError(t, Default.Deallocate(p, 32))
	require.ErrorIs(t, Default.Deallocate(p, 32), ErrForeignBlock)
}

func TestSystemDefault_IsEqual(t *testing.T) {
	require.True(t, Default.IsEqual(Default))
}
