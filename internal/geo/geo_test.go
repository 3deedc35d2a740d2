package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveAcceptsLegalRanges(t *testing.T) {
	adapter := NewAdapter()

	coords, err := adapter.Resolve(-7.98, 112.63)
	require.NoError(t, err)
	require.Equal(t, -7.98, coords.Lat)
	require.Equal(t, 112.63, coords.Lng)

	_, err = adapter.Resolve(90, 180)
	require.NoError(t, err)
	_, err = adapter.Resolve(-90, -180)
	require.NoError(t, err)
}

func TestResolveRejectsOutOfRange(t *testing.T) {
	adapter := NewAdapter()

	for _, pair := range [][2]float64{{91, 0}, {-91, 0}, {0, 181}, {0, -181}} {
		_, err := adapter.Resolve(pair[0], pair[1])
		require.ErrorIs(t, err, ErrUnavailable)
	}
}
