package geo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingProvider struct{ err error }

func (p failingProvider) CurrentPosition(context.Context) (Coordinates, error) {
	return Coordinates{}, p.err
}

func TestRound4(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{19.07601234, 19.076},
		{72.87777, 72.8778},
		{-33.868849, -33.8688},
		{0, 0},
	}
	for _, tt := range tests {
		if got := Round4(tt.in); got != tt.want {
			t.Errorf("Round4(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLocateRounds(t *testing.T) {
	pos, err := Locate(context.Background(), StaticProvider{Position: Coordinates{Latitude: 19.07601234, Longitude: 72.87777}})
	require.NoError(t, err)
	assert.Equal(t, Coordinates{Latitude: 19.076, Longitude: 72.8778}, pos)
}

func TestLocateFailure(t *testing.T) {
	cause := errors.New("permission denied")
	_, err := Locate(context.Background(), failingProvider{err: cause})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLocationUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "Unable to retrieve location. Please enter coordinates manually.", ErrLocationUnavailable.Error())

	_, err = Locate(context.Background(), StaticProvider{Position: Coordinates{Latitude: 91}})
	assert.True(t, errors.Is(err, ErrLocationUnavailable))
}

func TestLocateWithoutProvider(t *testing.T) {
	_, err := Locate(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnsupported)
}
