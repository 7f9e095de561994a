// Package geo resolves the coordinates used to prefill the dashboard form.
package geo

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrLocationUnavailable is returned when the provider could not locate the user
	ErrLocationUnavailable = errors.New("Unable to retrieve location. Please enter coordinates manually.")
	// ErrUnsupported is returned when no provider is configured
	ErrUnsupported = errors.New("Geolocation is not supported by this browser.")
)

// Coordinates is a position in decimal degrees
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CoordinateProvider returns the current position
type CoordinateProvider interface {
	CurrentPosition(ctx context.Context) (Coordinates, error)
}

// StaticProvider always reports the same position
type StaticProvider struct {
	Position Coordinates
}

// CurrentPosition implements CoordinateProvider
func (p StaticProvider) CurrentPosition(ctx context.Context) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	return p.Position, nil
}

// Round4 rounds v to 4 decimal places
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Locate asks provider for the current position and rounds it for the
// form. Provider failures are reported as ErrLocationUnavailable.
func Locate(ctx context.Context, provider CoordinateProvider) (Coordinates, error) {
	if provider == nil {
		return Coordinates{}, ErrUnsupported
	}

	pos, err := provider.CurrentPosition(ctx)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %w", ErrLocationUnavailable, err)
	}
	if math.IsNaN(pos.Latitude) || math.IsNaN(pos.Longitude) ||
		math.Abs(pos.Latitude) > 90 || math.Abs(pos.Longitude) > 180 {
		return Coordinates{}, fmt.Errorf("%w: position out of range", ErrLocationUnavailable)
	}

	return Coordinates{Latitude: Round4(pos.Latitude), Longitude: Round4(pos.Longitude)}, nil
}
