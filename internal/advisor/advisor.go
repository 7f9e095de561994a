// Package advisor derives a recommended panel orientation from latitude.
// The numbers come from a fixed heuristic, not from a physical model.
package advisor

import (
	"math"
	"time"

	"github.com/Alias1177/SolarPredictor/models"
)

const (
	tiltOffset = 10.0
	minTilt    = 0.0
	maxTilt    = 60.0

	// Panels face the equator
	azimuthNorthern = 180.0
	azimuthSouthern = 0.0

	// PredictedIncrease is the efficiency gain (%) reported for every recommendation
	PredictedIncrease = 15.0
)

// now is replaced in tests
var now = time.Now

// CurrentMonth returns the current calendar month (1-12)
func CurrentMonth() int {
	return models.MonthOf(now())
}

// CalculateOptimalConfiguration returns tilt = clamp(|lat|-10, 0, 60) and an
// azimuth of 180 for latitude >= 0, 0 otherwise. The month is reserved for a
// seasonal adjustment and currently has no effect.
func CalculateOptimalConfiguration(latitude float64, month int) models.OptimalConfiguration {
	_ = month

	tilt := math.Abs(latitude) - tiltOffset

	azimuth := azimuthSouthern
	if latitude >= 0 {
		azimuth = azimuthNorthern
	}

	return models.OptimalConfiguration{
		OptimalAzimuth:    azimuth,
		OptimalTilt:       math.Max(minTilt, math.Min(maxTilt, tilt)),
		PredictedIncrease: PredictedIncrease,
	}
}
