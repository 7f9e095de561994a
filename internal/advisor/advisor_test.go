package advisor

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateOptimalConfiguration(t *testing.T) {
	tests := []struct {
		name        string
		latitude    float64
		wantTilt    float64
		wantAzimuth float64
	}{
		{name: "Mumbai", latitude: 19.076, wantTilt: 19.076 - 10, wantAzimuth: 180},
		{name: "Clamped to max", latitude: 85, wantTilt: 60, wantAzimuth: 180},
		{name: "Clamped to min", latitude: 5, wantTilt: 0, wantAzimuth: 180},
		{name: "Equator is northern", latitude: 0, wantTilt: 0, wantAzimuth: 180},
		{name: "Sydney", latitude: -33.8688, wantTilt: 33.8688 - 10, wantAzimuth: 0},
		{name: "Southern clamp", latitude: -90, wantTilt: 60, wantAzimuth: 0},
		{name: "Just south of equator", latitude: -0.0001, wantTilt: 0, wantAzimuth: 0},
		{name: "Exactly at max", latitude: 70, wantTilt: 60, wantAzimuth: 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateOptimalConfiguration(tt.latitude, 6)
			if math.Abs(got.OptimalTilt-tt.wantTilt) > 1e-9 {
				t.Errorf("OptimalTilt = %v, want %v", got.OptimalTilt, tt.wantTilt)
			}
			if got.OptimalAzimuth != tt.wantAzimuth {
				t.Errorf("OptimalAzimuth = %v, want %v", got.OptimalAzimuth, tt.wantAzimuth)
			}
			if got.PredictedIncrease != 15 {
				t.Errorf("PredictedIncrease = %v, want 15", got.PredictedIncrease)
			}
		})
	}
}

func TestTiltMatchesClampFormula(t *testing.T) {
	for lat := -90.0; lat <= 90.0; lat += 0.5 {
		want := math.Max(0, math.Min(60, math.Abs(lat)-10))
		got := CalculateOptimalConfiguration(lat, 1)
		assert.Equal(t, want, got.OptimalTilt, "latitude %v", lat)
		if lat >= 0 {
			assert.Equal(t, 180.0, got.OptimalAzimuth, "latitude %v", lat)
		} else {
			assert.Equal(t, 0.0, got.OptimalAzimuth, "latitude %v", lat)
		}
	}
}

func TestMonthHasNoEffect(t *testing.T) {
	base := CalculateOptimalConfiguration(42.5, 1)
	for month := 1; month <= 12; month++ {
		assert.Equal(t, base, CalculateOptimalConfiguration(42.5, month))
	}
}

func TestCurrentMonth(t *testing.T) {
	orig := now
	defer func() { now = orig }()

	now = func() time.Time { return time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC) }
	assert.Equal(t, 10, CurrentMonth())
}
