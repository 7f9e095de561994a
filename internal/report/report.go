// Package report renders dashboard state into the texts and chart data
// shown to users.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Alias1177/SolarPredictor/models"
)

// PredictionSummary describes the current prediction, or "" when there is none
func PredictionSummary(p *models.PredictionResponse) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("Based on current conditions, your solar panels are expected to generate %.2f kW of power.", p.PredictedGeneratedKW)
}

// OptimalConfigurationText describes the recommended orientation, or "" when there is none
func OptimalConfigurationText(c *models.OptimalConfiguration) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("For optimal performance, set your panels to %s° tilt and %s° azimuth for up to %s%% increased efficiency.",
		number(c.OptimalTilt), number(c.OptimalAzimuth), number(c.PredictedIncrease))
}

// DashboardMessage combines every available text of a dashboard record,
// one per line
func DashboardMessage(d models.DashboardData) string {
	var lines []string
	if d.Error != nil {
		lines = append(lines, "Error: "+*d.Error)
	}
	if s := PredictionSummary(d.CurrentPrediction); s != "" {
		lines = append(lines, s)
	}
	if s := OptimalConfigurationText(d.OptimalConfig); s != "" {
		lines = append(lines, s)
	}
	return strings.Join(lines, "\n")
}

// RecordMessage formats a stored prediction for notifications
func RecordMessage(rec models.PredictionRecord) string {
	var b strings.Builder
	b.WriteString("☀️ Solar prediction")
	if rec.Input.Location != "" {
		b.WriteString(" for " + rec.Input.Location)
	}
	fmt.Fprintf(&b, " (%.4f, %.4f)\n", rec.Response.Latitude, rec.Response.Longitude)
	b.WriteString(PredictionSummary(&rec.Response))
	if text := OptimalConfigurationText(rec.Optimal); text != "" {
		b.WriteString("\n" + text)
	}
	return b.String()
}

// number prints v the way the dashboard always has: shortest form, no
// trailing zeros
func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PointColor picks the scatter point colour for a radiation value (W/m²)
func PointColor(radiation float64) string {
	switch {
	case radiation >= 600:
		return "#FDE047"
	case radiation >= 400:
		return "#FB7185"
	case radiation >= 200:
		return "#A78BFA"
	default:
		return "#1E40AF"
	}
}

// PointSize returns the scatter point radius for a radiation value
func PointSize(radiation float64) float64 {
	return math.Max(4, math.Min(12, radiation/50))
}
