package dashboard

import (
	"time"

	"github.com/Alias1177/SolarPredictor/models"
)

// HistoryRowFor flattens a prediction into a history row. The key order
// is the CSV column order.
func HistoryRowFor(rec models.PredictionRecord) models.HistoryRow {
	row := models.HistoryRow{
		{Key: "timestamp", Value: rec.CreatedAt.UTC().Format(time.RFC3339)},
		{Key: "location", Value: rec.Input.Location},
		{Key: "latitude", Value: rec.Response.Latitude},
		{Key: "longitude", Value: rec.Response.Longitude},
		{Key: "shortwave_radiation_backwards_sfc", Value: rec.Input.Irradiance},
		{Key: "azimuth", Value: rec.Input.Azimuth},
		{Key: "zenith", Value: rec.Input.Zenith},
		{Key: "angle_of_incidence", Value: rec.Input.AngleOfIncidence},
		{Key: "predicted_generated_kw", Value: rec.Response.PredictedGeneratedKW},
	}
	if rec.Optimal != nil {
		row = append(row,
			models.HistoryField{Key: "optimal_tilt", Value: rec.Optimal.OptimalTilt},
			models.HistoryField{Key: "optimal_azimuth", Value: rec.Optimal.OptimalAzimuth},
		)
	}
	return row
}

// HistoryRows converts stored predictions, oldest first
func HistoryRows(records []models.PredictionRecord) []models.HistoryRow {
	rows := make([]models.HistoryRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, HistoryRowFor(rec))
	}
	return rows
}
