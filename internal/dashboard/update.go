package dashboard

import "github.com/Alias1177/SolarPredictor/models"

// Update changes some fields of a dashboard record. Updates receive a copy
// of the current record and must not modify slices or pointers they did
// not allocate themselves.
type Update func(*models.DashboardData)

// WithCurrentPrediction sets current_prediction
func WithCurrentPrediction(resp *models.PredictionResponse) Update {
	var stored *models.PredictionResponse
	if resp != nil {
		cp := *resp
		stored = &cp
	}
	return func(d *models.DashboardData) {
		d.CurrentPrediction = stored
	}
}

// WithOptimalConfig sets optimal_config
func WithOptimalConfig(cfg *models.OptimalConfiguration) Update {
	var stored *models.OptimalConfiguration
	if cfg != nil {
		cp := *cfg
		stored = &cp
	}
	return func(d *models.DashboardData) {
		d.OptimalConfig = stored
	}
}

// WithHistoricalData replaces historical_data
func WithHistoricalData(rows []models.HistoryRow) Update {
	stored := make([]models.HistoryRow, len(rows))
	copy(stored, rows)
	return func(d *models.DashboardData) {
		d.HistoricalData = stored
	}
}

// AppendHistory adds a row to historical_data, keeping at most limit rows
// (oldest dropped first). A limit <= 0 keeps everything.
func AppendHistory(row models.HistoryRow, limit int) Update {
	return func(d *models.DashboardData) {
		rows := make([]models.HistoryRow, 0, len(d.HistoricalData)+1)
		rows = append(rows, d.HistoricalData...)
		rows = append(rows, row)
		if limit > 0 && len(rows) > limit {
			rows = rows[len(rows)-limit:]
		}
		d.HistoricalData = rows
	}
}

// WithLoading sets loading
func WithLoading(loading bool) Update {
	return func(d *models.DashboardData) {
		d.Loading = loading
	}
}

// WithError sets error to msg
func WithError(msg string) Update {
	return func(d *models.DashboardData) {
		d.Error = &msg
	}
}

// ClearError sets error to null
func ClearError() Update {
	return func(d *models.DashboardData) {
		d.Error = nil
	}
}
