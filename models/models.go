package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// PredictionInput holds the siting parameters sent to the prediction service
type PredictionInput struct {
	Location         string   `json:"location,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	Irradiance       float64  `json:"shortwave_radiation_backwards_sfc"` // W/m²
	Azimuth          float64  `json:"azimuth"`
	Zenith           float64  `json:"zenith"`
	AngleOfIncidence float64  `json:"angle_of_incidence"`
}

// PredictionResponse is the result returned by the prediction service
type PredictionResponse struct {
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
	PredictedGeneratedKW float64 `json:"predicted_generated_kw"`
}

// OptimalConfiguration is the recommended panel orientation for a latitude
type OptimalConfiguration struct {
	OptimalAzimuth    float64 `json:"optimal_azimuth"`
	OptimalTilt       float64 `json:"optimal_tilt"`
	PredictedIncrease float64 `json:"predicted_increase"` // percent
}

// DashboardData is the aggregate state rendered by the dashboard.
// Values are replaced on every change and must not be modified by readers.
type DashboardData struct {
	CurrentPrediction *PredictionResponse   `json:"current_prediction"`
	OptimalConfig     *OptimalConfiguration `json:"optimal_config"`
	HistoricalData    []HistoryRow          `json:"historical_data"`
	Loading           bool                  `json:"loading"`
	Error             *string               `json:"error"`
}

// InitialDashboardData returns the empty at-rest state
func InitialDashboardData() DashboardData {
	return DashboardData{
		HistoricalData: []HistoryRow{},
	}
}

// HistoryField is a single key/value pair of a history row
type HistoryField struct {
	Key   string
	Value any
}

// HistoryRow is a JSON object whose key order is preserved
type HistoryRow []HistoryField

// Keys returns the row keys in order
func (r HistoryRow) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// Values returns the row values in order
func (r HistoryRow) Values() []any {
	values := make([]any, len(r))
	for i, f := range r {
		values[i] = f.Value
	}
	return values
}

// Get returns the value stored under key
func (r HistoryRow) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalJSON encodes the row as an object keeping field order
func (r HistoryRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", f.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keeping field order. Numbers decode as float64.
func (r *HistoryRow) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("history row must be a JSON object")
	}

	row := HistoryRow{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected key token %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decoding %q: %w", key, err)
		}
		row = append(row, HistoryField{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = row
	return nil
}

// PredictionRecord is a persisted prediction with the inputs that produced it
type PredictionRecord struct {
	ID        string                `json:"id"`
	Input     PredictionInput       `json:"input"`
	Response  PredictionResponse    `json:"response"`
	Optimal   *OptimalConfiguration `json:"optimal,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}
