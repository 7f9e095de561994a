// Package export serialises dashboard state for download.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Alias1177/SolarPredictor/models"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// FileBaseName is the download name without extension
const FileBaseName = "solar-prediction-data"

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts "csv" or "json" (case-insensitive)
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FileName returns the download file name, e.g. solar-prediction-data.csv
func (f Format) FileName() string {
	return FileBaseName + "." + string(f)
}

// ContentType returns the MIME type of the payload
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// Encode serialises data in the given format
func Encode(data models.DashboardData, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return []byte(CSV(data.HistoricalData)), nil
	case FormatJSON:
		return JSON(data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
}

// JSON returns the whole record indented with two spaces
func JSON(data models.DashboardData) ([]byte, error) {
	if data.HistoricalData == nil {
		data.HistoricalData = []models.HistoryRow{}
	}
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding dashboard data: %w", err)
	}
	return payload, nil
}

// CSV renders rows with a header taken from the keys of the first row.
// Each row contributes its values in its own key order. Values are not
// quoted or escaped, so embedded commas and mismatched keys produce
// misaligned columns.
func CSV(rows []models.HistoryRow) string {
	if len(rows) == 0 {
		return ""
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(rows[0].Keys(), ","))
	for _, row := range rows {
		values := row.Values()
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = formatValue(v)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case []any:
		cells := make([]string, len(val))
		for i, item := range val {
			cells[i] = formatValue(item)
		}
		return strings.Join(cells, ",")
	case fmt.Stringer:
		return val.String()
	}
	return fmt.Sprint(v)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
