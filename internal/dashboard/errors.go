package dashboard

import (
	"encoding/json"
	"errors"
	"strings"

	httpClient "github.com/Alias1177/SolarPredictor/internal/platform/http"
)

// FallbackErrorMessage is shown when the service gives no usable detail
const FallbackErrorMessage = "Prediction failed. Please try again."

// PredictionError is returned by Predict when the remote call fails.
// Message is the user-visible text also written to the dashboard record.
type PredictionError struct {
	Message    string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *PredictionError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *PredictionError) Unwrap() error { return e.Err }

func newPredictionError(err error) *PredictionError {
	perr := &PredictionError{Message: FallbackErrorMessage, Err: err}

	var statusErr *httpClient.HTTPStatusError
	if errors.As(err, &statusErr) {
		perr.StatusCode = statusErr.StatusCode
		if detail := errorDetail(statusErr.Body); detail != "" {
			perr.Message = detail
		}
	}
	return perr
}

// errorDetail returns the "detail" string of a JSON error body, if any.
// Non-string details (e.g. validation error lists) are ignored.
func errorDetail(body []byte) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	detail, ok := payload.Detail.(string)
	if !ok || strings.TrimSpace(detail) == "" {
		return ""
	}
	return detail
}
