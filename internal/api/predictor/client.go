package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	httpClient "github.com/Alias1177/SolarPredictor/internal/platform/http"
	"github.com/Alias1177/SolarPredictor/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is where the prediction service listens in development
const DefaultBaseURL = "http://127.0.0.1:8000"

// Client is the prediction service API client
type Client struct {
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new prediction client
type ClientOptions struct {
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetries      int
	MaxRetryTimeout time.Duration
}

// NewClient creates a new prediction service client
func NewClient(options ClientOptions) *Client {
	httpOpts := httpClient.ClientOptions{
		Timeout:         options.RequestTimeout,
		RequestsPerSec:  options.RequestsPerSec,
		MaxRetries:      options.MaxRetries,
		MaxRetryTimeout: options.MaxRetryTimeout,
	}

	baseURL := strings.TrimRight(options.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient.NewClient(httpOpts),
		logger:     log.With().Str("component", "predictor_client").Logger(),
	}
}

// Predict calls POST {baseURL}/predict with the given input
func (c *Client) Predict(ctx context.Context, input models.PredictionInput) (*models.PredictionResponse, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal prediction input: %w", err)
	}

	url := c.baseURL + "/predict"
	c.logger.Debug().Str("url", url).RawJSON("input", body).Msg("Requesting prediction")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var out models.PredictionResponse
	if err := json.Unmarshal(data, &out); err != nil {
		c.logger.Error().Err(err).Str("response", string(data)).Msg("Error parsing JSON")
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	c.logger.Debug().
		Float64("latitude", out.Latitude).
		Float64("longitude", out.Longitude).
		Float64("predicted_kw", out.PredictedGeneratedKW).
		Msg("Prediction received")
	return &out, nil
}
