// Package dashboard owns the dashboard state and talks to the prediction
// service on its behalf.
package dashboard

import (
	"context"
	"time"

	"github.com/Alias1177/SolarPredictor/internal/advisor"
	"github.com/Alias1177/SolarPredictor/internal/export"
	"github.com/Alias1177/SolarPredictor/internal/metrics"
	"github.com/Alias1177/SolarPredictor/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const hookTimeout = 10 * time.Second

// PredictionHook is called after a successful submission, e.g. to persist
// or forward the prediction. Hook errors are logged and otherwise ignored.
type PredictionHook func(ctx context.Context, rec models.PredictionRecord) error

type namedHook struct {
	name string
	hook PredictionHook
}

// Gateway performs predictions and publishes the resulting dashboard state
type Gateway struct {
	client models.PredictionClient
	store  *Store
	logger zerolog.Logger

	recordHistory bool
	historyLimit  int
	hooks         []namedHook

	now   func() time.Time
	newID func() string
}

// Option configures a Gateway
type Option func(*Gateway)

// WithHistory appends a history row after every successful submission,
// keeping at most limit rows
func WithHistory(limit int) Option {
	return func(g *Gateway) {
		g.recordHistory = true
		g.historyLimit = limit
	}
}

// WithHook registers a hook run after every successful submission
func WithHook(name string, hook PredictionHook) Option {
	return func(g *Gateway) {
		g.hooks = append(g.hooks, namedHook{name: name, hook: hook})
	}
}

// WithClock overrides the time source used for records
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// NewGateway creates a gateway publishing into store
func NewGateway(client models.PredictionClient, store *Store, opts ...Option) *Gateway {
	g := &Gateway{
		client: client,
		store:  store,
		logger: log.With().Str("component", "dashboard_gateway").Logger(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Store returns the state holder the gateway publishes into
func (g *Gateway) Store() *Store { return g.store }

// Predict requests a prediction. The dashboard record is updated before
// Predict returns, so observers see the outcome before the caller does.
func (g *Gateway) Predict(ctx context.Context, input models.PredictionInput) (*models.PredictionResponse, error) {
	g.store.Apply(WithLoading(true), ClearError())
	metrics.InFlightPredictions.Inc()
	defer metrics.InFlightPredictions.Dec()

	start := time.Now()
	resp, err := g.client.Predict(ctx, input)
	metrics.PredictionDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		perr := newPredictionError(err)
		g.store.Apply(WithLoading(false), WithError(perr.Message))
		metrics.PredictionsTotal.WithLabelValues("failure").Inc()
		g.logger.Error().Err(err).Int("status", perr.StatusCode).Str("message", perr.Message).Msg("Prediction failed")
		return nil, perr
	}

	g.store.Apply(WithCurrentPrediction(resp), WithLoading(false))
	metrics.PredictionsTotal.WithLabelValues("success").Inc()
	g.logger.Info().Float64("predicted_kw", resp.PredictedGeneratedKW).Msg("Prediction succeeded")
	return resp, nil
}

// CalculateOptimalConfiguration returns the recommended orientation for
// latitude. A month outside 1-12 means the current month.
func (g *Gateway) CalculateOptimalConfiguration(latitude float64, month int) models.OptimalConfiguration {
	if month < 1 || month > 12 {
		month = models.MonthOf(g.now())
	}
	return advisor.CalculateOptimalConfiguration(latitude, month)
}

// ExportData serialises the current record as csv or json
func (g *Gateway) ExportData(format string) ([]byte, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	payload, err := export.Encode(g.store.Snapshot(), f)
	if err != nil {
		return nil, err
	}
	metrics.ExportsTotal.WithLabelValues(string(f)).Inc()
	return payload, nil
}

// ClearData resets the record to its initial state
func (g *Gateway) ClearData() {
	g.store.Reset()
}

// ApplyUpdate merges a partial update into the record and publishes it
func (g *Gateway) ApplyUpdate(updates ...Update) models.DashboardData {
	return g.store.Apply(updates...)
}

// Snapshot returns the current record
func (g *Gateway) Snapshot() models.DashboardData {
	return g.store.Snapshot()
}

// Subscribe registers an observer with replay of the latest record
func (g *Gateway) Subscribe(observer Observer) func() {
	return g.store.Subscribe(observer)
}

// Submit runs a full dashboard submission: predict, derive the optimal
// configuration from the returned latitude, merge it into the record and
// run the registered hooks.
func (g *Gateway) Submit(ctx context.Context, input models.PredictionInput) (*models.PredictionRecord, error) {
	resp, err := g.Predict(ctx, input)
	if err != nil {
		return nil, err
	}

	optimal := g.CalculateOptimalConfiguration(resp.Latitude, 0)
	rec := models.PredictionRecord{
		ID:        g.newID(),
		Input:     input,
		Response:  *resp,
		Optimal:   &optimal,
		CreatedAt: g.now().UTC(),
	}

	updates := []Update{WithOptimalConfig(&optimal)}
	if g.recordHistory {
		updates = append(updates, AppendHistory(HistoryRowFor(rec), g.historyLimit))
	}
	g.store.Apply(updates...)

	g.runHooks(ctx, rec)
	return &rec, nil
}

func (g *Gateway) runHooks(ctx context.Context, rec models.PredictionRecord) {
	for _, h := range g.hooks {
		hookCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), hookTimeout)
		if err := h.hook(hookCtx, rec); err != nil {
			metrics.HookFailures.WithLabelValues(h.name).Inc()
			g.logger.Warn().Err(err).Str("hook", h.name).Str("prediction_id", rec.ID).Msg("Prediction hook failed")
		}
		cancel()
	}
}
