package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Alias1177/SolarPredictor/internal/api/predictor"
	"github.com/Alias1177/SolarPredictor/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient blocks every call until release is closed
type fakeClient struct {
	release chan struct{}
	resp    *models.PredictionResponse
	err     error
}

func (f *fakeClient) Predict(ctx context.Context, _ models.PredictionInput) (*models.PredictionResponse, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.resp, f.err
}

// recorder collects every emitted record
type recorder struct {
	mu   sync.Mutex
	seen []models.DashboardData
}

func (r *recorder) observe(d models.DashboardData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, d)
}

func (r *recorder) all() []models.DashboardData {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.DashboardData(nil), r.seen...)
}

func (r *recorder) waitFor(t *testing.T, n int) []models.DashboardData {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := r.all(); len(got) >= n {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d emissions, got %d", n, len(r.all()))
	return nil
}

func sampleInput() models.PredictionInput {
	lat, lon := 19.076, 72.8777
	return models.PredictionInput{
		Location:         "Mumbai, India",
		Latitude:         &lat,
		Longitude:        &lon,
		Irradiance:       800,
		Azimuth:          180,
		Zenith:           45,
		AngleOfIncidence: 30,
	}
}

func mumbaiResponse() *models.PredictionResponse {
	return &models.PredictionResponse{Latitude: 19.076, Longitude: 72.8777, PredictedGeneratedKW: 4.2}
}

func TestPredictSuccessEmissions(t *testing.T) {
	client := &fakeClient{release: make(chan struct{}), resp: mumbaiResponse()}
	gw := NewGateway(client, NewStore())

	rec := &recorder{}
	defer gw.Subscribe(rec.observe)()

	done := make(chan error, 1)
	go func() {
		_, err := gw.Predict(context.Background(), sampleInput())
		done <- err
	}()

	// initial replay + loading
	seen := rec.waitFor(t, 2)
	assert.True(t, seen[1].Loading)
	assert.Nil(t, seen[1].Error)
	assert.Nil(t, seen[1].CurrentPrediction)

	close(client.release)
	require.NoError(t, <-done)

	seen = rec.all()
	require.Len(t, seen, 3)
	last := seen[2]
	assert.False(t, last.Loading)
	assert.Nil(t, last.Error)
	assert.Equal(t, mumbaiResponse(), last.CurrentPrediction)
}

func TestPredictErrorUsesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"bad zenith"}`))
	}))
	defer srv.Close()

	gw := NewGateway(predictor.NewClient(predictor.ClientOptions{BaseURL: srv.URL, RequestsPerSec: 50}), NewStore())

	var atFailure models.DashboardData
	_, err := gw.Predict(context.Background(), sampleInput())
	atFailure = gw.Snapshot()

	require.Error(t, err)
	var perr *PredictionError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "bad zenith", perr.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, perr.StatusCode)

	assert.False(t, atFailure.Loading)
	require.NotNil(t, atFailure.Error)
	assert.Equal(t, "bad zenith", *atFailure.Error)
}

func TestPredictErrorFallbackMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "No detail", body: `{"message":"boom"}`},
		{name: "Non-string detail", body: `{"detail":[{"loc":["body","zenith"],"msg":"too large"}]}`},
		{name: "Not JSON", body: `Internal error`},
		{name: "Empty detail", body: `{"detail":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			gw := NewGateway(predictor.NewClient(predictor.ClientOptions{BaseURL: srv.URL, RequestsPerSec: 50}), NewStore())
			_, err := gw.Predict(context.Background(), sampleInput())
			require.Error(t, err)

			state := gw.Snapshot()
			require.NotNil(t, state.Error)
			assert.Equal(t, FallbackErrorMessage, *state.Error)
			assert.False(t, state.Loading)
		})
	}
}

func TestPredictTransportErrorUsesFallback(t *testing.T) {
	cause := errors.New("connection refused")
	gw := NewGateway(&fakeClient{err: cause}, NewStore())

	_, err := gw.Predict(context.Background(), sampleInput())
	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))

	state := gw.Snapshot()
	require.NotNil(t, state.Error)
	assert.Equal(t, "Prediction failed. Please try again.", *state.Error)
}

func TestErrorIsPublishedBeforeReturn(t *testing.T) {
	gw := NewGateway(&fakeClient{err: errors.New("down")}, NewStore())

	var published bool
	defer gw.Subscribe(func(d models.DashboardData) {
		if d.Error != nil && !d.Loading {
			published = true
		}
	})()

	_, err := gw.Predict(context.Background(), sampleInput())
	require.Error(t, err)
	assert.True(t, published, "error state must be emitted before Predict returns")
}

func TestStalePredictionSurvivesLaterError(t *testing.T) {
	client := &fakeClient{resp: mumbaiResponse()}
	gw := NewGateway(client, NewStore())

	_, err := gw.Predict(context.Background(), sampleInput())
	require.NoError(t, err)

	client.resp, client.err = nil, errors.New("down")
	_, err = gw.Predict(context.Background(), sampleInput())
	require.Error(t, err)

	state := gw.Snapshot()
	assert.Equal(t, mumbaiResponse(), state.CurrentPrediction)
	require.NotNil(t, state.Error)
}

func TestClearData(t *testing.T) {
	gw := NewGateway(&fakeClient{resp: mumbaiResponse()}, NewStore(), WithHistory(10))
	_, err := gw.Submit(context.Background(), sampleInput())
	require.NoError(t, err)
	require.NotEmpty(t, gw.Snapshot().HistoricalData)

	gw.ClearData()

	payload, err := json.Marshal(gw.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, `{"current_prediction":null,"optimal_config":null,"historical_data":[],"loading":false,"error":null}`, string(payload))
}

func TestSubmitMergesOptimalConfig(t *testing.T) {
	gw := NewGateway(&fakeClient{resp: mumbaiResponse()}, NewStore())

	rec, err := gw.Submit(context.Background(), sampleInput())
	require.NoError(t, err)
	require.NotNil(t, rec.Optimal)

	state := gw.Snapshot()
	require.NotNil(t, state.OptimalConfig)
	assert.Equal(t, 180.0, state.OptimalConfig.OptimalAzimuth)
	assert.InDelta(t, 9.076, state.OptimalConfig.OptimalTilt, 1e-9)
	assert.Equal(t, 15.0, state.OptimalConfig.PredictedIncrease)
	assert.Empty(t, state.HistoricalData, "history stays empty unless enabled")
}

func TestSubmitRecordsHistoryAndRunsHooks(t *testing.T) {
	fixed := time.Date(2026, time.March, 3, 9, 30, 0, 0, time.UTC)
	var hooked []models.PredictionRecord

	gw := NewGateway(&fakeClient{resp: mumbaiResponse()}, NewStore(),
		WithHistory(2),
		WithClock(func() time.Time { return fixed }),
		WithHook("capture", func(_ context.Context, rec models.PredictionRecord) error {
			hooked = append(hooked, rec)
			return nil
		}),
		WithHook("broken", func(context.Context, models.PredictionRecord) error {
			return errors.New("unreachable")
		}),
	)

	for i := 0; i < 3; i++ {
		_, err := gw.Submit(context.Background(), sampleInput())
		require.NoError(t, err)
	}

	assert.Len(t, hooked, 3)
	assert.Equal(t, fixed, hooked[0].CreatedAt)
	assert.NotEmpty(t, hooked[0].ID)

	history := gw.Snapshot().HistoricalData
	require.Len(t, history, 2)
	ts, ok := history[0].Get("timestamp")
	require.True(t, ok)
	assert.Equal(t, "2026-03-03T09:30:00Z", ts)
	kw, _ := history[0].Get("predicted_generated_kw")
	assert.Equal(t, 4.2, kw)

	csv, err := gw.ExportData("csv")
	require.NoError(t, err)
	assert.Contains(t, string(csv), "timestamp,location,latitude,longitude,")
}

func TestSubmitFailureSkipsOptimalAndHooks(t *testing.T) {
	called := false
	gw := NewGateway(&fakeClient{err: errors.New("down")}, NewStore(),
		WithHook("capture", func(context.Context, models.PredictionRecord) error {
			called = true
			return nil
		}),
	)

	_, err := gw.Submit(context.Background(), sampleInput())
	require.Error(t, err)
	assert.False(t, called)
	assert.Nil(t, gw.Snapshot().OptimalConfig)
}

func TestApplyUpdateIsPublic(t *testing.T) {
	gw := NewGateway(&fakeClient{}, NewStore())
	rec := &recorder{}
	defer gw.Subscribe(rec.observe)()

	cfg := gw.CalculateOptimalConfiguration(-33.86, 0)
	gw.ApplyUpdate(WithOptimalConfig(&cfg))

	seen := rec.all()
	require.Len(t, seen, 2)
	assert.Equal(t, &cfg, seen[1].OptimalConfig)
	assert.Equal(t, 0.0, seen[1].OptimalConfig.OptimalAzimuth)
}

func TestExportJSONMatchesSnapshot(t *testing.T) {
	gw := NewGateway(&fakeClient{resp: mumbaiResponse()}, NewStore())
	_, err := gw.Submit(context.Background(), sampleInput())
	require.NoError(t, err)

	payload, err := gw.ExportData("json")
	require.NoError(t, err)

	var decoded models.DashboardData
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, gw.Snapshot(), decoded)

	csv, err := gw.ExportData("csv")
	require.NoError(t, err)
	assert.Equal(t, "", string(csv))

	_, err = gw.ExportData("pdf")
	assert.Error(t, err)
}
