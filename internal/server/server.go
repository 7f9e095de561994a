// Package server exposes the dashboard to the browser over HTTP and
// WebSocket.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Alias1177/SolarPredictor/internal/dashboard"
	"github.com/Alias1177/SolarPredictor/internal/geo"
	"github.com/Alias1177/SolarPredictor/internal/metrics"
	"github.com/Alias1177/SolarPredictor/internal/validation"
	"github.com/Alias1177/SolarPredictor/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// HistoryStore returns persisted predictions, oldest first
type HistoryStore interface {
	RecentPredictions(ctx context.Context, limit int) ([]models.PredictionRecord, error)
}

// Options configures a Server
type Options struct {
	Profile        validation.Profile
	DefaultForm    validation.Form
	Locator        geo.CoordinateProvider
	History        HistoryStore // nil serves the in-memory history only
	HistoryLimit   int
	AllowedOrigins []string
	MetricsEnabled bool
}

// Server serves the dashboard API
type Server struct {
	gateway *dashboard.Gateway
	opts    Options
	logger  zerolog.Logger
}

// New creates a server on top of gateway
func New(gateway *dashboard.Gateway, opts Options) *Server {
	if opts.Profile.Name == "" {
		opts.Profile = validation.Wide
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 50
	}
	return &Server{
		gateway: gateway,
		opts:    opts,
		logger:  log.With().Str("component", "http_server").Logger(),
	}
}

// Routes wires middlewares and endpoints
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.opts.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/predict", s.handlePredict)

		api.Route("/dashboard", func(dr chi.Router) {
			dr.Get("/", s.handleGetDashboard)
			dr.Delete("/", s.handleResetDashboard)
			dr.Get("/ws", s.handleDashboardStream)
		})

		api.Get("/optimal", s.handleOptimal)
		api.Get("/export", s.handleExport)
		api.Get("/form/defaults", s.handleFormDefaults)
		api.Get("/location", s.handleLocation)
		api.Get("/history", s.handleHistory)
		api.Get("/chart", s.handleChart)
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request handled")
	})
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields validation.Errors `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
