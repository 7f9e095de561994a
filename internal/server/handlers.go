package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Alias1177/SolarPredictor/internal/dashboard"
	"github.com/Alias1177/SolarPredictor/internal/export"
	"github.com/Alias1177/SolarPredictor/internal/geo"
	"github.com/Alias1177/SolarPredictor/internal/report"
	"github.com/Alias1177/SolarPredictor/internal/validation"
	"github.com/Alias1177/SolarPredictor/models"
)

const maxBodyBytes = 1 << 20

// dashboardView is the dashboard record plus its rendered texts
type dashboardView struct {
	models.DashboardData
	Summary     string `json:"summary"`
	OptimalText string `json:"optimal_text"`
}

func newDashboardView(d models.DashboardData) dashboardView {
	return dashboardView{
		DashboardData: d,
		Summary:       report.PredictionSummary(d.CurrentPrediction),
		OptimalText:   report.OptimalConfigurationText(d.OptimalConfig),
	}
}

type predictResponse struct {
	Record    *models.PredictionRecord `json:"record"`
	Dashboard dashboardView            `json:"dashboard"`
}

type predictFailure struct {
	Error     string        `json:"error"`
	Dashboard dashboardView `json:"dashboard"`
}

// handlePredict validates the form and runs a full submission
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var form validation.Form
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	input, err := validation.Validate(form, s.opts.Profile)
	if err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid form", Fields: fieldErrs})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := s.gateway.Submit(r.Context(), input)
	if err != nil {
		msg := dashboard.FallbackErrorMessage
		var perr *dashboard.PredictionError
		if errors.As(err, &perr) {
			msg = perr.Message
		}
		writeJSON(w, http.StatusBadGateway, predictFailure{Error: msg, Dashboard: newDashboardView(s.gateway.Snapshot())})
		return
	}

	writeJSON(w, http.StatusOK, predictResponse{Record: rec, Dashboard: newDashboardView(s.gateway.Snapshot())})
}

func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newDashboardView(s.gateway.Snapshot()))
}

type resetResponse struct {
	Dashboard dashboardView   `json:"dashboard"`
	Form      validation.Form `json:"form"`
}

// handleResetDashboard clears the record and hands back the default form
func (s *Server) handleResetDashboard(w http.ResponseWriter, r *http.Request) {
	s.gateway.ClearData()
	writeJSON(w, http.StatusOK, resetResponse{
		Dashboard: newDashboardView(s.gateway.Snapshot()),
		Form:      s.opts.DefaultForm,
	})
}

type optimalResponse struct {
	models.OptimalConfiguration
	Text string `json:"text"`
}

func (s *Server) handleOptimal(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	latitude, err := strconv.ParseFloat(q.Get("latitude"), 64)
	if err != nil || latitude < -90 || latitude > 90 {
		writeError(w, http.StatusBadRequest, "latitude must be a number between -90 and 90")
		return
	}

	month := 0
	if raw := q.Get("month"); raw != "" {
		month, err = strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
			return
		}
	}

	cfg := s.gateway.CalculateOptimalConfiguration(latitude, month)
	writeJSON(w, http.StatusOK, optimalResponse{OptimalConfiguration: cfg, Text: report.OptimalConfigurationText(&cfg)})
}

// handleExport streams the current record as a file download
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payload, err := s.gateway.ExportData(string(format))
	if err != nil {
		s.logger.Error().Err(err).Str("format", string(format)).Msg("Export failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.FileName()+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

type formDefaultsResponse struct {
	Form    validation.Form   `json:"form"`
	Labels  map[string]string `json:"labels"`
	Profile string            `json:"profile"`
}

func (s *Server) handleFormDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, formDefaultsResponse{
		Form:    s.opts.DefaultForm,
		Labels:  validation.Labels(),
		Profile: s.opts.Profile.Name,
	})
}

type locationResponse struct {
	geo.Coordinates
	Location string `json:"location"`
}

// handleLocation returns rounded coordinates; location is cleared the way
// the form does when coordinates come from the device
func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	pos, err := geo.Locate(r.Context(), s.opts.Locator)
	switch {
	case errors.Is(err, geo.ErrUnsupported):
		writeError(w, http.StatusNotImplemented, geo.ErrUnsupported.Error())
		return
	case err != nil:
		s.logger.Warn().Err(err).Msg("Geolocation failed")
		writeError(w, http.StatusServiceUnavailable, geo.ErrLocationUnavailable.Error())
		return
	}
	writeJSON(w, http.StatusOK, locationResponse{Coordinates: pos})
}

// handleHistory returns history rows from the store when configured,
// otherwise from the dashboard record
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := s.opts.HistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	if s.opts.History == nil {
		rows := s.gateway.Snapshot().HistoricalData
		if len(rows) > limit {
			rows = rows[len(rows)-limit:]
		}
		writeJSON(w, http.StatusOK, rows)
		return
	}

	records, err := s.opts.History.RecentPredictions(r.Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Loading history failed")
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	writeJSON(w, http.StatusOK, dashboard.HistoryRows(records))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, report.ReferenceScatterPlot())
}
