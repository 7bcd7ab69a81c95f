// Package api implements the hosted Routeguard REST API.
// It provides analysis and trip endpoints backed by Postgres and blob storage.
package api

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/quantara/routeguard/internal/analysis"
	"github.com/quantara/routeguard/internal/trip"
)

// Handler is the top-level API handler for the hosted Routeguard service.
type Handler struct {
	db       *sql.DB
	tripSvc  *trip.Service
	analyses *analysis.Service
}

// NewHandler creates a new API handler. tripSvc may be nil when running
// without Postgres; trip endpoints then return 503.
func NewHandler(db *sql.DB, tripSvc *trip.Service, analyses *analysis.Service) *Handler {
	return &Handler{
		db:       db,
		tripSvc:  tripSvc,
		analyses: analyses,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Analysis endpoints
	mux.HandleFunc("POST /api/v1/analyze", h.handleAnalyze)
	mux.HandleFunc("POST /api/v1/rescore", h.handleRescore)

	// Trip endpoints
	mux.HandleFunc("POST /api/v1/trips", h.handleCreateTrip)
	mux.HandleFunc("GET /api/v1/trips", h.handleListTrips)
	mux.HandleFunc("GET /api/v1/trips/{tripID}", h.handleGetTrip)
	mux.HandleFunc("POST /api/v1/trips/{tripID}/route", h.handleChooseRoute)
	mux.HandleFunc("POST /api/v1/trips/{tripID}/reroute", h.handleReroute)
	mux.HandleFunc("GET /api/v1/trips/{tripID}/previous-route", h.handlePreviousRoute)
	mux.HandleFunc("GET /api/v1/trips/{tripID}/history", h.handleRouteHistory)
	mux.HandleFunc("GET /api/v1/trips/{tripID}/reports", h.handleListReports)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requireTrips guards trip endpoints when the daemon runs without Postgres.
func (h *Handler) requireTrips(w http.ResponseWriter) bool {
	if h.tripSvc == nil {
		writeError(w, http.StatusServiceUnavailable, "trip persistence is not configured")
		return false
	}
	return true
}
