package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/quantara/routeguard/internal/analysis"
	"github.com/quantara/routeguard/internal/trip"
	"github.com/quantara/routeguard/pkg/compare"
	"github.com/quantara/routeguard/pkg/route"
	"github.com/quantara/routeguard/pkg/scoring"
	"github.com/quantara/routeguard/pkg/sentiment"
)

type createTripRequest struct {
	Reference   string `json:"reference"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

func (h *Handler) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	if !h.requireTrips(w) {
		return
	}

	var req createTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Reference == "" || req.Source == "" || req.Destination == "" {
		writeError(w, http.StatusBadRequest, "reference, source, and destination are required")
		return
	}

	t, err := h.tripSvc.EnsureTrip(r.Context(), req.Reference, req.Source, req.Destination)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "create trip: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *Handler) handleListTrips(w http.ResponseWriter, r *http.Request) {
	if !h.requireTrips(w) {
		return
	}

	trips, err := h.tripSvc.ListTrips(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list trips: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trips": trips})
}

func (h *Handler) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	if !h.requireTrips(w) {
		return
	}

	t, err := h.tripSvc.GetTrip(r.Context(), r.PathValue("tripID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type chooseRouteRequest struct {
	RouteName string                  `json:"route_name"`
	Metrics   route.Metrics           `json:"metrics"`
	Sentiment sentiment.Summary       `json:"sentiment"`
	Score     scoring.ResilienceScore `json:"resilience_score"`
	Weights   scoring.PriorityWeights `json:"priorities_used"`
}

// handleChooseRoute records the chosen route for a trip as an immutable
// snapshot and moves the trip in transit. Rerouting later records a new
// snapshot; earlier ones are never modified.
func (h *Handler) handleChooseRoute(w http.ResponseWriter, r *http.Request) {
	if !h.requireTrips(w) {
		return
	}

	tripID := r.PathValue("tripID")
	t, err := h.tripSvc.GetTrip(r.Context(), tripID)
	if err != nil {
		writeError(w, http.StatusNotFound, "trip not found")
		return
	}

	var req chooseRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.RouteName == "" {
		writeError(w, http.StatusBadRequest, "route_name is required")
		return
	}

	prev := compare.PreviousRoute{
		ID:          uuid.New().String(),
		TripID:      t.ID,
		RouteName:   req.RouteName,
		Source:      t.Origin,
		Destination: t.Destination,
		Metrics:     req.Metrics,
		Sentiment:   req.Sentiment,
		Score:       req.Score,
		Weights:     req.Weights,
		AnalyzedAt:  time.Now().UTC(),
	}
	if err := h.tripSvc.RecordPreviousRoute(r.Context(), prev); err != nil {
		writeError(w, http.StatusInternalServerError, "record route: "+err.Error())
		return
	}
	if err := h.tripSvc.UpdateTripStatus(r.Context(), t.ID, trip.StatusInTransit); err != nil {
		log.Printf("trip %s: update status: %v", t.ID, err)
	}

	writeJSON(w, http.StatusCreated, prev)
}

type rerouteRequest struct {
	// CurrentPosition is where the vehicle is now; the remaining leg runs
	// from here to the trip destination.
	CurrentPosition string              `json:"current_position"`
	Traveled        route.Metrics       `json:"traveled"`
	Priorities      *scoring.RawWeights `json:"priorities,omitempty"`
}

type rerouteResponse struct {
	Report   *compare.Report    `json:"report"`
	Analysis *analysis.Analysis `json:"analysis"`
}

// handleReroute analyzes the remaining leg of a disrupted trip, compares
// it against the trip's latest recorded route, and persists the report.
func (h *Handler) handleReroute(w http.ResponseWriter, r *http.Request) {
	if !h.requireTrips(w) {
		return
	}

	tripID := r.PathValue("tripID")
	t, err := h.tripSvc.GetTrip(r.Context(), tripID)
	if err != nil {
		writeError(w, http.StatusNotFound, "trip not found")
		return
	}

	var req rerouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.CurrentPosition == "" {
		writeError(w, http.StatusBadRequest, "current_position is required")
		return
	}

	prev, err := h.tripSvc.LatestPreviousRoute(r.Context(), t.ID)
	if err != nil {
		writeError(w, http.StatusConflict, "trip has no recorded route to compare against")
		return
	}

	report, a, err := h.analyses.CompareReroute(r.Context(), *prev, req.Traveled, analysis.AnalyzeRequest{
		Origin:      req.CurrentPosition,
		Destination: t.Destination,
		Weights:     req.Priorities,
	})
	if err != nil {
		if errors.Is(err, scoring.ErrInvalidWeights) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, "reroute: "+err.Error())
		return
	}

	if err := h.tripSvc.SaveReport(r.Context(), t.ID, report); err != nil {
		log.Printf("trip %s: save report: %v", t.ID, err)
	}
	if err := h.tripSvc.UpdateTripStatus(r.Context(), t.ID, trip.StatusRerouted); err != nil {
		log.Printf("trip %s: update status: %v", t.ID, err)
	}

	writeJSON(w, http.StatusOK, rerouteResponse{Report: report, Analysis: a})
}

// handlePreviousRoute returns the latest recorded route for a trip.
func (h *Handler) handlePreviousRoute(w http.ResponseWriter, r *http.Request) {
	if !h.requireTrips(w) {
		return
	}

	prev, err := h.tripSvc.LatestPreviousRoute(r.Context(), r.PathValue("tripID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "trip has no recorded route")
		return
	}
	writeJSON(w, http.StatusOK, prev)
}

func (h *Handler) handleRouteHistory(w http.ResponseWriter, r *http.Request) {
	if !h.requireTrips(w) {
		return
	}

	history, err := h.tripSvc.ListPreviousRoutes(r.Context(), r.PathValue("tripID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "route history: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"routes": history})
}

func (h *Handler) handleListReports(w http.ResponseWriter, r *http.Request) {
	if !h.requireTrips(w) {
		return
	}

	reports, err := h.tripSvc.ListReports(r.Context(), r.PathValue("tripID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list reports: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}
