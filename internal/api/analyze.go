package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quantara/routeguard/internal/analysis"
	"github.com/quantara/routeguard/pkg/scoring"
)

type analyzeRequest struct {
	Source      string              `json:"source"`
	Destination string              `json:"destination"`
	Priorities  *scoring.RawWeights `json:"priorities,omitempty"`
	Refresh     bool                `json:"refresh,omitempty"`
}

// handleAnalyze runs the full pipeline for an od-pair and returns the
// ranked resilience scores.
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Source == "" || req.Destination == "" {
		writeError(w, http.StatusBadRequest, "source and destination are required")
		return
	}

	a, err := h.analyses.Analyze(r.Context(), analysis.AnalyzeRequest{
		Origin:      req.Source,
		Destination: req.Destination,
		Weights:     req.Priorities,
		Refresh:     req.Refresh,
	})
	if err != nil {
		switch {
		case errors.Is(err, scoring.ErrInvalidWeights):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, scoring.ErrNoCandidates):
			writeError(w, http.StatusUnprocessableEntity, "no scoreable routes for this od-pair: "+err.Error())
		default:
			writeError(w, http.StatusBadGateway, "analyze: "+err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, a)
}

type rescoreRequest struct {
	Source      string              `json:"source"`
	Destination string              `json:"destination"`
	Priorities  *scoring.RawWeights `json:"priorities,omitempty"`
}

// handleRescore re-ranks an already analyzed od-pair under new priorities
// without calling external providers. Responds 404 when the od-pair has
// no cached analysis.
func (h *Handler) handleRescore(w http.ResponseWriter, r *http.Request) {
	var req rescoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Source == "" || req.Destination == "" {
		writeError(w, http.StatusBadRequest, "source and destination are required")
		return
	}

	a, err := h.analyses.Rescore(r.Context(), req.Source, req.Destination, req.Priorities)
	if err != nil {
		switch {
		case errors.Is(err, analysis.ErrCacheMiss):
			writeError(w, http.StatusNotFound, "no analysis for this od-pair; run analyze first")
		case errors.Is(err, scoring.ErrInvalidWeights):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "rescore: "+err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, a)
}
