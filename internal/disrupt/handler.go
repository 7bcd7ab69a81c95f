package disrupt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/quantara/routeguard/internal/analysis"
	"github.com/quantara/routeguard/internal/cache"
	"github.com/quantara/routeguard/internal/trip"
	"github.com/quantara/routeguard/pkg/compare"
	"github.com/quantara/routeguard/pkg/config"
)

// Handler processes incoming disruption-feed webhook events.
type Handler struct {
	secret   []byte
	routes   *cache.RouteCache
	trips    *trip.Service
	analyses *analysis.Service
}

// NewHandler creates a new disruption Handler. trips may be nil when the
// daemon runs without Postgres; trip updates are then only logged and no
// reroute comparison runs.
func NewHandler(secret []byte, routes *cache.RouteCache, trips *trip.Service, analyses *analysis.Service) *Handler {
	return &Handler{
		secret:   secret,
		routes:   routes,
		trips:    trips,
		analyses: analyses,
	}
}

// ServeHTTP handles incoming webhook requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1 MB limit
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("X-Routeguard-Signature")
	if err := VerifySignature(body, signature, h.secret); err != nil {
		log.Printf("webhook signature verification failed: %v", err)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	eventType := r.Header.Get("X-Routeguard-Event")
	if eventType == "" {
		http.Error(w, "missing X-Routeguard-Event header", http.StatusBadRequest)
		return
	}

	event, err := ParseEvent(eventType, body)
	if err != nil {
		log.Printf("webhook parse error for %s: %v", eventType, err)
		http.Error(w, "unsupported event", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	switch e := event.(type) {
	case *DisruptionEvent:
		report, err := h.handleDisruption(ctx, e)
		if err != nil {
			log.Printf("handle disruption event: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if report != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(report)
			return
		}

	case *TripUpdateEvent:
		if err := h.handleTripUpdate(ctx, e); err != nil {
			log.Printf("handle trip_update event: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
}

// handleDisruption drops cached analyses for the affected od-pairs so the
// next analyze call sees fresh routes and news. When the event names an
// active trip, it also compares the remaining leg against the trip's
// recorded route and returns the report.
func (h *Handler) handleDisruption(ctx context.Context, e *DisruptionEvent) (*compare.Report, error) {
	if h.routes != nil {
		for _, pair := range e.Pairs {
			key := config.ODSlug(pair.Origin, pair.Destination)
			h.routes.Invalidate(key)
			log.Printf("disruption %s (%s): invalidated cached analysis for %s", e.Kind, e.Severity, key)
		}
	}

	if e.TripReference == "" || e.CurrentPosition == "" {
		return nil, nil
	}
	if h.trips == nil || h.analyses == nil {
		log.Printf("disruption names trip %s but reroute comparison is not configured", e.TripReference)
		return nil, nil
	}

	t, err := h.trips.GetTripByReference(ctx, e.TripReference)
	if err != nil {
		return nil, fmt.Errorf("get trip %s: %w", e.TripReference, err)
	}
	prev, err := h.trips.LatestPreviousRoute(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("latest route for trip %s: %w", e.TripReference, err)
	}

	report, _, err := h.analyses.CompareReroute(ctx, *prev, e.Traveled, analysis.AnalyzeRequest{
		Origin:      e.CurrentPosition,
		Destination: t.Destination,
		Refresh:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("compare reroute for trip %s: %w", e.TripReference, err)
	}

	if err := h.trips.SaveReport(ctx, t.ID, report); err != nil {
		log.Printf("trip %s: save report: %v", t.ID, err)
	}
	return report, nil
}

func (h *Handler) handleTripUpdate(ctx context.Context, e *TripUpdateEvent) error {
	if h.trips == nil {
		log.Printf("trip %s reported status %s, persistence disabled", e.TripReference, e.Status)
		return nil
	}

	t, err := h.trips.GetTripByReference(ctx, e.TripReference)
	if err != nil {
		return fmt.Errorf("get trip %s: %w", e.TripReference, err)
	}
	if err := h.trips.UpdateTripStatus(ctx, t.ID, e.Status); err != nil {
		return fmt.Errorf("update trip %s status: %w", e.TripReference, err)
	}
	log.Printf("trip %s moved to %s", e.TripReference, e.Status)
	return nil
}
