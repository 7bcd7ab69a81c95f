// Package trip manages delivery trip state: trips, their immutable
// previous-route snapshots, and persisted reroute reports.
package trip

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/quantara/routeguard/pkg/compare"
	"github.com/quantara/routeguard/pkg/route"
	"github.com/quantara/routeguard/pkg/scoring"
	"github.com/quantara/routeguard/pkg/sentiment"
)

// Trip lifecycle statuses.
const (
	StatusPlanned   = "PLANNED"
	StatusInTransit = "IN_TRANSIT"
	StatusRerouted  = "REROUTED"
	StatusCompleted = "COMPLETED"
)

// Service provides trip and route-history persistence backed by Postgres.
type Service struct {
	db *sql.DB
}

// Trip represents one delivery run between an origin and a destination.
type Trip struct {
	ID          string
	Reference   string
	Origin      string
	Destination string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReportRow is a persisted reroute report.
type ReportRow struct {
	ID        string
	TripID    string
	Report    json.RawMessage
	CreatedAt time.Time
}

// NewService creates a new trip Service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// CreateTrip creates a new trip in the PLANNED state.
func (s *Service) CreateTrip(ctx context.Context, reference, origin, destination string) (*Trip, error) {
	t := &Trip{}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO trips (reference, origin, destination, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, reference, origin, destination, status, created_at, updated_at`,
		reference, origin, destination, StatusPlanned,
	).Scan(&t.ID, &t.Reference, &t.Origin, &t.Destination, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}
	return t, nil
}

// GetTrip retrieves a trip by ID.
func (s *Service) GetTrip(ctx context.Context, id string) (*Trip, error) {
	t := &Trip{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, reference, origin, destination, status, created_at, updated_at
		 FROM trips WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Reference, &t.Origin, &t.Destination, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get trip %s: %w", id, err)
	}
	return t, nil
}

// GetTripByReference looks up a trip by its external reference.
func (s *Service) GetTripByReference(ctx context.Context, reference string) (*Trip, error) {
	t := &Trip{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, reference, origin, destination, status, created_at, updated_at
		 FROM trips WHERE reference = $1`,
		reference,
	).Scan(&t.ID, &t.Reference, &t.Origin, &t.Destination, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get trip by reference %s: %w", reference, err)
	}
	return t, nil
}

// ListTrips returns all trips, newest first.
func (s *Service) ListTrips(ctx context.Context) ([]Trip, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, reference, origin, destination, status, created_at, updated_at
		 FROM trips ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	var trips []Trip
	for rows.Next() {
		var t Trip
		if err := rows.Scan(&t.ID, &t.Reference, &t.Origin, &t.Destination, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// UpdateTripStatus moves a trip to a new lifecycle status.
func (s *Service) UpdateTripStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE trips SET status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("update trip status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update trip status: trip %s not found", id)
	}
	return nil
}

// EnsureTrip gets or creates a trip by external reference.
func (s *Service) EnsureTrip(ctx context.Context, reference, origin, destination string) (*Trip, error) {
	t, err := s.GetTripByReference(ctx, reference)
	if err == nil {
		return t, nil
	}

	t, err = s.CreateTrip(ctx, reference, origin, destination)
	if err != nil {
		// Could be a race condition; try getting again
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return s.GetTripByReference(ctx, reference)
		}
		return nil, fmt.Errorf("ensure trip: %w", err)
	}
	return t, nil
}

// RecordPreviousRoute stores the chosen route for a trip. Rows are
// insert-only; a reroute records a new row rather than updating the old.
func (s *Service) RecordPreviousRoute(ctx context.Context, prev compare.PreviousRoute) error {
	metricsJSON, err := json.Marshal(prev.Metrics)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}
	sentimentJSON, err := json.Marshal(prev.Sentiment)
	if err != nil {
		return fmt.Errorf("marshal sentiment: %w", err)
	}
	scoreJSON, err := json.Marshal(prev.Score)
	if err != nil {
		return fmt.Errorf("marshal score: %w", err)
	}
	weightsJSON, err := json.Marshal(prev.Weights)
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO previous_routes (id, trip_id, route_name, source, destination, metrics, sentiment, score, priorities, analyzed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		prev.ID, prev.TripID, prev.RouteName, prev.Source, prev.Destination,
		metricsJSON, sentimentJSON, scoreJSON, weightsJSON, prev.AnalyzedAt,
	)
	if err != nil {
		return fmt.Errorf("insert previous route: %w", err)
	}
	return nil
}

// LatestPreviousRoute returns the most recently recorded route for a trip.
func (s *Service) LatestPreviousRoute(ctx context.Context, tripID string) (*compare.PreviousRoute, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, trip_id, route_name, source, destination, metrics, sentiment, score, priorities, analyzed_at
		 FROM previous_routes WHERE trip_id = $1
		 ORDER BY analyzed_at DESC LIMIT 1`,
		tripID,
	)
	prev, err := scanPreviousRoute(row)
	if err != nil {
		return nil, fmt.Errorf("latest previous route for trip %s: %w", tripID, err)
	}
	return prev, nil
}

// ListPreviousRoutes returns the full route history for a trip, newest first.
func (s *Service) ListPreviousRoutes(ctx context.Context, tripID string) ([]compare.PreviousRoute, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trip_id, route_name, source, destination, metrics, sentiment, score, priorities, analyzed_at
		 FROM previous_routes WHERE trip_id = $1
		 ORDER BY analyzed_at DESC`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("list previous routes: %w", err)
	}
	defer rows.Close()

	var history []compare.PreviousRoute
	for rows.Next() {
		prev, err := scanPreviousRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan previous route: %w", err)
		}
		history = append(history, *prev)
	}
	return history, rows.Err()
}

// SaveReport persists a reroute report for a trip.
func (s *Service) SaveReport(ctx context.Context, tripID string, report *compare.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reroute_reports (id, trip_id, report, created_at)
		 VALUES ($1, $2, $3, $4)`,
		report.ID, tripID, data, report.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reroute report: %w", err)
	}
	return nil
}

// ListReports returns all persisted reports for a trip, newest first.
func (s *Service) ListReports(ctx context.Context, tripID string) ([]ReportRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trip_id, report, created_at
		 FROM reroute_reports WHERE trip_id = $1
		 ORDER BY created_at DESC`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reroute reports: %w", err)
	}
	defer rows.Close()

	var reports []ReportRow
	for rows.Next() {
		var r ReportRow
		if err := rows.Scan(&r.ID, &r.TripID, &r.Report, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reroute report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreviousRoute(row rowScanner) (*compare.PreviousRoute, error) {
	var (
		prev          compare.PreviousRoute
		metricsJSON   []byte
		sentimentJSON []byte
		scoreJSON     []byte
		weightsJSON   []byte
	)
	err := row.Scan(&prev.ID, &prev.TripID, &prev.RouteName, &prev.Source, &prev.Destination,
		&metricsJSON, &sentimentJSON, &scoreJSON, &weightsJSON, &prev.AnalyzedAt)
	if err != nil {
		return nil, err
	}

	var metrics route.Metrics
	if err := json.Unmarshal(metricsJSON, &metrics); err != nil {
		return nil, fmt.Errorf("unmarshal metrics: %w", err)
	}
	var summary sentiment.Summary
	if err := json.Unmarshal(sentimentJSON, &summary); err != nil {
		return nil, fmt.Errorf("unmarshal sentiment: %w", err)
	}
	var score scoring.ResilienceScore
	if err := json.Unmarshal(scoreJSON, &score); err != nil {
		return nil, fmt.Errorf("unmarshal score: %w", err)
	}
	var weights scoring.PriorityWeights
	if err := json.Unmarshal(weightsJSON, &weights); err != nil {
		return nil, fmt.Errorf("unmarshal weights: %w", err)
	}

	prev.Metrics = metrics
	prev.Sentiment = summary
	prev.Score = score
	prev.Weights = weights
	return &prev, nil
}
