// Package route defines the core route data model for Routeguard.
// These types are the shared vocabulary across all modules.
package route

import (
	"fmt"
	"strings"
	"time"
)

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Place is a named location, typically an origin or destination city.
type Place struct {
	Name string     `json:"name"`
	Coordinate
}

// Waypoint is a named intermediate location a route passes through.
type Waypoint struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Segment is a stretch of road with uniform characteristics.
// BaseQuality is on a 0-100 scale; zero means "look it up by road type".
type Segment struct {
	LengthM     float64 `json:"length_m"`
	RoadType    string  `json:"road_type,omitempty"`
	BaseQuality float64 `json:"base_quality,omitempty"`
}

// Candidate represents one fetched route option between an origin and a
// destination. Candidates are immutable once produced by the route collector;
// the scoring engine consumes them read-only.
type Candidate struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Geometry        []Coordinate `json:"geometry,omitempty"`
	DistanceM       float64      `json:"distance_m"`
	DurationMin     float64      `json:"duration_min"`
	CarbonKg        float64      `json:"carbon_kg"`
	CostMinor       int64        `json:"cost_minor,omitempty"` // currency minor units
	AvgWeatherRisk  float64      `json:"avg_weather_risk"`     // 0-1, higher is worse
	RoadQualityBase float64      `json:"road_quality_base"`    // 0-1, higher is better
	Segments        []Segment    `json:"segments,omitempty"`
	Waypoints       []Waypoint   `json:"waypoints,omitempty"`
	Corridor        []string     `json:"corridor,omitempty"` // canonical city names, ordered
}

// CorridorKey returns a stable string key for sentiment lookups.
// Candidates sharing a corridor share one sentiment summary.
func (c *Candidate) CorridorKey() string {
	if len(c.Corridor) == 0 {
		return ""
	}
	parts := make([]string, len(c.Corridor))
	for i, city := range c.Corridor {
		parts[i] = strings.ToLower(strings.TrimSpace(city))
	}
	return strings.Join(parts, "|")
}

// Metrics is the numeric trip summary carried alongside any display strings,
// so downstream consumers never re-derive numbers from presentation text.
type Metrics struct {
	DurationMin float64 `json:"duration_min"`
	DistanceM   float64 `json:"distance_m"`
	CostMinor   int64   `json:"cost_minor"`
	CarbonKg    float64 `json:"carbon_kg"`
}

// Add returns the component-wise sum of two metric sets.
// Used to combine already-traveled and remaining-leg figures into trip totals.
func (m Metrics) Add(other Metrics) Metrics {
	return Metrics{
		DurationMin: m.DurationMin + other.DurationMin,
		DistanceM:   m.DistanceM + other.DistanceM,
		CostMinor:   m.CostMinor + other.CostMinor,
		CarbonKg:    m.CarbonKg + other.CarbonKg,
	}
}

// CandidateMetrics extracts the numeric trip summary from a candidate.
func CandidateMetrics(c *Candidate) Metrics {
	return Metrics{
		DurationMin: c.DurationMin,
		DistanceM:   c.DistanceM,
		CostMinor:   c.CostMinor,
		CarbonKg:    c.CarbonKg,
	}
}

// CandidateSet is the raw output of one route fetch for an od-pair.
// Immutable once fetched; the cache stores and returns it verbatim.
type CandidateSet struct {
	ID          string      `json:"id"`
	Origin      Place       `json:"origin"`
	Destination Place       `json:"destination"`
	Candidates  []Candidate `json:"candidates"`
	FetchedAt   time.Time   `json:"fetched_at"`
}

// Emission parameters for a loaded diesel truck, used when the route
// collector did not supply a carbon estimate.
const (
	EmissionFactorKgPerKm = 0.8
	LoadFactor            = 1.2
	FuelCorrection        = 1.0
)

// EstimateCarbonKg derives a carbon estimate from distance alone.
func EstimateCarbonKg(distanceM float64) float64 {
	return (distanceM / 1000) * EmissionFactorKgPerKm * LoadFactor * FuelCorrection
}

// FormatDuration renders minutes as a human-readable string ("2h 30m", "45m").
func FormatDuration(minutes float64) string {
	total := int(minutes)
	if total < 60 {
		return fmt.Sprintf("%dm", total)
	}
	h := total / 60
	m := total % 60
	if m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dh", h)
}

// FormatDistance renders meters as a kilometer string ("12.4 km").
func FormatDistance(meters float64) string {
	return fmt.Sprintf("%.1f km", meters/1000)
}
