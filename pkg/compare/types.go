// Package compare diffs a previously chosen route against freshly scored
// alternatives and produces a structured tradeoff report for a reroute.
package compare

import (
	"time"

	"github.com/quantara/routeguard/pkg/route"
	"github.com/quantara/routeguard/pkg/scoring"
	"github.com/quantara/routeguard/pkg/sentiment"
)

// PreviousRoute is the durable snapshot of the route that was actually
// chosen for a trip. Created once per chosen route and never updated;
// a reroute creates a new record.
type PreviousRoute struct {
	ID          string                  `json:"id"`
	TripID      string                  `json:"trip_id"`
	RouteName   string                  `json:"route_name"`
	Source      string                  `json:"source"`
	Destination string                  `json:"destination"`
	Metrics     route.Metrics           `json:"metrics"`
	Sentiment   sentiment.Summary       `json:"sentiment"`
	Score       scoring.ResilienceScore `json:"resilience_score"`
	Weights     scoring.PriorityWeights `json:"priorities_used"`
	AnalyzedAt  time.Time               `json:"analyzed_at"`
}

// Alternative pairs a candidate for the remaining leg with its fresh score
// and corridor sentiment.
type Alternative struct {
	Candidate route.Candidate         `json:"candidate"`
	Score     scoring.ResilienceScore `json:"score"`
	Sentiment sentiment.Summary       `json:"sentiment"`
}

// Direction describes how sentiment moved between the old and new route.
type Direction string

const (
	DirectionImproved Direction = "improved"
	DirectionWorsened Direction = "worsened"
	DirectionStable   Direction = "stable"
)

// SentimentChange summarizes the sentiment movement.
// PercentChange is "N/A" when the old score was zero.
type SentimentChange struct {
	Direction     Direction `json:"direction"`
	PercentChange string    `json:"percentage_change"`
	Reason        string    `json:"reason"`
}

// RiskComparison splits risk factors by whether the reroute resolved them.
type RiskComparison struct {
	NewRisks      []string `json:"new_risks"`
	ResolvedRisks []string `json:"resolved_risks"`
	OngoingRisks  []string `json:"ongoing_risks"`
}

// Assessment is the qualitative tag on a tradeoff row, derived purely from
// the delta's sign and whether lower-is-better applies to the factor.
type Assessment string

const (
	AssessmentImproved  Assessment = "improved"
	AssessmentWorsened  Assessment = "worsened"
	AssessmentUnchanged Assessment = "unchanged"
)

// Tradeoff is one row of the per-factor comparison table. Numeric fields are
// carried from candidate creation onward; deltas are never re-derived from
// display strings.
type Tradeoff struct {
	Factor     string     `json:"factor"`
	OldValue   float64    `json:"old_value"`
	NewValue   float64    `json:"new_value"`
	Delta      float64    `json:"change"`
	Unit       string     `json:"unit"`
	Assessment Assessment `json:"assessment"`
}

// Report is the complete before/after comparison for one reroute event.
// Produced fresh every time; persistence is the caller's concern.
type Report struct {
	ID              string          `json:"id"`
	Summary         string          `json:"summary"`
	BestAlternative string          `json:"best_alternative"`
	SentimentChange SentimentChange `json:"sentiment_change"`
	RiskComparison  RiskComparison  `json:"risk_comparison"`
	Tradeoffs       []Tradeoff      `json:"tradeoffs"`
	Recommendation  string          `json:"recommendation"`
	GeneratedAt     time.Time       `json:"generated_at"`
}
