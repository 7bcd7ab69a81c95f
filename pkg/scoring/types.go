// Package scoring implements the Routeguard resilience scoring engine.
// It normalizes per-route metrics across a candidate set and combines them
// into one comparable 0-100 resilience score under user priority weights.
package scoring

// Status classifies a scored route by its overall resilience.
type Status string

const (
	StatusRecommended     Status = "Recommended"
	StatusFlagged         Status = "Flagged"
	StatusUnderEvaluation Status = "Under Evaluation"
)

// Status thresholds on the 0-100 overall score.
const (
	recommendedAbove = 80.0
	flaggedBelow     = 60.0
)

// StatusFromScore maps an overall score to a status tier.
func StatusFromScore(overall float64) Status {
	switch {
	case overall > recommendedAbove:
		return StatusRecommended
	case overall < flaggedBelow:
		return StatusFlagged
	default:
		return StatusUnderEvaluation
	}
}

// ComponentScores holds the four normalized metric scores, each in [0,1].
type ComponentScores struct {
	Time        float64 `json:"time_score"`
	Distance    float64 `json:"distance_score"`
	Carbon      float64 `json:"carbon_score"`
	RoadQuality float64 `json:"road_quality_score"`
}

// ResilienceScore is the complete scoring output for one candidate.
// Derived data: recomputed whenever weights or the candidate set change,
// always replaced wholesale, never mutated in place.
type ResilienceScore struct {
	RouteID    string          `json:"route_id"`
	RouteName  string          `json:"route_name"`
	Overall    float64         `json:"overall_resilience_score"` // 0-100
	Components ComponentScores `json:"component_scores"`
	Sentiment  float64         `json:"sentiment_score"` // 0-1
	Status     Status          `json:"status"`
}

// ExcludedCandidate records a candidate dropped from ranking, with the reason.
// Malformed metrics fail loudly per candidate instead of corrupting the
// weighted sum for everyone else.
type ExcludedCandidate struct {
	RouteID string `json:"route_id"`
	Reason  string `json:"reason"`
}

// Result is the ranked output of one scoring pass.
type Result struct {
	Scores      []ResilienceScore   `json:"scored_routes"` // ranked descending
	BestRouteID string              `json:"best_route_id"`
	Reason      string              `json:"reason_for_selection"`
	Excluded    []ExcludedCandidate `json:"excluded,omitempty"`
}
