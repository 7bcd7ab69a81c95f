package scoring

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/quantara/routeguard/pkg/route"
	"github.com/quantara/routeguard/pkg/sentiment"
)

// ErrNoCandidates is returned when scoring is requested for an empty set.
var ErrNoCandidates = errors.New("no route candidates to score")

// Engine scores candidate sets. It is stateless: Score is a pure function of
// its inputs and may be called repeatedly with different weights over the
// same candidate set.
type Engine struct{}

// NewEngine creates a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score normalizes each metric across the candidate set, applies the weights,
// and produces a complete ranked Result. Sentiment summaries are looked up by
// corridor key; candidates without one receive the neutral default.
// Candidates with malformed metrics are excluded from ranking and reported,
// never propagated into the weighted sum.
func (e *Engine) Score(candidates []route.Candidate, sentiments map[string]sentiment.Summary, weights PriorityWeights) (*Result, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	if math.Abs(weights.Total()-1.0) > 1e-9 {
		return nil, fmt.Errorf("%w: total %.6f, want 1.0", ErrInvalidWeights, weights.Total())
	}

	result := &Result{}

	valid := make([]route.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if reason := malformedReason(&c); reason != "" {
			log.Printf("scoring: excluding route %s: %s", c.ID, reason)
			result.Excluded = append(result.Excluded, ExcludedCandidate{RouteID: c.ID, Reason: reason})
			continue
		}
		valid = append(valid, c)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: all %d candidates had malformed metrics", ErrNoCandidates, len(candidates))
	}

	durations := make([]float64, len(valid))
	distances := make([]float64, len(valid))
	carbons := make([]float64, len(valid))
	for i, c := range valid {
		durations[i] = c.DurationMin
		distances[i] = c.DistanceM
		carbons[i] = c.CarbonKg
	}
	timeScores := NormalizeLowerBetter(durations)
	distScores := NormalizeLowerBetter(distances)
	carbonScores := NormalizeLowerBetter(carbons)

	for i := range valid {
		c := &valid[i]
		components := ComponentScores{
			Time:        timeScores[i],
			Distance:    distScores[i],
			Carbon:      carbonScores[i],
			RoadQuality: RoadQualityScore(c),
		}

		sentimentScore := sentiment.NeutralScore
		if summary, ok := sentiments[c.CorridorKey()]; ok {
			sentimentScore = clamp01(summary.Score)
		}

		overall := 100 * (weights.Time*components.Time +
			weights.Distance*components.Distance +
			weights.Carbon*components.Carbon +
			weights.RoadQuality*components.RoadQuality +
			weights.Sentiment*sentimentScore)
		if overall < 0 {
			overall = 0
		} else if overall > 100 {
			overall = 100
		}

		result.Scores = append(result.Scores, ResilienceScore{
			RouteID:    c.ID,
			RouteName:  c.Name,
			Overall:    overall,
			Components: components,
			Sentiment:  sentimentScore,
			Status:     StatusFromScore(overall),
		})
	}

	// Rank descending; route ID breaks ties so repeated runs agree.
	sort.SliceStable(result.Scores, func(i, j int) bool {
		if result.Scores[i].Overall != result.Scores[j].Overall {
			return result.Scores[i].Overall > result.Scores[j].Overall
		}
		return result.Scores[i].RouteID < result.Scores[j].RouteID
	})

	// The top candidate is surfaced as best even when nothing clears the
	// Recommended bar: the caller is never left without a recommendation.
	best := result.Scores[0]
	result.BestRouteID = best.RouteID
	result.Reason = selectionReason(best)

	return result, nil
}

func malformedReason(c *route.Candidate) string {
	checks := []struct {
		name  string
		value float64
	}{
		{"duration", c.DurationMin},
		{"distance", c.DistanceM},
		{"carbon", c.CarbonKg},
		{"weather risk", c.AvgWeatherRisk},
		{"road quality", c.RoadQualityBase},
	}
	for _, check := range checks {
		if math.IsNaN(check.value) || math.IsInf(check.value, 0) {
			return fmt.Sprintf("%s is not a finite number", check.name)
		}
	}
	if c.DurationMin < 0 || c.DistanceM < 0 || c.CarbonKg < 0 {
		return "negative metric value"
	}
	return ""
}

// selectionReason names the best route's standout components, or falls back
// to a balance statement when nothing stands out.
func selectionReason(best ResilienceScore) string {
	var strengths []string
	if best.Components.Time > 0.8 {
		strengths = append(strengths, "excellent time efficiency")
	}
	if best.Components.Distance > 0.8 {
		strengths = append(strengths, "shortest distance")
	}
	if best.Components.Carbon > 0.8 {
		strengths = append(strengths, "lowest carbon emissions")
	}
	if best.Components.RoadQuality > 0.8 {
		strengths = append(strengths, "superior road conditions")
	}

	if len(strengths) == 0 {
		return "best overall balance of all factors"
	}
	return "best route due to: " + strings.Join(strengths, ", ")
}
