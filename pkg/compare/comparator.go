package compare

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quantara/routeguard/pkg/route"
)

// ErrNoAlternatives is returned when a comparison is requested with no
// alternative candidates at all.
var ErrNoAlternatives = errors.New("no alternative routes to compare")

// Defaults for the comparator's tunable thresholds. The similarity tolerance
// is a heuristic meaning "close enough to be the same route", nothing more.
const (
	DefaultSimilarityTolerance = 0.05
	DefaultSentimentThreshold  = 0.05
)

// Options holds the comparator's configurable thresholds.
type Options struct {
	// SimilarityTolerance is the relative difference on total-journey time
	// and distance below which an alternative is treated as the same route.
	SimilarityTolerance float64
	// SentimentThreshold is the minimum score movement counted as a change.
	SentimentThreshold float64
}

func (o Options) withDefaults() Options {
	if o.SimilarityTolerance <= 0 {
		o.SimilarityTolerance = DefaultSimilarityTolerance
	}
	if o.SentimentThreshold <= 0 {
		o.SentimentThreshold = DefaultSentimentThreshold
	}
	return o
}

// Compare diffs the abandoned route against the ranked alternatives for the
// remaining leg and reports on the single best alternative. The traveled
// metrics are what the trip has already consumed; totals for each
// alternative are traveled plus its remaining-leg metrics.
func Compare(prev PreviousRoute, traveled route.Metrics, alternatives []Alternative, opts Options) (*Report, error) {
	if len(alternatives) == 0 {
		return nil, ErrNoAlternatives
	}
	opts = opts.withDefaults()

	deduped := Dedupe(prev, traveled, alternatives, opts.SimilarityTolerance)
	best := deduped[0]
	newTotals := traveled.Add(route.CandidateMetrics(&best.Candidate))

	report := &Report{
		ID:              uuid.New().String(),
		BestAlternative: best.Candidate.Name,
		SentimentChange: sentimentChange(prev.Sentiment.Score, best.Sentiment.Score, best.Sentiment.Reasoning, opts.SentimentThreshold),
		RiskComparison:  riskComparison(prev.Sentiment.RiskFactors, best.Sentiment.RiskFactors),
		Tradeoffs:       tradeoffs(prev.Metrics, newTotals),
		GeneratedAt:     time.Now().UTC(),
	}
	report.Summary = summaryLine(prev, best, report.SentimentChange)
	report.Recommendation = recommendation(prev, best, report)

	return report, nil
}

// Dedupe removes alternatives that are effectively the previous route, in
// two phases. It never returns an empty list when alternatives exist.
func Dedupe(prev PreviousRoute, traveled route.Metrics, alternatives []Alternative, tolerance float64) []Alternative {
	if len(alternatives) == 0 {
		return alternatives
	}
	if tolerance <= 0 {
		tolerance = DefaultSimilarityTolerance
	}

	// Phase 1: drop exact name matches against the abandoned route.
	kept := make([]Alternative, 0, len(alternatives))
	for _, alt := range alternatives {
		if alt.Candidate.Name == prev.RouteName {
			continue
		}
		kept = append(kept, alt)
	}
	if len(kept) == 0 {
		// Everything matched by name; revert rather than return nothing.
		return alternatives
	}
	if len(kept) < len(alternatives) {
		return kept
	}

	// Phase 2: no name match but more than one alternative. If the
	// first-ranked alternative's total journey is within tolerance of the
	// previous route on both time and distance, it is the same route under
	// a different name.
	if len(kept) > 1 {
		first := traveled.Add(route.CandidateMetrics(&kept[0].Candidate))
		if withinTolerance(first.DurationMin, prev.Metrics.DurationMin, tolerance) &&
			withinTolerance(first.DistanceM, prev.Metrics.DistanceM, tolerance) {
			return kept[1:]
		}
	}

	return kept
}

func withinTolerance(a, b, tolerance float64) bool {
	if b == 0 {
		return a == 0
	}
	return math.Abs(a-b)/math.Abs(b) < tolerance
}

func sentimentChange(old, new float64, reason string, threshold float64) SentimentChange {
	change := SentimentChange{Direction: DirectionStable, Reason: reason}
	switch {
	case new > old+threshold:
		change.Direction = DirectionImproved
	case new < old-threshold:
		change.Direction = DirectionWorsened
	}

	if old == 0 {
		change.PercentChange = "N/A"
		return change
	}
	change.PercentChange = fmt.Sprintf("%+.1f%%", (new-old)/old*100)
	return change
}

// riskComparison splits the previous route's risk factors into resolved and
// ongoing, and surfaces factors present only on the new route as new risks.
// Matching is case-insensitive; reported casing comes from the source list.
func riskComparison(oldRisks, newRisks []string) RiskComparison {
	oldSet := factorSet(oldRisks)
	newSet := factorSet(newRisks)

	comparison := RiskComparison{
		NewRisks:      []string{},
		ResolvedRisks: []string{},
		OngoingRisks:  []string{},
	}
	for _, risk := range oldRisks {
		if newSet[normalizeFactor(risk)] {
			comparison.OngoingRisks = append(comparison.OngoingRisks, risk)
		} else {
			comparison.ResolvedRisks = append(comparison.ResolvedRisks, risk)
		}
	}
	for _, risk := range newRisks {
		if !oldSet[normalizeFactor(risk)] {
			comparison.NewRisks = append(comparison.NewRisks, risk)
		}
	}
	return comparison
}

func factorSet(factors []string) map[string]bool {
	set := make(map[string]bool, len(factors))
	for _, f := range factors {
		set[normalizeFactor(f)] = true
	}
	return set
}

func normalizeFactor(f string) string {
	return strings.ToLower(strings.TrimSpace(f))
}

// tradeoffs emits one row per tracked factor. All four factors are
// lower-is-better, so a negative delta is an improvement.
func tradeoffs(old, new route.Metrics) []Tradeoff {
	rows := []struct {
		factor   string
		unit     string
		oldValue float64
		newValue float64
	}{
		{"time", "min", old.DurationMin, new.DurationMin},
		{"distance", "km", old.DistanceM / 1000, new.DistanceM / 1000},
		{"cost", "minor units", float64(old.CostMinor), float64(new.CostMinor)},
		{"carbon", "kg CO2", old.CarbonKg, new.CarbonKg},
	}

	result := make([]Tradeoff, 0, len(rows))
	for _, row := range rows {
		delta := row.newValue - row.oldValue
		assessment := AssessmentUnchanged
		if delta < -1e-9 {
			assessment = AssessmentImproved
		} else if delta > 1e-9 {
			assessment = AssessmentWorsened
		}
		result = append(result, Tradeoff{
			Factor:     row.factor,
			OldValue:   row.oldValue,
			NewValue:   row.newValue,
			Delta:      delta,
			Unit:       row.unit,
			Assessment: assessment,
		})
	}
	return result
}

func summaryLine(prev PreviousRoute, best Alternative, change SentimentChange) string {
	return fmt.Sprintf("Rerouted from %q to %q: resilience %.1f -> %.1f, sentiment %s",
		prev.RouteName, best.Candidate.Name, prev.Score.Overall, best.Score.Overall, change.Direction)
}

func recommendation(prev PreviousRoute, best Alternative, report *Report) string {
	resolved := len(report.RiskComparison.ResolvedRisks)
	gain := best.Score.Overall - prev.Score.Overall

	if gain >= 0 || report.SentimentChange.Direction == DirectionImproved {
		msg := fmt.Sprintf("The new route %q is recommended", best.Candidate.Name)
		if resolved > 0 {
			msg += fmt.Sprintf(": it resolves %d risk(s) from the abandoned route", resolved)
		}
		if gain > 0 {
			msg += fmt.Sprintf(" and raises the resilience score by %.1f points", gain)
		}
		return msg + "."
	}

	return fmt.Sprintf("The new route %q scores %.1f points below the abandoned route; "+
		"switch only if the disruption makes the original route impassable.",
		best.Candidate.Name, -gain)
}
