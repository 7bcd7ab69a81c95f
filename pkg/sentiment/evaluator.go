package sentiment

import (
	"fmt"
	"strings"
)

// DefaultMaxFactors bounds each factor list for downstream display.
const DefaultMaxFactors = 5

// Evaluator aggregates already-classified items into one Summary per corridor.
type Evaluator struct {
	// MaxFactors caps each factor list; <= 0 means DefaultMaxFactors.
	MaxFactors int
}

// NewEvaluator creates an Evaluator with the given factor-list cap.
func NewEvaluator(maxFactors int) *Evaluator {
	if maxFactors <= 0 {
		maxFactors = DefaultMaxFactors
	}
	return &Evaluator{MaxFactors: maxFactors}
}

// Aggregate combines per-item polarities into a bounded score and two
// deduplicated, capped factor lists. Empty input yields the neutral default.
func (e *Evaluator) Aggregate(corridor []string, items []ClassifiedItem) Summary {
	if len(items) == 0 {
		return Neutral("no news analyzed")
	}

	var positive, negative, neutral int
	var risks, positives []string
	for _, item := range items {
		switch item.Polarity {
		case PolarityPositive:
			positive++
		case PolarityNegative:
			negative++
		default:
			neutral++
		}
		risks = append(risks, item.RiskFactors...)
		positives = append(positives, item.PositiveFactors...)
	}

	total := positive + negative + neutral
	score := (float64(positive) + NeutralScore*float64(neutral)) / float64(total)
	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}

	max := e.MaxFactors
	if max <= 0 {
		max = DefaultMaxFactors
	}

	return Summary{
		Score:           score,
		RiskFactors:     dedupeAndCap(risks, max),
		PositiveFactors: dedupeAndCap(positives, max),
		Reasoning:       reasoning(corridor, positive, negative, neutral),
	}
}

// dedupeAndCap removes case-insensitive duplicates preserving first-seen
// order, then truncates to max entries.
func dedupeAndCap(factors []string, max int) []string {
	seen := make(map[string]bool, len(factors))
	result := []string{}
	for _, f := range factors {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		key := strings.ToLower(f)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, f)
		if len(result) == max {
			break
		}
	}
	return result
}

func reasoning(corridor []string, positive, negative, neutral int) string {
	total := positive + negative + neutral
	where := "the route corridor"
	if len(corridor) > 0 {
		where = strings.Join(corridor, "-")
	}

	switch {
	case negative > positive:
		return fmt.Sprintf("%d of %d articles report disruptions along %s", negative, total, where)
	case positive > negative:
		return fmt.Sprintf("%d of %d articles report improvements along %s", positive, total, where)
	default:
		return fmt.Sprintf("%d articles with no net transport impact along %s", total, where)
	}
}
