// Package sentiment aggregates classified news items into a corridor-level
// sentiment summary used by the resilience scoring engine.
package sentiment

import "time"

// NeutralScore is the sentiment score assigned when no signal is available.
const NeutralScore = 0.5

// Polarity is the per-article classification produced by the upstream
// classifier (an external collaborator; this package never classifies).
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
	PolarityNeutral  Polarity = "neutral"
)

// Item is a news-like item relevant to a route corridor.
type Item struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// ClassifiedItem is an Item after upstream classification.
type ClassifiedItem struct {
	Item
	Polarity        Polarity `json:"polarity"`
	RiskFactors     []string `json:"risk_factors,omitempty"`
	PositiveFactors []string `json:"positive_factors,omitempty"`
	Impact          string   `json:"impact,omitempty"`
}

// Summary is the aggregated sentiment for one corridor at a point in time.
// Score is in [0,1]; higher means more positive for transport.
type Summary struct {
	Score           float64  `json:"sentiment_score"`
	RiskFactors     []string `json:"risk_factors"`
	PositiveFactors []string `json:"positive_factors"`
	Reasoning       string   `json:"reasoning"`
}

// Neutral returns the fallback summary used when no news was analyzed or the
// upstream classifier is unavailable. Scoring must proceed on this default
// rather than fail.
func Neutral(reason string) Summary {
	if reason == "" {
		reason = "no news analyzed"
	}
	return Summary{
		Score:           NeutralScore,
		RiskFactors:     []string{},
		PositiveFactors: []string{},
		Reasoning:       reason,
	}
}
