package scoring

import (
	"errors"
	"fmt"
	"math"
)

// The sentiment weight is policy-fixed so news-derived risk is always a
// meaningful factor in every recommendation. It is never driver-adjustable;
// the four user weights share the remaining budget.
const (
	SentimentWeight  = 0.20
	UserWeightBudget = 0.80
)

// ErrInvalidWeights is returned for malformed raw weights.
var ErrInvalidWeights = errors.New("invalid priority weights")

// RawWeights are the user-facing priority sliders, expressed as raw
// percentages. They need not sum to 100; Redistribute scales them.
// Safety maps onto the road-quality component.
type RawWeights struct {
	Time           float64 `json:"time"`
	Distance       float64 `json:"distance"`
	Safety         float64 `json:"safety"`
	CarbonEmission float64 `json:"carbonEmission"`
}

// DefaultRawWeights gives every slider equal importance.
func DefaultRawWeights() RawWeights {
	return RawWeights{Time: 25, Distance: 25, Safety: 25, CarbonEmission: 25}
}

// PriorityWeights are the effective per-component weights after
// redistribution. The four user weights sum to exactly 0.80 and the fixed
// sentiment weight brings the total to 1.0.
type PriorityWeights struct {
	Time        float64 `json:"time"`
	Distance    float64 `json:"distance"`
	Carbon      float64 `json:"carbon"`
	RoadQuality float64 `json:"road_quality"`
	Sentiment   float64 `json:"sentiment"`
}

// Redistribute scales raw user percentages proportionally so they sum to the
// user budget, then adds the fixed sentiment weight.
func Redistribute(raw RawWeights) (PriorityWeights, error) {
	for name, v := range map[string]float64{
		"time":           raw.Time,
		"distance":       raw.Distance,
		"safety":         raw.Safety,
		"carbonEmission": raw.CarbonEmission,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return PriorityWeights{}, fmt.Errorf("%w: %s is not a number", ErrInvalidWeights, name)
		}
		if v < 0 {
			return PriorityWeights{}, fmt.Errorf("%w: %s is negative", ErrInvalidWeights, name)
		}
	}

	sum := raw.Time + raw.Distance + raw.Safety + raw.CarbonEmission
	if sum == 0 {
		return PriorityWeights{}, fmt.Errorf("%w: weights sum to zero", ErrInvalidWeights)
	}

	scale := UserWeightBudget / sum
	return PriorityWeights{
		Time:        raw.Time * scale,
		Distance:    raw.Distance * scale,
		Carbon:      raw.CarbonEmission * scale,
		RoadQuality: raw.Safety * scale,
		Sentiment:   SentimentWeight,
	}, nil
}

// UserSum returns the sum of the four user-controlled weights.
func (w PriorityWeights) UserSum() float64 {
	return w.Time + w.Distance + w.Carbon + w.RoadQuality
}

// Total returns the sum of all five weights; 1.0 for any redistributed set.
func (w PriorityWeights) Total() float64 {
	return w.UserSum() + w.Sentiment
}
