package scoring

import (
	"github.com/quantara/routeguard/pkg/route"
)

// NormalizeLowerBetter min-max normalizes raw values where lower is better:
// score = 1 - (v - min)/(max - min). When max == min, including the
// single-value case, every score is 1.0: absence of discriminating signal
// must not penalize candidates or divide by zero.
func NormalizeLowerBetter(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	scores := make([]float64, len(values))
	if max == min {
		for i := range scores {
			scores[i] = 1.0
		}
		return scores
	}

	for i, v := range values {
		s := 1.0 - (v-min)/(max-min)
		scores[i] = clamp01(s)
	}
	return scores
}

// Base road quality (0-100) by road type, used for segments that carry a
// type but no explicit quality.
var roadTypeQuality = map[string]float64{
	"motorway":     90,
	"trunk":        85,
	"primary":      80,
	"secondary":    70,
	"tertiary":     60,
	"residential":  50,
	"service":      40,
	"unclassified": 45,
	"unknown":      50,
}

// RoadQualityScore computes a candidate's road-quality score in [0,1].
// Unlike the three lower-is-better metrics it is already bounded and higher
// is better at the source, so it is not normalized across candidates: a
// segment's quality does not depend on what other candidates exist.
// Each segment's base quality is reduced by the route's average weather risk
// and the result is length-weighted across segments. Candidates without
// segment data fall back to their weather-adjusted route-level base value.
func RoadQualityScore(c *route.Candidate) float64 {
	risk := clamp01(c.AvgWeatherRisk)

	if len(c.Segments) == 0 {
		return clamp01(c.RoadQualityBase * (1 - risk))
	}

	var totalLength, weighted float64
	for _, seg := range c.Segments {
		if seg.LengthM <= 0 {
			continue
		}
		quality := seg.BaseQuality
		if quality == 0 {
			if q, ok := roadTypeQuality[seg.RoadType]; ok {
				quality = q
			} else {
				quality = roadTypeQuality["unknown"]
			}
		}
		adjusted := quality - risk*100
		if adjusted < 0 {
			adjusted = 0
		}
		weighted += adjusted * seg.LengthM
		totalLength += seg.LengthM
	}

	if totalLength == 0 {
		return clamp01(c.RoadQualityBase * (1 - risk))
	}
	return clamp01(weighted / totalLength / 100)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
