package compare

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/quantara/routeguard/pkg/route"
	"github.com/quantara/routeguard/pkg/scoring"
	"github.com/quantara/routeguard/pkg/sentiment"
)

func previousRoute() PreviousRoute {
	return PreviousRoute{
		ID:          "prev-1",
		TripID:      "trip-1",
		RouteName:   "The Industrial Corridor",
		Source:      "Delhi",
		Destination: "Mumbai",
		Metrics:     route.Metrics{DurationMin: 900, DistanceM: 1_400_000, CostMinor: 16_200_00, CarbonKg: 1344},
		Sentiment: sentiment.Summary{
			Score:       0.40,
			RiskFactors: []string{"road closure on NH-48", "traffic congestion", "monsoon flooding"},
		},
		Score: scoring.ResilienceScore{RouteID: "prev-1", RouteName: "The Industrial Corridor", Overall: 58},
	}
}

func alternative(name string, durationMin, distanceM float64, overall, sentimentScore float64, risks []string) Alternative {
	return Alternative{
		Candidate: route.Candidate{
			ID:          name,
			Name:        name,
			DurationMin: durationMin,
			DistanceM:   distanceM,
			CarbonKg:    route.EstimateCarbonKg(distanceM),
		},
		Score:     scoring.ResilienceScore{RouteID: name, RouteName: name, Overall: overall},
		Sentiment: sentiment.Summary{Score: sentimentScore, RiskFactors: risks, Reasoning: "fresh corridor analysis"},
	}
}

func TestCompareSentimentImproved(t *testing.T) {
	prev := previousRoute()
	alts := []Alternative{
		alternative("The Coastal Expressway", 600, 900_000, 82, 0.65, []string{"traffic congestion"}),
	}

	report, err := Compare(prev, route.Metrics{DurationMin: 200, DistanceM: 300_000}, alts, Options{})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	if report.SentimentChange.Direction != DirectionImproved {
		t.Errorf("direction = %q, want improved", report.SentimentChange.Direction)
	}
	// (0.65 - 0.40) / 0.40 * 100 = +62.5%
	if report.SentimentChange.PercentChange != "+62.5%" {
		t.Errorf("percentage change = %q, want +62.5%%", report.SentimentChange.PercentChange)
	}
}

func TestCompareSentimentZeroOldScore(t *testing.T) {
	prev := previousRoute()
	prev.Sentiment.Score = 0
	alts := []Alternative{
		alternative("Alt", 600, 900_000, 82, 0.5, nil),
	}

	report, err := Compare(prev, route.Metrics{}, alts, Options{})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if report.SentimentChange.PercentChange != "N/A" {
		t.Errorf("percentage change = %q, want N/A when old score is zero", report.SentimentChange.PercentChange)
	}
	if report.SentimentChange.Direction != DirectionImproved {
		t.Errorf("direction = %q, want improved (qualitative change still reported)", report.SentimentChange.Direction)
	}
}

func TestCompareSentimentStableWithinThreshold(t *testing.T) {
	prev := previousRoute()
	alts := []Alternative{
		alternative("Alt", 600, 900_000, 82, prev.Sentiment.Score+0.01, nil),
	}

	report, err := Compare(prev, route.Metrics{}, alts, Options{})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if report.SentimentChange.Direction != DirectionStable {
		t.Errorf("direction = %q, want stable for movement inside threshold", report.SentimentChange.Direction)
	}
}

func TestCompareRiskComparison(t *testing.T) {
	prev := previousRoute()
	alts := []Alternative{
		alternative("Alt", 600, 900_000, 82, 0.6,
			[]string{"Traffic Congestion", "toll plaza strike"}),
	}

	report, err := Compare(prev, route.Metrics{}, alts, Options{})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	rc := report.RiskComparison
	if !reflect.DeepEqual(rc.ResolvedRisks, []string{"road closure on NH-48", "monsoon flooding"}) {
		t.Errorf("resolved = %v", rc.ResolvedRisks)
	}
	// Case-insensitive match: "traffic congestion" is ongoing.
	if !reflect.DeepEqual(rc.OngoingRisks, []string{"traffic congestion"}) {
		t.Errorf("ongoing = %v", rc.OngoingRisks)
	}
	if !reflect.DeepEqual(rc.NewRisks, []string{"toll plaza strike"}) {
		t.Errorf("new = %v", rc.NewRisks)
	}
}

func TestCompareTradeoffTable(t *testing.T) {
	prev := previousRoute()
	// Remaining leg 500 min / 700 km on top of 300 min / 600 km traveled:
	// total 800 min (improved) and 1300 km (improved).
	alts := []Alternative{
		alternative("Alt", 500, 700_000, 82, 0.6, nil),
	}
	traveled := route.Metrics{DurationMin: 300, DistanceM: 600_000, CostMinor: 7_000_00, CarbonKg: 576}

	report, err := Compare(prev, traveled, alts, Options{})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	byFactor := map[string]Tradeoff{}
	for _, row := range report.Tradeoffs {
		byFactor[row.Factor] = row
	}
	if len(report.Tradeoffs) != 4 {
		t.Fatalf("got %d tradeoff rows, want 4", len(report.Tradeoffs))
	}

	timeRow := byFactor["time"]
	if timeRow.OldValue != 900 || timeRow.NewValue != 800 {
		t.Errorf("time row = %+v, want 900 -> 800", timeRow)
	}
	if timeRow.Assessment != AssessmentImproved {
		t.Errorf("time assessment = %q, want improved", timeRow.Assessment)
	}

	distRow := byFactor["distance"]
	if math.Abs(distRow.Delta-(-100)) > 1e-9 {
		t.Errorf("distance delta = %f km, want -100", distRow.Delta)
	}

	costRow := byFactor["cost"]
	if costRow.Assessment != AssessmentImproved {
		// Old 16200.00 vs traveled-only 7000.00 (alternative has no cost).
		t.Errorf("cost assessment = %q, want improved", costRow.Assessment)
	}
}

func TestDedupeByName(t *testing.T) {
	prev := previousRoute()
	alts := []Alternative{
		alternative("The Industrial Corridor", 900, 1_400_000, 58, 0.4, nil),
		alternative("The Coastal Expressway", 600, 900_000, 82, 0.6, nil),
	}

	deduped := Dedupe(prev, route.Metrics{}, alts, 0.05)
	if len(deduped) != 1 || deduped[0].Candidate.Name != "The Coastal Expressway" {
		t.Errorf("Dedupe = %v, want only the distinct alternative", names(deduped))
	}
}

func TestDedupeNameFilterNeverEmpties(t *testing.T) {
	prev := previousRoute()
	alts := []Alternative{
		alternative("The Industrial Corridor", 900, 1_400_000, 58, 0.4, nil),
	}

	deduped := Dedupe(prev, route.Metrics{}, alts, 0.05)
	if len(deduped) != 1 {
		t.Fatalf("Dedupe removed every alternative; must revert instead")
	}
}

func TestDedupeSimilarityFallback(t *testing.T) {
	prev := previousRoute() // totals: 900 min, 1400 km
	// First alternative's total journey (traveled + remaining) is within 5%
	// of the previous route on both axes: 880 min (2.2%), 1380 km (1.4%).
	alts := []Alternative{
		alternative("Same Road, New Name", 580, 980_000, 60, 0.4, nil),
		alternative("Genuinely Different", 500, 700_000, 82, 0.6, nil),
	}
	traveled := route.Metrics{DurationMin: 300, DistanceM: 400_000}

	deduped := Dedupe(prev, traveled, alts, 0.05)
	if len(deduped) != 1 || deduped[0].Candidate.Name != "Genuinely Different" {
		t.Errorf("Dedupe = %v, want similarity fallback to drop the first alternative", names(deduped))
	}
}

func TestDedupeSimilarityRequiresBothAxes(t *testing.T) {
	prev := previousRoute()
	// Time within tolerance but distance 20% off: keep both.
	alts := []Alternative{
		alternative("Close In Time Only", 580, 680_000, 60, 0.4, nil),
		alternative("Other", 500, 700_000, 82, 0.6, nil),
	}
	traveled := route.Metrics{DurationMin: 300, DistanceM: 400_000}

	deduped := Dedupe(prev, traveled, alts, 0.05)
	if len(deduped) != 2 {
		t.Errorf("Dedupe = %v, want both kept when only one axis is similar", names(deduped))
	}
}

func TestDedupeSimilaritySkippedForSingleAlternative(t *testing.T) {
	prev := previousRoute()
	alts := []Alternative{
		alternative("Single", 600, 1_000_000, 60, 0.4, nil),
	}

	deduped := Dedupe(prev, route.Metrics{DurationMin: 300, DistanceM: 400_000}, alts, 0.05)
	if len(deduped) != 1 {
		t.Error("a lone alternative must survive dedup even if similar")
	}
}

func TestCompareNoAlternatives(t *testing.T) {
	_, err := Compare(previousRoute(), route.Metrics{}, nil, Options{})
	if !errors.Is(err, ErrNoAlternatives) {
		t.Errorf("Compare(nil alts) = %v, want ErrNoAlternatives", err)
	}
}

func TestCompareRecommendationMentionsResolvedRisks(t *testing.T) {
	prev := previousRoute()
	alts := []Alternative{
		alternative("Better", 600, 900_000, 85, 0.7, nil),
	}

	report, err := Compare(prev, route.Metrics{}, alts, Options{})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if report.Recommendation == "" || report.Summary == "" {
		t.Error("report must carry a summary and a recommendation sentence")
	}
	if report.BestAlternative != "Better" {
		t.Errorf("BestAlternative = %q, want Better", report.BestAlternative)
	}
}

func names(alts []Alternative) []string {
	out := make([]string, len(alts))
	for i, a := range alts {
		out[i] = a.Candidate.Name
	}
	return out
}
