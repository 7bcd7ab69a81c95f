package surface_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/quantara/routeguard/pkg/compare"
	"github.com/quantara/routeguard/pkg/scoring"
	"github.com/quantara/routeguard/pkg/surface"
)

func sampleResult() *scoring.Result {
	return &scoring.Result{
		Scores: []scoring.ResilienceScore{
			{
				RouteID:   "r1",
				RouteName: "NH48 Express",
				Overall:   86.2,
				Components: scoring.ComponentScores{
					Time: 1.0, Distance: 0.9, Carbon: 0.8, RoadQuality: 0.85,
				},
				Sentiment: 0.7,
				Status:    scoring.StatusRecommended,
			},
			{
				RouteID:   "r2",
				RouteName: "Old Highway",
				Overall:   54.1,
				Components: scoring.ComponentScores{
					Time: 0.2, Distance: 0.4, Carbon: 0.3, RoadQuality: 0.5,
				},
				Sentiment: 0.45,
				Status:    scoring.StatusFlagged,
			},
		},
		BestRouteID: "r1",
		Reason:      "NH48 Express selected for strong time and distance scores",
		Excluded: []scoring.ExcludedCandidate{
			{RouteID: "r9", Reason: "duration is not a finite number"},
		},
	}
}

func sampleReport() *compare.Report {
	return &compare.Report{
		ID:              "rep-1",
		Summary:         "Rerouted from NH48 Express to Coastal Bypass",
		BestAlternative: "Coastal Bypass",
		SentimentChange: compare.SentimentChange{
			Direction:     compare.DirectionImproved,
			PercentChange: "+62.5%",
			Reason:        "fewer disruption reports along the new corridor",
		},
		RiskComparison: compare.RiskComparison{
			NewRisks:      []string{"coastal fog"},
			ResolvedRisks: []string{"bridge closure"},
			OngoingRisks:  []string{"monsoon flooding"},
		},
		Tradeoffs: []compare.Tradeoff{
			{Factor: "time", OldValue: 900, NewValue: 800, Delta: -100, Unit: "min", Assessment: compare.AssessmentImproved},
			{Factor: "distance", OldValue: 1400, NewValue: 1450, Delta: 50, Unit: "km", Assessment: compare.AssessmentWorsened},
		},
		Recommendation: "Reroute recommended: resolves 1 known risk and gains 4.2 resilience points.",
	}
}

func TestTerminalRenderer_BasicOutput(t *testing.T) {
	// Set NO_COLOR to avoid ANSI codes in test comparison
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	err := r.Render(&buf, sampleResult())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "NH48 Express") {
		t.Error("expected route name in output")
	}
	if !strings.Contains(output, "86.2") {
		t.Error("expected overall score in output")
	}
	if !strings.Contains(output, "Recommended") {
		t.Error("expected status in output")
	}
	if !strings.Contains(output, "Flagged") {
		t.Error("expected flagged status in output")
	}
	if !strings.Contains(output, "strong time and distance") {
		t.Error("expected selection reason in output")
	}
	if !strings.Contains(output, "duration is not a finite number") {
		t.Error("expected exclusion reason in output")
	}
}

func TestTerminalRenderer_Report(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	err := r.RenderReport(&buf, sampleReport())
	if err != nil {
		t.Fatalf("RenderReport() error: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "improved") {
		t.Error("expected sentiment direction in output")
	}
	if !strings.Contains(output, "+62.5%") {
		t.Error("expected sentiment percentage in output")
	}
	if !strings.Contains(output, "bridge closure") {
		t.Error("expected resolved risk in output")
	}
	if !strings.Contains(output, "coastal fog") {
		t.Error("expected new risk in output")
	}
	if !strings.Contains(output, "Reroute recommended") {
		t.Error("expected recommendation in output")
	}
}

func TestTerminalRenderer_ColorRespected(t *testing.T) {
	// Without NO_COLOR, output should have ANSI codes
	os.Unsetenv("NO_COLOR")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	err := r.Render(&buf, sampleResult())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "\033[") {
		t.Error("expected ANSI escape codes when NO_COLOR is not set")
	}
}

func TestMarkdownRenderer_Report(t *testing.T) {
	r := &surface.MarkdownRenderer{}
	var buf bytes.Buffer

	err := r.RenderReport(&buf, sampleReport())
	if err != nil {
		t.Fatalf("RenderReport() error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "| Factor | Old | New |") {
		t.Error("expected tradeoff table header")
	}
	if !strings.Contains(output, "### Recommendation") {
		t.Error("expected recommendation section")
	}
}

func TestForFormat(t *testing.T) {
	for _, format := range []string{"terminal", "json", "markdown", ""} {
		if _, err := surface.ForFormat(format); err != nil {
			t.Errorf("ForFormat(%q) error: %v", format, err)
		}
	}
	if _, err := surface.ForFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
