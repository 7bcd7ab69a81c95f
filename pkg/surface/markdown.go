package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/quantara/routeguard/pkg/compare"
	"github.com/quantara/routeguard/pkg/scoring"
)

// MarkdownRenderer produces a Markdown document suitable for dashboards
// and shared reports.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, result *scoring.Result) error {
	var sb strings.Builder

	sb.WriteString("## Routeguard: route resilience\n\n")
	sb.WriteString("| Rank | Route | Score | Status | Time | Distance | Carbon | Road Quality | Sentiment |\n")
	sb.WriteString("|------|-------|-------|--------|------|----------|--------|--------------|----------|\n")
	for i, rs := range result.Scores {
		name := rs.RouteName
		if rs.RouteID == result.BestRouteID {
			name = "**" + name + "**"
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %.1f | %s | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
			i+1, name, rs.Overall, statusIcon(rs.Status)+" "+string(rs.Status),
			rs.Components.Time, rs.Components.Distance, rs.Components.Carbon,
			rs.Components.RoadQuality, rs.Sentiment))
	}
	sb.WriteString("\n")

	if result.Reason != "" {
		sb.WriteString(fmt.Sprintf("**Best route**: %s\n\n", result.Reason))
	}

	if len(result.Excluded) > 0 {
		sb.WriteString("### Excluded\n\n")
		for _, ex := range result.Excluded {
			sb.WriteString(fmt.Sprintf("- `%s`: %s\n", ex.RouteID, ex.Reason))
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *MarkdownRenderer) RenderReport(w io.Writer, report *compare.Report) error {
	var sb strings.Builder

	sb.WriteString("## Routeguard: reroute comparison\n\n")
	sb.WriteString(report.Summary + "\n\n")

	sb.WriteString("### Sentiment\n\n")
	sb.WriteString(fmt.Sprintf("%s (%s): %s\n\n",
		capitalize(string(report.SentimentChange.Direction)),
		report.SentimentChange.PercentChange,
		report.SentimentChange.Reason))

	sb.WriteString("### Tradeoffs\n\n")
	sb.WriteString("| Factor | Old | New | Change | Assessment |\n")
	sb.WriteString("|--------|-----|-----|--------|------------|\n")
	for _, tr := range report.Tradeoffs {
		sb.WriteString(fmt.Sprintf("| %s | %.1f | %.1f | %+.1f %s | %s %s |\n",
			tr.Factor, tr.OldValue, tr.NewValue, tr.Delta, tr.Unit,
			assessmentIcon(tr.Assessment), tr.Assessment))
	}
	sb.WriteString("\n")

	writeRiskSection(&sb, "New risks", report.RiskComparison.NewRisks)
	writeRiskSection(&sb, "Resolved risks", report.RiskComparison.ResolvedRisks)
	writeRiskSection(&sb, "Ongoing risks", report.RiskComparison.OngoingRisks)

	sb.WriteString("### Recommendation\n\n")
	sb.WriteString(report.Recommendation + "\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeRiskSection(sb *strings.Builder, label string, risks []string) {
	if len(risks) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("### %s\n\n", label))
	for _, risk := range risks {
		sb.WriteString(fmt.Sprintf("- %s\n", risk))
	}
	sb.WriteString("\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func statusIcon(status scoring.Status) string {
	switch status {
	case scoring.StatusRecommended:
		return ":green_circle:"
	case scoring.StatusFlagged:
		return ":red_circle:"
	default:
		return ":yellow_circle:"
	}
}

func assessmentIcon(a compare.Assessment) string {
	switch a {
	case compare.AssessmentImproved:
		return ":green_circle:"
	case compare.AssessmentWorsened:
		return ":red_circle:"
	default:
		return ":white_circle:"
	}
}
