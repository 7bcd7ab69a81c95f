package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/quantara/routeguard/pkg/compare"
	"github.com/quantara/routeguard/pkg/scoring"
)

// TerminalRenderer renders results as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func statusColor(status scoring.Status) string {
	if noColor() {
		return ""
	}
	switch status {
	case scoring.StatusRecommended:
		return colorGreen
	case scoring.StatusFlagged:
		return colorRed
	default:
		return colorYellow
	}
}

func assessmentColor(a compare.Assessment) string {
	if noColor() {
		return ""
	}
	switch a {
	case compare.AssessmentImproved:
		return colorGreen
	case compare.AssessmentWorsened:
		return colorRed
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, result *scoring.Result) error {
	fmt.Fprintf(w, "%s\n\n", bold("Routeguard: ranked routes"))

	for i, rs := range result.Scores {
		marker := " "
		if rs.RouteID == result.BestRouteID {
			marker = colored("●", colorGreen)
		}
		fmt.Fprintf(w, "%s %d. %s - %.1f %s\n",
			marker, i+1, bold(rs.RouteName), rs.Overall,
			colored(string(rs.Status), statusColor(rs.Status)))
		fmt.Fprintf(w, "     %s\n", dim(fmt.Sprintf(
			"time %.2f  distance %.2f  carbon %.2f  road quality %.2f  sentiment %.2f",
			rs.Components.Time, rs.Components.Distance, rs.Components.Carbon,
			rs.Components.RoadQuality, rs.Sentiment)))
	}
	fmt.Fprintln(w)

	if result.Reason != "" {
		fmt.Fprintf(w, "Best route: %s\n\n", result.Reason)
	}

	if len(result.Excluded) > 0 {
		fmt.Fprintln(w, "Excluded:")
		for _, ex := range result.Excluded {
			fmt.Fprintf(w, "  %s %s - %s\n",
				colored("✗", colorRed), bold(ex.RouteID), ex.Reason)
		}
		fmt.Fprintln(w)
	}

	return nil
}

func (r *TerminalRenderer) RenderReport(w io.Writer, report *compare.Report) error {
	fmt.Fprintf(w, "%s\n\n", bold("Routeguard: reroute comparison"))
	fmt.Fprintf(w, "%s\n\n", report.Summary)

	dirColor := ""
	switch report.SentimentChange.Direction {
	case compare.DirectionImproved:
		dirColor = colorGreen
	case compare.DirectionWorsened:
		dirColor = colorRed
	}
	fmt.Fprintf(w, "Sentiment: %s (%s)\n",
		colored(string(report.SentimentChange.Direction), dirColor),
		report.SentimentChange.PercentChange)
	fmt.Fprintf(w, "  %s\n\n", dim(report.SentimentChange.Reason))

	fmt.Fprintln(w, "Tradeoffs:")
	for _, tr := range report.Tradeoffs {
		fmt.Fprintf(w, "  %-10s %10.1f -> %-10.1f %-14s %s\n",
			tr.Factor, tr.OldValue, tr.NewValue,
			fmt.Sprintf("(%+.1f %s)", tr.Delta, tr.Unit),
			colored(string(tr.Assessment), assessmentColor(tr.Assessment)))
	}
	fmt.Fprintln(w)

	printRisks(w, "New risks", report.RiskComparison.NewRisks, colorRed)
	printRisks(w, "Resolved risks", report.RiskComparison.ResolvedRisks, colorGreen)
	printRisks(w, "Ongoing risks", report.RiskComparison.OngoingRisks, colorYellow)

	fmt.Fprintf(w, "Recommendation:\n")
	for _, line := range wrapText(report.Recommendation, 70) {
		fmt.Fprintf(w, "  %s\n", line)
	}

	return nil
}

func printRisks(w io.Writer, label string, risks []string, color string) {
	if len(risks) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", label)
	for _, risk := range risks {
		fmt.Fprintf(w, "  %s %s\n", colored("●", color), risk)
	}
	fmt.Fprintln(w)
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
