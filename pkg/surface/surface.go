// Package surface defines output rendering for Routeguard results.
// Implementations handle different output targets: terminal, JSON, Markdown.
package surface

import (
	"fmt"
	"io"

	"github.com/quantara/routeguard/pkg/compare"
	"github.com/quantara/routeguard/pkg/scoring"
)

// Renderer produces formatted output from scoring and comparison results.
type Renderer interface {
	// Render writes the formatted scoring result to the writer.
	Render(w io.Writer, result *scoring.Result) error
	// RenderReport writes the formatted reroute comparison to the writer.
	RenderReport(w io.Writer, report *compare.Report) error
}

// ForFormat returns the renderer for a named output format.
func ForFormat(format string) (Renderer, error) {
	switch format {
	case "terminal", "":
		return &TerminalRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "markdown":
		return &MarkdownRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want terminal, json, or markdown)", format)
	}
}
