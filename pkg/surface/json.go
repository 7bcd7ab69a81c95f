package surface

import (
	"encoding/json"
	"io"

	"github.com/quantara/routeguard/pkg/compare"
	"github.com/quantara/routeguard/pkg/scoring"
)

// JSONRenderer marshals results to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, result *scoring.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func (r *JSONRenderer) RenderReport(w io.Writer, report *compare.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
