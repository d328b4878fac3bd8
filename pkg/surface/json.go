package surface

import (
	"encoding/json"
	"io"

	"github.com/tallybook/tally/pkg/gradebook"
	"github.com/tallybook/tally/pkg/scoring"
)

// JSONRenderer marshals results to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, result *scoring.ScoreResult) error {
	return WriteJSON(w, result)
}

func (r *JSONRenderer) RenderReportCard(w io.Writer, report gradebook.Report) error {
	return WriteJSON(w, report)
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
