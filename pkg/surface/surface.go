// Package surface renders tally results for different outputs: terminal,
// JSON and Markdown.
package surface

import (
	"fmt"
	"io"

	"github.com/tallybook/tally/pkg/gradebook"
	"github.com/tallybook/tally/pkg/scoring"
)

// Renderer produces formatted output from a ScoreResult.
type Renderer interface {
	// Render writes the formatted score result to the writer.
	Render(w io.Writer, result *scoring.ScoreResult) error
}

// ReportCardRenderer produces formatted output from a grade book report.
type ReportCardRenderer interface {
	RenderReportCard(w io.Writer, report gradebook.Report) error
}

// Output formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// ForFormat returns the score renderer for an output format name.
func ForFormat(format string) (Renderer, error) {
	switch format {
	case "", FormatText:
		return &TerminalRenderer{}, nil
	case FormatJSON:
		return &JSONRenderer{}, nil
	case FormatMarkdown, "md":
		return &MarkdownRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json or markdown)", format)
	}
}
