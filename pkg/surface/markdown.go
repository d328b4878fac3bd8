package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/tallybook/tally/pkg/scoring"
)

// MarkdownRenderer produces a Markdown summary of a ScoreResult, suitable
// for pasting into a chat or an issue.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, result *scoring.ScoreResult) error {
	_, err := io.WriteString(w, BuildMarkdownSummary(result))
	return err
}

// BuildMarkdownSummary formats the result as a Markdown document.
func BuildMarkdownSummary(result *scoring.ScoreResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## %s %s (%.1f%%)\n\n", tierIcon(result.Tier.Key), result.Tier.Name, result.Percentage))
	sb.WriteString(result.Tier.Message + "\n\n")

	m := result.Measurements
	sb.WriteString("### Measurements\n\n")
	sb.WriteString("| Measurement | Value |\n|-------------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Height | %s cm |\n", trimFloat(m.HeightCm)))
	sb.WriteString(fmt.Sprintf("| Weight | %s kg |\n", trimFloat(m.WeightKg)))
	sb.WriteString(fmt.Sprintf("| Body fat | %s%% |\n", trimFloat(m.BodyFatPct)))
	sb.WriteString(fmt.Sprintf("| Shoulder width | %s |\n", trimFloat(m.ShoulderWidth)))
	sb.WriteString(fmt.Sprintf("| Waist width | %s |\n", trimFloat(m.WaistWidth)))
	sb.WriteString("\n")

	sb.WriteString("### Breakdown\n\n")
	sb.WriteString("| Metric | Input | Points |\n|--------|-------|--------|\n")
	for _, mr := range result.Breakdown {
		sb.WriteString(fmt.Sprintf("| %s | %.2f | %.2f / %s |\n", mr.Name, mr.Input, mr.Points, trimFloat(mr.MaxPoints)))
	}
	sb.WriteString(fmt.Sprintf("| **Total** | | **%.2f / %s** |\n", result.TotalPoints, trimFloat(result.MaxPoints)))

	return sb.String()
}

func tierIcon(key string) string {
	switch key {
	case scoring.TierGreekGod, scoring.TierChad, scoring.TierChadLight:
		return ":green_circle:"
	case scoring.TierAboveAverage, scoring.TierAverage:
		return ":yellow_circle:"
	default:
		return ":red_circle:"
	}
}
