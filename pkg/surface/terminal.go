package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tallybook/tally/pkg/gradebook"
	"github.com/tallybook/tally/pkg/scoring"
)

// TerminalRenderer renders results as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func tierColor(key string) string {
	if noColor() {
		return ""
	}
	switch key {
	case scoring.TierGreekGod, scoring.TierChad, scoring.TierChadLight:
		return colorGreen
	case scoring.TierAboveAverage, scoring.TierAverage:
		return colorYellow
	case scoring.TierBelowAverage, scoring.TierSubfive:
		return colorRed
	default:
		return ""
	}
}

// gradeColor marks grades below passing red and the rest blue.
func gradeColor(g float64) string {
	if g < gradebook.PassingGrade {
		return colorRed
	}
	return colorBlue
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

func (r *TerminalRenderer) Render(w io.Writer, result *scoring.ScoreResult) error {
	tc := tierColor(result.Tier.Key)

	// Header
	fmt.Fprintf(w, "%s\n", bold(fmt.Sprintf("Tally: %s (%.1f%%)",
		colored(result.Tier.Name, tc), result.Percentage)))
	fmt.Fprintf(w, "%s\n\n", result.Tier.Message)

	ind := result.Indicators
	fmt.Fprintln(w, "Indicators:")
	fmt.Fprintf(w, "  %-16s %.2f m\n", "Height", ind.HeightM)
	fmt.Fprintf(w, "  %-16s %.1f kg\n", "Lean mass", ind.LeanMassKg)
	fmt.Fprintf(w, "  %-16s %.2f kg/m²\n", "FFMI", ind.FFMI)
	fmt.Fprintf(w, "  %-16s %.1f%%\n", "Body fat", ind.BodyFatPct)
	fmt.Fprintf(w, "  %-16s %.2f\n", "Shoulder/waist", ind.ShoulderWaistRatio)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Breakdown:")
	for _, mr := range result.Breakdown {
		fmt.Fprintf(w, "  %-26s %5.2f / %-4s %s\n",
			mr.Name, mr.Points, trimFloat(mr.MaxPoints), dim(bar(mr.Points, mr.MaxPoints, 20)))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Total: %s\n", bold(fmt.Sprintf("%.2f / %s points", result.TotalPoints, trimFloat(result.MaxPoints))))
	return nil
}

// RenderReportCard prints the report card as a table of term grades and
// averages, followed by the approval status.
func (r *TerminalRenderer) RenderReportCard(w io.Writer, report gradebook.Report) error {
	fmt.Fprintf(w, "%s\n", bold(fmt.Sprintf("%s (%s) - %s", report.FullName, report.ShortName, report.ClassYear)))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %-18s %6s %6s %6s %6s %8s\n", "Subject", "B1", "B2", "B3", "B4", "Average")
	for _, row := range report.Subjects {
		fmt.Fprintf(w, "  %-18s", row.Subject)
		for _, g := range row.Terms {
			fmt.Fprintf(w, " %s", gradeCell(g, 6))
		}
		fmt.Fprintf(w, " %s\n", gradeCell(row.Average, 8))
	}
	fmt.Fprintln(w)

	sc := colorGreen
	switch report.Status {
	case gradebook.StatusRecovery:
		sc = colorYellow
	case gradebook.StatusFailed:
		sc = colorRed
	}
	fmt.Fprintf(w, "%s  |  Averages below %s: %d\n",
		bold(colored(report.Status.Label(), sc)), trimFloat(gradebook.PassingGrade), report.BelowCount)
	return nil
}

// gradeCell right-aligns a grade in width columns, coloring it by
// whether it passes. Missing grades show as a dash.
func gradeCell(g *float64, width int) string {
	if g == nil {
		return fmt.Sprintf("%*s", width, "-")
	}
	return colored(fmt.Sprintf("%*.1f", width, *g), gradeColor(*g))
}

// bar draws a fixed-width progress bar for v out of max.
func bar(v, max float64, width int) string {
	if max <= 0 {
		return ""
	}
	filled := int(v / max * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func trimFloat(v float64) string {
	s := strings.TrimRight(fmt.Sprintf("%.2f", v), "0")
	return strings.TrimSuffix(s, ".")
}
