package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/tallybook/tally/pkg/gradebook"
	"github.com/tallybook/tally/pkg/scoring"
)

// ReportCardPDF renders a student's report card as an A4 PDF.
func ReportCardPDF(w io.Writer, rep gradebook.Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Report card"))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Student: %s (%s)", rep.FullName, rep.ShortName)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Class: %s", rep.ClassYear)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(10)

	widths := []float64{50, 22, 22, 22, 22, 30}
	pdf.SetFont("Helvetica", "B", 11)
	for i, h := range []string{"Subject", "T1", "T2", "T3", "T4", "Average"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	for _, sr := range rep.Subjects {
		pdf.CellFormat(widths[0], 7, tr(sr.Subject), "1", 0, "L", false, 0, "")
		for i, g := range sr.Terms {
			pdf.CellFormat(widths[i+1], 7, gradeText(g), "1", 0, "C", false, 0, "")
		}
		if sr.Below {
			pdf.SetTextColor(200, 0, 0)
		}
		pdf.CellFormat(widths[5], 7, gradeText(sr.Average), "1", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, rep.Status.Label())
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Subjects below %.1f: %d", gradebook.PassingGrade, rep.BelowCount))

	return output(pdf, w)
}

// ScoreCardPDF renders a score result with its breakdown as an A4 PDF.
func ScoreCardPDF(w io.Writer, result *scoring.ScoreResult, label string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	title := "Aesthetic score"
	if label != "" {
		title += ": " + label
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("%s (%.1f%%)", result.Tier.Name, result.Percentage))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, tr(result.Tier.Message), "", "L", false)
	pdf.Ln(4)

	m := result.Measurements
	ind := result.Indicators
	lines := []string{
		fmt.Sprintf("Height: %.1f cm", m.HeightCm),
		fmt.Sprintf("Weight: %.1f kg", m.WeightKg),
		fmt.Sprintf("Body fat: %.1f%%", m.BodyFatPct),
		fmt.Sprintf("Lean mass: %.1f kg", ind.LeanMassKg),
		fmt.Sprintf("FFMI: %.2f", ind.FFMI),
		fmt.Sprintf("Shoulder/waist: %.2f", ind.ShoulderWaistRatio),
	}
	for _, l := range lines {
		pdf.Cell(0, 6, l)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(80, 7, "Metric", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Input", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 7, "Points", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 11)
	for _, mr := range result.Breakdown {
		pdf.CellFormat(80, 7, tr(mr.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, strconv.FormatFloat(mr.Input, 'f', 2, 64), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f / %.1f", mr.Points, mr.MaxPoints), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Total: %.2f / %.1f points", result.TotalPoints, result.MaxPoints))

	return output(pdf, w)
}

func output(pdf *gofpdf.Fpdf, w io.Writer) error {
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func gradeText(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}
