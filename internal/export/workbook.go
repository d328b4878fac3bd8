package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/tallybook/tally/pkg/gradebook"
	"github.com/tallybook/tally/pkg/rental"
)

// WriteRentals writes the rentals of a desk and its revenue summary as an
// XLSX workbook with a "Rentals" and a "Summary" sheet.
func WriteRentals(w io.Writer, rentals []rental.Rental, report rental.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Rentals"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	if err := writeHeader(f, sheet, []interface{}{
		"id", "client", "cpf", "model", "plate", "start", "end", "daily_rate", "total", "status", "payment",
	}); err != nil {
		return err
	}
	for i, r := range rentals {
		if err := writeRow(f, sheet, i+2, []interface{}{
			r.ID, r.ClientName, r.ClientCPF, r.Car.Model, r.Car.Plate,
			r.Start, r.End, r.DailyRate, r.Total, string(r.Status), string(r.Payment),
		}); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 38)
	_ = f.SetColWidth(sheet, "B", "K", 14)

	summary := "Summary"
	if _, err := f.NewSheet(summary); err != nil {
		return fmt.Errorf("create sheet %q: %w", summary, err)
	}
	lines := [][]interface{}{
		{"open", report.Open},
		{"closed", report.Closed},
		{"realized", report.Realized},
		{"forecast", report.Forecast},
		{"overall", report.Overall},
	}
	for i, l := range lines {
		if err := writeRow(f, summary, i+1, l); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// WriteGradebook writes one row per student and subject with the four
// term grades, the average and the student's status.
func WriteGradebook(w io.Writer, reports []gradebook.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Grades"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	if err := writeHeader(f, sheet, []interface{}{
		"student", "full_name", "class_year", "subject", "term_1", "term_2", "term_3", "term_4", "average", "status",
	}); err != nil {
		return err
	}

	row := 2
	for _, rep := range reports {
		for _, sr := range rep.Subjects {
			values := []interface{}{rep.ShortName, rep.FullName, rep.ClassYear, sr.Subject}
			for _, g := range sr.Terms {
				values = append(values, optional(g))
			}
			values = append(values, optional(sr.Average), string(rep.Status))
			if err := writeRow(f, sheet, row, values); err != nil {
				return err
			}
			row++
		}
	}
	_ = f.SetColWidth(sheet, "A", "D", 16)

	return f.Write(w)
}

func writeHeader(f *excelize.File, sheet string, header []interface{}) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	addr, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, addr, &values); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, addr, err)
	}
	return nil
}

// optional leaves missing grades as empty cells.
func optional(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
