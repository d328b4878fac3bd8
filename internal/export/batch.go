// Package export moves tally data in and out of spreadsheet and PDF
// documents.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tallybook/tally/pkg/scoring"
)

// ErrEmptySheet is returned when a workbook has no data rows.
var ErrEmptySheet = errors.New("sheet has no data rows")

// BatchColumns is the expected header of a score workbook.
var BatchColumns = []string{"label", "height_cm", "weight_kg", "body_fat_pct", "shoulder_width", "waist_width"}

// BatchRow is the outcome of one spreadsheet row.
type BatchRow struct {
	Row    int                  `json:"row"` // 1-based sheet row
	Label  string               `json:"label,omitempty"`
	Result *scoring.ScoreResult `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

// Batch is the result of scoring a whole workbook.
type Batch struct {
	Count  int        `json:"count"`
	Failed int        `json:"failed"`
	Rows   []BatchRow `json:"rows"`
}

// ScoreWorkbook scores every row of the first sheet of an XLSX workbook.
// The first row is a header. Blank rows are skipped; rows that fail to
// parse or score are reported with their error instead of aborting.
func ScoreWorkbook(r io.Reader, engine *scoring.Engine) (*Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	batch := &Batch{}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}
		out := BatchRow{Row: i + 1, Label: cell(row, 0)}
		m, err := scoring.ParseMeasurements(cell(row, 1), cell(row, 2), cell(row, 3), cell(row, 4), cell(row, 5))
		if err == nil {
			out.Result, err = engine.Score(m)
		}
		if err != nil {
			out.Error = err.Error()
			batch.Failed++
		} else {
			batch.Count++
		}
		batch.Rows = append(batch.Rows, out)
	}
	if len(batch.Rows) == 0 {
		return nil, ErrEmptySheet
	}
	return batch, nil
}

// WriteBatchTemplate writes an empty score workbook with the expected header.
func WriteBatchTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Scores"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	header := make([]interface{}, len(BatchColumns))
	for i, c := range BatchColumns {
		header[i] = c
	}
	if err := writeHeader(f, sheet, header); err != nil {
		return err
	}
	return f.Write(w)
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
