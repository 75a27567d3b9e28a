package report

import (
	"fmt"
	"io"

	"dsemotion/domain/emotion"
	"dsemotion/domain/run"

	"github.com/xuri/excelize/v2"
)

const FormatXLSX = "xlsx"

const (
	framesSheet = "Frames"
	rangesSheet = "Ranges"
)

// XLSX writes a workbook with one row per frame and one row per feature range.
type XLSX struct{}

func (XLSX) Format() string { return FormatXLSX }
func (XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSX) Write(w io.Writer, r *run.Run) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", framesSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	header := []interface{}{"sec", "pattern", "status", "emotion"}
	for _, e := range emotion.All {
		header = append(header, "pl_"+e.Code())
	}
	header = append(header, "max_conflict")
	if err := f.SetSheetRow(framesSheet, "A1", &header); err != nil {
		return err
	}
	for i, res := range r.Results {
		row := []interface{}{res.Timestamp, res.Pattern, string(res.Status), ""}
		if res.Labeled() {
			row[3] = res.Emotion.Code()
		}
		for _, e := range emotion.All {
			row = append(row, res.Plausibility[e])
		}
		row = append(row, res.MaxConflict)
		if err := f.SetSheetRow(framesSheet, cell(i+2), &row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(rangesSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	rangeHeader := []interface{}{"feature", "min", "max", "step", "mean", "std_dev", "degenerate"}
	if err := f.SetSheetRow(rangesSheet, "A1", &rangeHeader); err != nil {
		return err
	}
	for i, rg := range r.Ranges {
		row := []interface{}{rg.Feature.Code(), rg.Min, rg.Max, rg.Step, rg.Mean, rg.StdDev, rg.Degenerate}
		if err := f.SetSheetRow(rangesSheet, cell(i+2), &row); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func cell(row int) string {
	name, _ := excelize.CoordinatesToCellName(1, row)
	return name
}
