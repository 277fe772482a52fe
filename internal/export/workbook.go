// Package export writes the frames of a run to an xlsx workbook and renders
// exceedance charts.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/hivetox-cli/internal/pipeline"
	"github.com/KaramelBytes/hivetox-cli/internal/utils"
	"github.com/xuri/excelize/v2"
)

// Sheet names of an exported workbook, in order.
const (
	SheetFeatures  = "features"
	SheetToPredict = "to_predict"
	SheetLegend    = "clc_legend"
	SheetRun       = "run"
)

// WriteWorkbook writes features, to_predict, the CLC legend and run metadata
// to path. The file is replaced atomically.
func WriteWorkbook(path string, res *pipeline.Result) error {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return fmt.Errorf("export %s: output must be an .xlsx file", path)
	}
	x := excelize.NewFile()
	defer x.Close()

	first := x.GetSheetName(0)
	if err := x.SetSheetName(first, SheetFeatures); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := res.Features.WriteSheet(x, SheetFeatures); err != nil {
		return fmt.Errorf("export features: %w", err)
	}
	if err := res.ToPredict.WriteSheet(x, SheetToPredict); err != nil {
		return fmt.Errorf("export to_predict: %w", err)
	}
	if err := writeLegend(x, res); err != nil {
		return fmt.Errorf("export legend: %w", err)
	}
	if err := writeRun(x, res); err != nil {
		return fmt.Errorf("export run: %w", err)
	}
	x.SetActiveSheet(0)

	buf, err := x.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func writeLegend(x *excelize.File, res *pipeline.Result) error {
	if _, err := x.NewSheet(SheetLegend); err != nil {
		return err
	}
	rows := [][]any{{"CLC", "level", "label"}}
	for _, lc := range res.Legend {
		var level any
		if lc.Level > 0 {
			level = lc.Level
		}
		rows = append(rows, []any{lc.Code, level, lc.Label})
	}
	return writeRows(x, SheetLegend, rows)
}

func writeRun(x *excelize.File, res *pipeline.Result) error {
	if _, err := x.NewSheet(SheetRun); err != nil {
		return err
	}
	frows, fcols := res.Features.Shape()
	trows, tcols := res.ToPredict.Shape()
	rows := [][]any{
		{"key", "value"},
		{"run_id", res.RunID.String()},
		{"created_at", res.CreatedAt.Format(time.RFC3339)},
		{"data_dir", res.DataDir},
		{"features", fmt.Sprintf("%d rows x %d columns", frows, fcols)},
		{"to_predict", fmt.Sprintf("%d rows x %d columns", trows, tcols)},
	}
	for _, w := range res.Warnings {
		rows = append(rows, []any{"warning", w})
	}
	return writeRows(x, SheetRun, rows)
}

func writeRows(x *excelize.File, sheet string, rows [][]any) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := x.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}
