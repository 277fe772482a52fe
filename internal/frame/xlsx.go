package frame

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteSheet writes the frame to sheet, creating it if needed. The layout
// follows the usual wide-table convention: one header row per column level
// (level name in the first column), a row holding the index name, then one
// row per index value. Missing cells are left blank.
func (f *Frame) WriteSheet(x *excelize.File, sheet string) error {
	idx, err := x.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("sheet %s: %w", sheet, err)
	}
	if idx < 0 {
		if _, err := x.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}

	line := 1
	for lvl, name := range f.Levels {
		row := make([]any, 0, len(f.cols)+1)
		row = append(row, name)
		for _, c := range f.cols {
			row = append(row, c.Key[lvl])
		}
		if err := setRow(x, sheet, line, row); err != nil {
			return err
		}
		line++
	}
	if err := setRow(x, sheet, line, []any{f.IndexName}); err != nil {
		return err
	}
	line++

	for r, name := range f.rows {
		row := make([]any, 0, len(f.cols)+1)
		row = append(row, name)
		for c, col := range f.cols {
			v, ok := f.value(r, c)
			switch {
			case !ok:
				row = append(row, nil)
			case col.Kind == Bool:
				row = append(row, v != 0)
			default:
				row = append(row, v)
			}
		}
		if err := setRow(x, sheet, line, row); err != nil {
			return err
		}
		line++
	}
	if len(f.Levels) > 0 {
		if err := x.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			XSplit:      1,
			YSplit:      len(f.Levels) + 1,
			TopLeftCell: cellName(2, len(f.Levels)+2),
			ActivePane:  "bottomRight",
		}); err != nil {
			return fmt.Errorf("freeze panes %s: %w", sheet, err)
		}
	}
	return nil
}

func setRow(x *excelize.File, sheet string, line int, row []any) error {
	if err := x.SetSheetRow(sheet, cellName(1, line), &row); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, line, err)
	}
	return nil
}

func cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		// col and row are always >= 1 here
		panic(err)
	}
	return name
}
