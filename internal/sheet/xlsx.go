package sheet

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxReader struct{}

func (xlsxReader) CanRead(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xlsm")
}

func (xlsxReader) Read(path, sheetName string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	target := sheetName
	if target == "" {
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook '%s' has no sheets: %w", filepath.Base(path), ErrSheetNotFound)
		}
		target = sheets[0]
	} else if idx, _ := f.GetSheetIndex(target); idx < 0 {
		return nil, fmt.Errorf("sheet '%s' not found in workbook '%s' (available: %s): %w",
			sheetName, filepath.Base(path), strings.Join(sheets, ", "), ErrSheetNotFound)
	}
	rows, err := f.GetRows(target, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", target, err)
	}
	return newTable(filepath.Base(path), target, rows), nil
}
