package sheet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrUnsupportedFormat indicates no reader is registered for a file extension.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	// ErrSheetNotFound is returned when a named sheet is absent from a workbook.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrColumnNotFound is returned by Table.Col for a header that does not exist.
	ErrColumnNotFound = errors.New("column not found")
)

// Reader loads one sheet of a tabular file into memory.
type Reader interface {
	CanRead(filename string) bool
	Read(path, sheetName string) (*Table, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

func init() {
	Register(xlsxReader{})
	Register(delimitedReader{})
}

// Open selects a reader based on filename and loads the requested sheet.
// An empty sheetName selects the first sheet.
func Open(path, sheetName string) (*Table, error) {
	for _, r := range registry {
		if r.CanRead(path) {
			return r.Read(path, sheetName)
		}
	}
	return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFormat)
}

// Table is a header row plus string data rows. Rows are padded to the header width.
type Table struct {
	Name   string
	Sheet  string
	Header []string
	Rows   [][]string
	index  map[string]int
}

func newTable(name, sheet string, records [][]string) *Table {
	t := &Table{Name: name, Sheet: sheet, index: map[string]int{}}
	if len(records) == 0 {
		return t
	}
	t.Header = make([]string, len(records[0]))
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		t.Header[i] = h
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	ncol := len(t.Header)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row := make([]string, ncol)
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Col returns the position of the header matching name exactly.
func (t *Table) Col(name string) (int, error) {
	if i, ok := t.index[name]; ok {
		return i, nil
	}
	where := t.Name
	if t.Sheet != "" {
		where = fmt.Sprintf("%s (sheet: %s)", t.Name, t.Sheet)
	}
	return -1, fmt.Errorf("%q in %s: %w", name, where, ErrColumnNotFound)
}

// Cols resolves several headers at once.
func (t *Table) Cols(names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, n := range names {
		idx, err := t.Col(n)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

// Cell returns the trimmed value at (row, col), or "" when out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}

// ListWorkbooks returns the .xlsx files directly under dir, skipping
// editor lock files (names starting with '~'), sorted by name.
func ListWorkbooks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() {
			continue
		}
		if strings.HasPrefix(name, "~") || !strings.HasSuffix(strings.ToLower(name), ".xlsx") {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	sort.Strings(out)
	return out, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
