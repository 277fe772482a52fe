// Package frame holds wide tables indexed by a string key (the site) with
// multi-level column keys, such as (domain, metric, substance).
package frame

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind is the value type of a column.
type Kind int

const (
	Number Kind = iota
	Bool
)

func (k Kind) String() string {
	if k == Bool {
		return "bool"
	}
	return "number"
}

// MarshalText encodes the kind by name so JSON summaries read "number" or "bool".
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Column is a multi-level column key and its value kind.
type Column struct {
	Key  []string `json:"key"`
	Kind Kind     `json:"kind"`
}

// Label joins the key levels with '/'.
func (c Column) Label() string { return strings.Join(c.Key, "/") }

type cell struct{ r, c int }

// Frame is a sparse wide table. Missing cells stay missing until FillMissing.
type Frame struct {
	Name      string
	IndexName string
	Levels    []string

	cols     []Column
	colIndex map[string]int
	rows     []string
	rowIndex map[string]int
	cells    map[cell]float64
}

// New returns an empty frame with the given column level names.
func New(name, indexName string, levels ...string) *Frame {
	return &Frame{
		Name:      name,
		IndexName: indexName,
		Levels:    levels,
		colIndex:  map[string]int{},
		rowIndex:  map[string]int{},
		cells:     map[cell]float64{},
	}
}

func joinKey(key []string) string { return strings.Join(key, "\x1f") }

// AddColumn registers a column if it does not exist yet and returns its position.
// The key must have one entry per level.
func (f *Frame) AddColumn(kind Kind, key ...string) int {
	if len(key) != len(f.Levels) {
		panic(fmt.Sprintf("frame %s: column key %q has %d levels, want %d", f.Name, key, len(key), len(f.Levels)))
	}
	k := joinKey(key)
	if i, ok := f.colIndex[k]; ok {
		return i
	}
	f.cols = append(f.cols, Column{Key: append([]string(nil), key...), Kind: kind})
	f.colIndex[k] = len(f.cols) - 1
	return len(f.cols) - 1
}

// AddRow registers a row if it does not exist yet and returns its position.
func (f *Frame) AddRow(name string) int {
	if i, ok := f.rowIndex[name]; ok {
		return i
	}
	f.rows = append(f.rows, name)
	f.rowIndex[name] = len(f.rows) - 1
	return len(f.rows) - 1
}

// Set stores a numeric value, adding the row and a Number column as needed.
func (f *Frame) Set(row string, key []string, v float64) {
	c := f.AddColumn(Number, key...)
	r := f.AddRow(row)
	f.cells[cell{r, c}] = v
}

// SetBool stores a boolean value, adding the row and a Bool column as needed.
func (f *Frame) SetBool(row string, key []string, b bool) {
	c := f.AddColumn(Bool, key...)
	r := f.AddRow(row)
	f.cells[cell{r, c}] = boolValue(b)
}

// Get returns the numeric value of a cell and whether it is set.
func (f *Frame) Get(row string, key ...string) (float64, bool) {
	r, ok := f.rowIndex[row]
	if !ok {
		return 0, false
	}
	c, ok := f.colIndex[joinKey(key)]
	if !ok {
		return 0, false
	}
	v, ok := f.cells[cell{r, c}]
	return v, ok
}

// GetBool returns the boolean value of a cell and whether it is set.
func (f *Frame) GetBool(row string, key ...string) (value, ok bool) {
	v, ok := f.Get(row, key...)
	return v != 0, ok
}

// FillMissing sets every unset cell to v (false for Bool columns when v is 0).
func (f *Frame) FillMissing(v float64) {
	for r := range f.rows {
		for c := range f.cols {
			if _, ok := f.cells[cell{r, c}]; !ok {
				f.cells[cell{r, c}] = v
			}
		}
	}
}

// SortRows orders rows with NaturalLess.
func (f *Frame) SortRows() {
	perm := make([]int, len(f.rows))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool { return NaturalLess(f.rows[perm[a]], f.rows[perm[b]]) })
	rows := make([]string, len(f.rows))
	remap := make([]int, len(f.rows))
	for newPos, old := range perm {
		rows[newPos] = f.rows[old]
		remap[old] = newPos
	}
	cells := make(map[cell]float64, len(f.cells))
	for k, v := range f.cells {
		cells[cell{remap[k.r], k.c}] = v
	}
	f.rows, f.cells = rows, cells
	for i, name := range f.rows {
		f.rowIndex[name] = i
	}
}

// Rows returns the row index values in order.
func (f *Frame) Rows() []string { return append([]string(nil), f.rows...) }

// Columns returns the column keys in order.
func (f *Frame) Columns() []Column { return append([]Column(nil), f.cols...) }

// Shape returns (rows, columns).
func (f *Frame) Shape() (int, int) { return len(f.rows), len(f.cols) }

// LevelValues returns the distinct values of one column level, in column order.
func (f *Frame) LevelValues(level int) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, c := range f.cols {
		v := c.Key[level]
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Format renders one cell for display; missing cells render empty.
func (f *Frame) Format(r, c int) string {
	v, ok := f.cells[cell{r, c}]
	if !ok {
		return ""
	}
	if f.cols[c].Kind == Bool {
		if v != 0 {
			return "True"
		}
		return "False"
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func (f *Frame) value(r, c int) (float64, bool) {
	v, ok := f.cells[cell{r, c}]
	return v, ok
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// NaturalLess orders integers numerically and everything else lexically;
// integers sort before text.
func NaturalLess(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return ai < bi
	case aerr == nil:
		return true
	case berr == nil:
		return false
	}
	return a < b
}
