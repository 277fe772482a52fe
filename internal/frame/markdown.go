package frame

import (
	"fmt"
	"math"
	"strings"
)

// ColumnSummary captures simple statistics for one column.
type ColumnSummary struct {
	Column
	NonNull int `json:"non_null"`
	Missing int `json:"missing"`
	// Numeric stats
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	// Bool columns: number of true cells
	True int `json:"true,omitempty"`
}

// Describe summarizes every column in order.
func (f *Frame) Describe() []ColumnSummary {
	out := make([]ColumnSummary, 0, len(f.cols))
	for c, col := range f.cols {
		s := ColumnSummary{Column: col, Min: math.Inf(1), Max: math.Inf(-1)}
		var n int
		for r := range f.rows {
			v, ok := f.value(r, c)
			if !ok {
				s.Missing++
				continue
			}
			s.NonNull++
			if v < s.Min {
				s.Min = v
			}
			if v > s.Max {
				s.Max = v
			}
			n++
			s.Mean += (v - s.Mean) / float64(n)
			if col.Kind == Bool && v != 0 {
				s.True++
			}
		}
		if s.NonNull == 0 {
			s.Min, s.Max = 0, 0
		}
		out = append(out, s)
	}
	return out
}

// Markdown renders a compact table summary and the head of the table.
// maxRows or maxCols <= 0 means unlimited.
func (f *Frame) Markdown(maxRows, maxCols int) string {
	var b strings.Builder
	nrows, ncols := f.Shape()
	b.WriteString("[TABLE SUMMARY]\n")
	if f.Name != "" {
		b.WriteString(fmt.Sprintf("Table: %s\n", f.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d (index: %s)\n", nrows, f.IndexName))
	b.WriteString(fmt.Sprintf("Columns: %d (levels: %s)\n", ncols, strings.Join(f.Levels, ", ")))

	if ncols > 0 {
		b.WriteString("\n[COLUMN GROUPS]\n")
		for _, top := range f.LevelValues(0) {
			var n, trues, cells int
			for c, col := range f.cols {
				if col.Key[0] != top {
					continue
				}
				n++
				if col.Kind != Bool {
					continue
				}
				for r := range f.rows {
					if v, ok := f.value(r, c); ok {
						cells++
						if v != 0 {
							trues++
						}
					}
				}
			}
			b.WriteString(fmt.Sprintf("- %s: %d columns", top, n))
			if cells > 0 {
				b.WriteString(fmt.Sprintf(", %d/%d flags set", trues, cells))
			}
			b.WriteString("\n")
		}
	}

	var notes []string
	showRows, showCols := nrows, ncols
	if maxRows > 0 && showRows > maxRows {
		showRows = maxRows
		notes = append(notes, fmt.Sprintf("showing %d/%d rows", showRows, nrows))
	}
	if maxCols > 0 && showCols > maxCols {
		showCols = maxCols
		notes = append(notes, fmt.Sprintf("showing %d/%d columns", showCols, ncols))
	}
	if nrows > 0 && ncols > 0 {
		b.WriteString("\n[HEAD]\n| ")
		b.WriteString(safeName(f.IndexName))
		for c := 0; c < showCols; c++ {
			b.WriteString(" | ")
			b.WriteString(safeVal(f.cols[c].Label()))
		}
		b.WriteString(" |\n|")
		for c := 0; c <= showCols; c++ {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for r := 0; r < showRows; r++ {
			b.WriteString("| ")
			b.WriteString(safeVal(f.rows[r]))
			for c := 0; c < showCols; c++ {
				b.WriteString(" | ")
				b.WriteString(f.Format(r, c))
			}
			b.WriteString(" |\n")
		}
	}
	if len(notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
