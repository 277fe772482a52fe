package sheet_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/hivetox-cli/internal/sheet"
	"github.com/KaramelBytes/hivetox-cli/internal/sheet/sheettest"
)

func TestOpenXLSXFirstAndNamedSheet(t *testing.T) {
	dir := t.TempDir()
	path := sheettest.WriteWorkbook(t, filepath.Join(dir, "book.xlsx"),
		sheettest.Sheet{Name: "first", Rows: [][]any{{"Site", "211"}, {"S1", 1.5}, {nil, nil}, {"S2", 2}}},
		sheettest.Sheet{Name: "second", Rows: [][]any{{"code_clc_1", "libelle"}, {1, "Territoires artificialisés"}}},
	)

	tbl, err := sheet.Open(path, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if tbl.Sheet != "first" {
		t.Fatalf("expected first sheet, got %q", tbl.Sheet)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected blank row to be skipped, got %d rows", len(tbl.Rows))
	}
	if got := tbl.Cell(1, 0); got != "S2" {
		t.Fatalf("cell(1,0) = %q", got)
	}

	named, err := sheet.Open(path, "second")
	if err != nil {
		t.Fatalf("open named: %v", err)
	}
	idx, err := named.Col("libelle")
	if err != nil || idx != 1 {
		t.Fatalf("col libelle = %d, %v", idx, err)
	}
}

func TestOpenMissingSheetAndColumn(t *testing.T) {
	path := sheettest.WriteWorkbook(t, filepath.Join(t.TempDir(), "book.xlsx"),
		sheettest.Sheet{Name: "data", Rows: [][]any{{"Site"}, {"S1"}}},
	)
	if _, err := sheet.Open(path, "nomenclature_clc_3"); !errors.Is(err, sheet.ErrSheetNotFound) {
		t.Fatalf("expected ErrSheetNotFound, got %v", err)
	}
	tbl, err := sheet.Open(path, "data")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	// header matching is exact
	if _, err := tbl.Col("site"); !errors.Is(err, sheet.ErrColumnNotFound) {
		t.Fatalf("expected ErrColumnNotFound, got %v", err)
	}
}

func TestOpenTabSeparated(t *testing.T) {
	path := sheettest.WriteFile(t, filepath.Join(t.TempDir(), "LMR.txt"), "Pb\tCd\tHg\t\n0,10\t0.05\t\t\n")
	tbl, err := sheet.Open(path, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(tbl.Header) != 4 || tbl.Header[3] != "" {
		t.Fatalf("unexpected header %q", tbl.Header)
	}
	if tbl.Cell(0, 0) != "0,10" {
		t.Fatalf("cell = %q", tbl.Cell(0, 0))
	}
}

func TestOpenUnsupported(t *testing.T) {
	if _, err := sheet.Open("legacy.xls", ""); !errors.Is(err, sheet.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestListWorkbooksSkipsLockFiles(t *testing.T) {
	dir := t.TempDir()
	sheettest.WriteFile(t, filepath.Join(dir, "b.xlsx"), "x")
	sheettest.WriteFile(t, filepath.Join(dir, "a.xlsx"), "x")
	sheettest.WriteFile(t, filepath.Join(dir, "~$a.xlsx"), "x")
	sheettest.WriteFile(t, filepath.Join(dir, "notes.txt"), "x")

	got, err := sheet.ListWorkbooks(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{filepath.Join(dir, "a.xlsx"), filepath.Join(dir, "b.xlsx")}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
	if _, err := sheet.ListWorkbooks(filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"0.05", 0.05, true},
		{"0,05", 0.05, true},
		{"1.234,5", 1234.5, true},
		{"1,234.5", 1234.5, true},
		{"1.5E-3", 0.0015, true},
		{" 12 ", 12, true},
		{"", 0, false},
		{"<LOQ", 0, false},
		{"ND", 0, false},
		{"NaN", 0, false},
	}
	for _, c := range cases {
		got, ok := sheet.ParseNumber(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("ParseNumber(%q) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestParseCode(t *testing.T) {
	if n, ok := sheet.ParseCode("211"); !ok || n != 211 {
		t.Fatalf("211 -> %d %v", n, ok)
	}
	if n, ok := sheet.ParseCode("311.0"); !ok || n != 311 {
		t.Fatalf("311.0 -> %d %v", n, ok)
	}
	if _, ok := sheet.ParseCode("2.5"); ok {
		t.Fatalf("expected fractional code to be rejected")
	}
}
