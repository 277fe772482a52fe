// Package datasettest writes a small but complete monitoring data directory.
//
// Sites S1..S3 carry measurements; S4 only has surfaces. Expected values:
//
//	pesticides  S1: glyphosate max(0.02, 0.04, 0.06 dup) = 0.06, boscalid 0.03,
//	                fluxapyroxad 0.005, amitraz 0.3, unlisted 1
//	            S2: glyphosate 0.1, boscalid "<LOQ" (not measured)
//	heavy metal S1: Pb 0.2, Cd 0.06; S3: Pb 0.05, Cd 0
//	distances   S1/211 mean(100, 300) = 200, S1/311 50, S1/112 80 (no surface),
//	            S2/211 400, S2/112 30
package datasettest

import (
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/hivetox-cli/internal/config"
	"github.com/KaramelBytes/hivetox-cli/internal/sheet/sheettest"
)

var periodHeader = []any{"REF....SUBSTANCE", "PERIOD"}

func header(extra ...any) []any {
	return append(append([]any{}, periodHeader...), extra...)
}

// Write populates dir and returns a default configuration pointing at it.
func Write(t testing.TB, dir string) *config.Global {
	t.Helper()
	sheettest.WriteWorkbook(t, filepath.Join(dir, "absSurfs.xlsx"), sheettest.Sheet{Name: "Sheet1", Rows: [][]any{
		{"Site", 211, 311, 112},
		{"S1", 1000, 500, nil},
		{"S2", 200, nil, 50},
		{"S4", 10, 10, 10},
	}})
	sheettest.WriteWorkbook(t, filepath.Join(dir, "pesticides.xlsx"), sheettest.Sheet{Name: "Sheet1", Rows: [][]any{
		{"importName", "nameFR", "typeEN", "familyEN", "LMR"},
		{"glyphosate", "glyphosate", "Herbicide", "Phosphonoglycine", 0.05},
		{"boscalid", "boscalid", "Fungicide", "Carboxamide", 0.01},
		{"fluxapyroxad", "fluxapyroxade", "Fungicide", "Carboxamide", 0.01},
		{"amitraz", "amitraze", "Insecticide and Acaricide", "Amidine Formamidine", 0.2},
		{"coumaphos", "coumaphos", nil, nil, nil},
	}})
	sheettest.WriteWorkbook(t, filepath.Join(dir, "clc-nomenclature-c.xlsx"),
		sheettest.Sheet{Name: "nomenclature_clc_1", Rows: [][]any{
			{"code_clc_1", "libelle_fr"},
			{1, "Territoires artificialisés"},
			{2, "Territoires agricoles"},
			{3, "Forêts et milieux semi-naturels"},
		}},
		sheettest.Sheet{Name: "nomenclature_clc_2", Rows: [][]any{
			{"code_clc_2", "libelle_fr"},
			{11, "Zones urbanisées"},
			{21, "Terres arables"},
		}},
		sheettest.Sheet{Name: "nomenclature_clc_3", Rows: [][]any{
			{"code_clc_3", "libelle_fr"},
			{112, "Tissu urbain discontinu"},
			{211, "Terres arables hors périmètres d'irrigation"},
			{311, "Forêts de feuillus"},
		}},
	)
	sheettest.WriteWorkbook(t, filepath.Join(dir, "distsOneSheet.xlsx"), sheettest.Sheet{Name: "Sheet1", Rows: [][]any{
		{"Site", "polyID", "classCLC", "distance"},
		{"S1", "p1", 211, 100},
		{"S1", "p2", 211, 300},
		{"S1", "p3", 311, 50},
		{"S1", "p4", 112, 80},
		{"S2", "p5", 211, 400},
		{"S2", "p6", 112, 30},
	}})
	sheettest.WriteFile(t, filepath.Join(dir, "LMR.txt"), "Pb\tCd\tHg\t\n0,1\t0,05\t0,01\t\n")

	sheettest.WriteWorkbook(t, filepath.Join(dir, "2017", "Pesticides", "batch1.xlsx"), sheettest.Sheet{Name: "Sheet1", Rows: [][]any{
		header("glyphosate", "boscalid", "fluxapyroxad"),
		{"S1", "P1", 0.02, 0.03, 0.005},
		{"S2", "P1", 0.1, "<LOQ", 0},
	}})
	sheettest.WriteWorkbook(t, filepath.Join(dir, "2018", "Pesticides", "batch2.xlsx"), sheettest.Sheet{Name: "Sheet1", Rows: [][]any{
		header("glyphosate", "amitraz", "unlisted"),
		{"S1", "P2", 0.04, 0.3, 1},
		{"S2", "P2", nil, 0, 0},
	}})
	sheettest.WriteWorkbook(t, filepath.Join(dir, "2018", "Pesticides", "overlap.xlsx"), sheettest.Sheet{Name: "Sheet1", Rows: [][]any{
		header("glyphosate"),
		{"S1", "P2", 0.06},
	}})
	// editor lock file; unreadable as a workbook
	sheettest.WriteFile(t, filepath.Join(dir, "2018", "Pesticides", "~$batch2.xlsx"), "lock")

	sheettest.WriteWorkbook(t, filepath.Join(dir, "2017", "HM", "hm.xlsx"), sheettest.Sheet{Name: "Sheet1", Rows: [][]any{
		header("Pb", "Cd"),
		{"S1", "P1", 0.2, 0.01},
		{"S3", "P1", 0.05, 0},
	}})
	sheettest.WriteWorkbook(t, filepath.Join(dir, "2019", "HM", "hm.xlsx"), sheettest.Sheet{Name: "Sheet1", Rows: [][]any{
		header("Pb", "Cd"),
		{"S1", "P3", 0.1, 0.06},
	}})
	for _, d := range []string{"2019/Pesticides", "2020/Pesticides", "2018/HM", "2020/HM"} {
		sheettest.WriteFile(t, filepath.Join(dir, filepath.FromSlash(d), "README"), "no workbooks this year")
	}

	cfg := config.Defaults()
	cfg.DataDir = dir
	return cfg
}
