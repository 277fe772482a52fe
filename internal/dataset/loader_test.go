package dataset_test

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/KaramelBytes/hivetox-cli/internal/dataset"
	"github.com/KaramelBytes/hivetox-cli/internal/dataset/datasettest"
	"github.com/KaramelBytes/hivetox-cli/internal/sheet"
	"github.com/KaramelBytes/hivetox-cli/internal/sheet/sheettest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func newLoader(t *testing.T) *dataset.Loader {
	t.Helper()
	cfg := datasettest.Write(t, t.TempDir())
	return dataset.NewLoader(cfg, zaptest.NewLogger(t))
}

func TestSurfacesStacksWideSheet(t *testing.T) {
	l := newLoader(t)
	got, err := l.Surfaces()
	require.NoError(t, err)

	byKey := map[string]float64{}
	for _, s := range got {
		byKey[s.Site+"/"+strconv.Itoa(s.CLC)] = s.Area
	}
	assert.Len(t, got, 7, "blank cells are dropped")
	assert.Equal(t, 1000.0, byKey["S1/211"])
	assert.Equal(t, 50.0, byKey["S2/112"])
	_, ok := byKey["S1/112"]
	assert.False(t, ok)
}

func TestSubstancesLabelSets(t *testing.T) {
	l := newLoader(t)
	got, err := l.Substances()
	require.NoError(t, err)
	require.Len(t, got, 5)

	amitraz := got["amitraz"]
	assert.Equal(t, []string{"insecticide", "acaricide"}, amitraz.Types)
	assert.Equal(t, []string{"amidine", "formamidine"}, amitraz.Families)
	assert.True(t, amitraz.HasLMR)
	assert.Equal(t, 0.2, amitraz.LMR)

	coumaphos := got["coumaphos"]
	assert.Equal(t, []string{dataset.Unknown}, coumaphos.Types)
	assert.Equal(t, []string{dataset.Unknown}, coumaphos.Families)
	assert.False(t, coumaphos.HasLMR)
}

func TestNomenclatureReadsAllLevels(t *testing.T) {
	l := newLoader(t)
	got, err := l.Nomenclature()
	require.NoError(t, err)
	assert.Len(t, got, 8)
	assert.Equal(t, dataset.LandCover{Code: 211, Level: 3, Label: "Terres arables hors périmètres d'irrigation"}, got[211])
	assert.Equal(t, 2, got[21].Level)
}

func TestNomenclatureMissingSheetFails(t *testing.T) {
	l := newLoader(t)
	l.Config.NomenclatureSheets = []string{"nomenclature_clc_1", "level2"}
	_, err := l.Nomenclature()
	require.ErrorIs(t, err, sheet.ErrSheetNotFound)
}

func TestDistances(t *testing.T) {
	l := newLoader(t)
	got, err := l.Distances()
	require.NoError(t, err)
	assert.Equal(t, []string{"distance"}, got.Metrics)
	require.Len(t, got.Rows, 6)
	assert.Equal(t, dataset.PolygonDistance{Site: "S1", PolyID: "p1", CLC: 211, Values: map[string]float64{"distance": 100}}, got.Rows[0])
}

func TestDistancesColumnMismatchFails(t *testing.T) {
	l := newLoader(t)
	l.Config.DistanceCLCColumn = "CLC"
	_, err := l.Distances()
	require.ErrorIs(t, err, sheet.ErrColumnNotFound)
}

func TestHeavyMetalLimitsDropsTrailingColumn(t *testing.T) {
	l := newLoader(t)
	got, err := l.HeavyMetalLimits()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Pb": 0.1, "Cd": 0.05, "Hg": 0.01}, got)
}

func TestPeriodsConcatenatesYearsAndSkipsLockFiles(t *testing.T) {
	l := newLoader(t)
	var seen []string
	l.OnFile = func(done, total int, path string) {
		assert.Equal(t, 3, total)
		seen = append(seen, filepath.Base(path))
	}
	got, err := l.Periods("Pesticides")
	require.NoError(t, err)

	assert.Equal(t, []string{"batch1.xlsx", "batch2.xlsx", "overlap.xlsx"}, seen)
	assert.Equal(t, dataset.CategoryPesticide, got.Category)
	assert.Equal(t, []string{"glyphosate", "boscalid", "fluxapyroxad", "amitraz", "unlisted"}, got.Substances)
	assert.Len(t, got.Rows, 5)

	// "<LOQ" is kept out of Levels
	s2 := got.Rows[1]
	assert.Equal(t, "S2", s2.Site)
	_, measured := s2.Levels["boscalid"]
	assert.False(t, measured)
	assert.Equal(t, "2017/Pesticides/batch1.xlsx", s2.Source)

	dups := got.Duplicates()
	require.Len(t, dups, 1)
	assert.Equal(t, dataset.PeriodKey{Site: "S1", Period: "P2"}, dups[0].PeriodKey)
	assert.Len(t, dups[0].Sources, 2)
	assert.Equal(t, []string{"S1", "S2"}, got.Sites())
}

func TestPeriodsRecordsNonNumericLevels(t *testing.T) {
	cfg := datasettest.Write(t, t.TempDir())
	sheettest.WriteWorkbook(t, filepath.Join(cfg.DataDir, "2019", "Pesticides", "typo.xlsx"), sheettest.Sheet{Name: "Sheet1", Rows: [][]any{
		{cfg.PeriodSiteColumn, cfg.PeriodColumn, "glyphosate", "boscalid"},
		{"S3", "P4", "1.234.567", ""},
	}})
	core, logs := observer.New(zap.DebugLevel)
	l := dataset.NewLoader(cfg, zap.New(core))

	got, err := l.Periods("Pesticides")
	require.NoError(t, err)

	// blank cells are silent; "<LOQ" and the mistyped number are recorded
	assert.Equal(t, []dataset.SkippedCell{
		{Site: "S2", Period: "P1", Source: "2017/Pesticides/batch1.xlsx", Substance: "boscalid", Raw: "<LOQ"},
		{Site: "S3", Period: "P4", Source: "2019/Pesticides/typo.xlsx", Substance: "glyphosate", Raw: "1.234.567"},
	}, got.Skipped)
	assert.Empty(t, got.Rows[len(got.Rows)-1].Levels)

	cells := logs.FilterMessage("non-numeric level treated as not measured").All()
	require.Len(t, cells, 2)
	assert.Equal(t, "1.234.567", cells[1].ContextMap()["value"])
	summary := logs.FilterMessage("non-numeric levels treated as not measured").All()
	require.Len(t, summary, 1)
	assert.EqualValues(t, 2, summary[0].ContextMap()["cells"])
}

func TestPeriodsRejectsUnknownCategory(t *testing.T) {
	l := newLoader(t)
	for _, c := range []string{"hm", "Metals", ""} {
		_, err := l.Periods(c)
		assert.ErrorIs(t, err, dataset.ErrInvalidCategory, c)
	}
}

func TestPeriodsMissingYearDirectoryFails(t *testing.T) {
	l := newLoader(t)
	require.NoError(t, os.RemoveAll(filepath.Join(l.Config.DataDir, "2020", "HM")))
	_, err := l.Periods("HM")
	require.Error(t, err)
	assert.False(t, errors.Is(err, dataset.ErrInvalidCategory))
}
