package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "data", c.DataDir)
	assert.Equal(t, []int{2017, 2018, 2019, 2020}, c.Years)
	assert.Equal(t, "REF....SUBSTANCE", c.PeriodSiteColumn)
	assert.Equal(t, "classCLC", c.DistanceCLCColumn)
	assert.Len(t, c.NomenclatureSheets, 3)
	assert.Equal(t, filepath.Join("data", "2019", "HM"), c.PeriodDir(2019, "HM"))
	assert.Equal(t, filepath.Join("data", "LMR.txt"), c.Path(c.HeavyMetalLMRFile))
}

func TestLoadEnvOverridesDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HIVETOX_DATA_DIR", "/srv/apiary")
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/apiary", c.DataDir)
	assert.Equal(t, "/abs/file.xlsx", c.Path("/abs/file.xlsx"))
}

func TestSaveThenLoadRoundTripsFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "hivetox.yaml")

	c := Defaults()
	c.DataDir = "survey"
	c.Years = []int{2019, 2020}
	require.NoError(t, Save(c, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "survey", got.DataDir)
	assert.Equal(t, []int{2019, 2020}, got.Years)
	assert.Equal(t, "importName", got.PesticideNameColumn)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsEmptyYears(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("years: []\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
