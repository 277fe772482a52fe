package export_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/hivetox-cli/internal/dataset/datasettest"
	"github.com/KaramelBytes/hivetox-cli/internal/export"
	"github.com/KaramelBytes/hivetox-cli/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func fixtureResult(t *testing.T) *pipeline.Result {
	t.Helper()
	env := pipeline.Env{Config: datasettest.Write(t, t.TempDir()), Log: zaptest.NewLogger(t)}
	res, err := pipeline.Run(env, pipeline.Options{})
	require.NoError(t, err)
	return res
}

func TestExceedances(t *testing.T) {
	res := fixtureResult(t)
	assert.Equal(t, []export.Exceedance{
		{Name: "glyphosate", Sites: 2},
		{Name: "amitraz", Sites: 1},
		{Name: "boscalid", Sites: 1},
		{Name: "fluxapyroxad", Sites: 0},
	}, export.Exceedances(res, pipeline.DomainPesticide))
	assert.Equal(t, []export.Exceedance{
		{Name: "Cd", Sites: 1},
		{Name: "Pb", Sites: 1},
	}, export.Exceedances(res, pipeline.DomainHeavyMetal))
}

func TestWriteExceedanceChart(t *testing.T) {
	res := fixtureResult(t)
	path := filepath.Join(t.TempDir(), "charts", "pesticides.png")
	require.NoError(t, export.WriteExceedanceChart(path, res, pipeline.DomainPesticide))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG\r\n\x1a\n")))
}

func TestWriteExceedanceChartRejectsBadInput(t *testing.T) {
	res := fixtureResult(t)
	dir := t.TempDir()
	require.Error(t, export.WriteExceedanceChart(filepath.Join(dir, "chart.jpg"), res, pipeline.DomainPesticide))
	require.Error(t, export.WriteExceedanceChart(filepath.Join(dir, "chart.png"), res, "features"))
	assert.NoFileExists(t, filepath.Join(dir, "chart.png"))
}
