package export_test

import (
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/hivetox-cli/internal/dataset/datasettest"
	"github.com/KaramelBytes/hivetox-cli/internal/export"
	"github.com/KaramelBytes/hivetox-cli/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"
)

func TestWriteWorkbook(t *testing.T) {
	env := pipeline.Env{Config: datasettest.Write(t, t.TempDir()), Log: zaptest.NewLogger(t)}
	res, err := pipeline.Run(env, pipeline.Options{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "hivetox.xlsx")
	require.NoError(t, export.WriteWorkbook(path, res))

	x, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer x.Close()
	assert.Equal(t, []string{"features", "to_predict", "clc_legend", "run"}, x.GetSheetList())

	features, err := x.GetRows("features")
	require.NoError(t, err)
	require.Len(t, features, 2+1+2)
	assert.Equal(t, []string{"metric", "distance", "distance", "distance", "surface", "surface", "surface"}, features[0])
	assert.Equal(t, []string{"CLC", "112", "211", "311", "112", "211", "311"}, features[1])
	assert.Equal(t, []string{"S1", "0", "200", "50", "0", "1000", "500"}, features[3])

	legend, err := x.GetRows("clc_legend")
	require.NoError(t, err)
	require.Len(t, legend, 4)
	assert.Equal(t, []string{"211", "3", "Terres arables hors périmètres d'irrigation"}, legend[2])

	run, err := x.GetRows("run")
	require.NoError(t, err)
	assert.Equal(t, []string{"run_id", res.RunID.String()}, run[1])
	assert.Equal(t, "warning", run[len(run)-1][0])
}

func TestWriteWorkbookRejectsOtherExtensions(t *testing.T) {
	err := export.WriteWorkbook(filepath.Join(t.TempDir(), "out.csv"), &pipeline.Result{})
	require.Error(t, err)
}
