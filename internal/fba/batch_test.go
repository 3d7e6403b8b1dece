package fba

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zomorrodilab/ZLab-tools/internal/data"
	"github.com/zomorrodilab/ZLab-tools/internal/model"
)

func writeBatchModel(t *testing.T, dir, name string) {
	t.Helper()
	m := model.New(name)
	for _, id := range []string{"ac[u]", "ac[fe]", "sp1_ac[u]"} {
		require.NoError(t, m.AddMetabolite(&model.Metabolite{ID: id}))
	}
	require.NoError(t, m.AddReaction(&model.Reaction{
		ID:          "UFEt_ac",
		Metabolites: map[string]float64{"ac[u]": -1, "ac[fe]": 1},
		LowerBound:  0,
		UpperBound:  25,
	}))
	require.NoError(t, m.AddReaction(&model.Reaction{
		ID:          "sp1_IEX_ac[u]tr",
		Metabolites: map[string]float64{"ac[u]": 1, "sp1_ac[u]": -1},
		LowerBound:  -1000,
		UpperBound:  1000,
	}))
	require.NoError(t, data.SaveJSONModel(m, filepath.Join(dir, name+".json")))
}

func TestRunBatch(t *testing.T) {
	modelsDir := t.TempDir()
	outDir := t.TempDir()
	writeBatchModel(t, modelsDir, "CSM002_communitymodel_final")
	writeBatchModel(t, modelsDir, "CSM001_communitymodel_final")
	// a broken model must not sink the batch
	require.NoError(t, os.WriteFile(filepath.Join(modelsDir, "broken.json"), []byte("{"), 0o644))

	p := &Pipeline{Solver: &stubSolver{}}
	reports, err := RunBatch(context.Background(), modelsDir, p, BatchOptions{
		OutDir:  outDir,
		Workers: 2,
	})
	require.NoError(t, err)
	require.Len(t, reports, 3)

	assert.Equal(t, "CSM001_communitymodel_final", reports[0].Model, "reports are sorted by model name")
	assert.Equal(t, "broken", reports[2].Model)

	for _, r := range reports[:2] {
		assert.NoError(t, r.Err)
		assert.Equal(t, 1, r.Maxed)
		assert.Equal(t, 1, r.Minned)
	}
	assert.Error(t, reports[2].Err)

	fluxes, err := ReadFluxCSV(filepath.Join(outDir, "CSM001_communitymodel_final_UFEt.csv"))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"UFEt_ac": 25}, fluxes)

	for _, suffix := range []string{"_IEX.csv", "_ledger.csv", "_result.json"} {
		_, err := os.Stat(filepath.Join(outDir, "CSM002_communitymodel_final"+suffix))
		assert.NoError(t, err, "batch must write %s outputs", suffix)
	}
}

func TestRunBatchConventions(t *testing.T) {
	modelsDir := t.TempDir()
	writeBatchModel(t, modelsDir, "CSM003_communitymodel_final")

	outDir := t.TempDir()
	conv := model.DefaultConventions()
	p := &Pipeline{Solver: &stubSolver{}}
	reports, err := RunBatch(context.Background(), modelsDir, p, BatchOptions{
		OutDir:      outDir,
		Conventions: &conv,
	})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.NoError(t, reports[0].Err)

	// conventions raise the transport upper bound to 1e6 before the solve
	fluxes, err := ReadFluxCSV(filepath.Join(outDir, "CSM003_communitymodel_final_UFEt.csv"))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"UFEt_ac": 1000000}, fluxes)
}

func TestRunBatchEmptyDir(t *testing.T) {
	_, err := RunBatch(context.Background(), t.TempDir(), &Pipeline{Solver: &stubSolver{}}, BatchOptions{})
	assert.ErrorContains(t, err, "no model files")
}
