package solver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zomorrodilab/ZLab-tools/internal/model"
)

func lpTestModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New("toy")
	for _, id := range []string{"ac[u]", "ac[fe]", "orphan[c]"} {
		require.NoError(t, m.AddMetabolite(&model.Metabolite{ID: id}))
	}
	require.NoError(t, m.AddReaction(&model.Reaction{
		ID:          "sp_IEX_ac[u]tr",
		Metabolites: map[string]float64{"ac[u]": 1},
		LowerBound:  -1000,
		UpperBound:  1000,
	}))
	require.NoError(t, m.AddReaction(&model.Reaction{
		ID:          "UFEt_ac",
		Metabolites: map[string]float64{"ac[u]": -1, "ac[fe]": 1},
		LowerBound:  0,
		UpperBound:  1000000,
	}))
	require.NoError(t, m.AddReaction(&model.Reaction{
		ID:          "EX_ac[fe]",
		Metabolites: map[string]float64{"ac[fe]": -1},
		LowerBound:  5,
		UpperBound:  5,
	}))
	return m
}

func TestWriteLP(t *testing.T) {
	m := lpTestModel(t)

	var b strings.Builder
	varToRxn, err := WriteLP(&b, m, "UFEt_ac", Maximize)
	require.NoError(t, err)
	lp := b.String()

	assert.Equal(t, map[string]string{
		"x1": "sp_IEX_ac[u]tr",
		"x2": "UFEt_ac",
		"x3": "EX_ac[fe]",
	}, varToRxn, "variables are numbered in reaction order")

	assert.Contains(t, lp, "Maximize\n obj: x2\n")
	// mass balance rows over ac[fe] then ac[u] (lexical metabolite order)
	assert.Contains(t, lp, " m1: + 1 x2 - 1 x3 = 0\n")
	assert.Contains(t, lp, " m2: + 1 x1 - 1 x2 = 0\n")
	assert.NotContains(t, lp, "m3:", "orphan metabolites produce no constraint row")

	assert.Contains(t, lp, " -1000 <= x1 <= 1000\n")
	assert.Contains(t, lp, " 0 <= x2 <= 1e+06\n")
	assert.Contains(t, lp, " x3 = 5\n", "equal bounds collapse to a fixed variable")
	assert.True(t, strings.HasSuffix(lp, "End\n"))
}

func TestWriteLPMinimize(t *testing.T) {
	var b strings.Builder
	_, err := WriteLP(&b, lpTestModel(t), "sp_IEX_ac[u]tr", Minimize)
	require.NoError(t, err)
	assert.Contains(t, b.String(), "Minimize\n obj: x1\n")
}

func TestWriteLPUnknownObjective(t *testing.T) {
	var b strings.Builder
	_, err := WriteLP(&b, lpTestModel(t), "missing", Maximize)
	assert.ErrorIs(t, err, ErrObjectiveNotFound)
}
