package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zomorrodilab/ZLab-tools/internal/model"
)

func sampleModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New("toy")
	require.NoError(t, m.AddMetabolite(&model.Metabolite{
		ID: "ac[u]", Name: "Acetate", Compartment: "u", Formula: "C2H3O2", Charge: -1,
	}))
	require.NoError(t, m.AddMetabolite(&model.Metabolite{
		ID: "ac[fe]", Name: "Acetate", Compartment: "fe",
	}))
	require.NoError(t, m.AddReaction(&model.Reaction{
		ID:          "UFEt_ac",
		Name:        "acetate fecal transport",
		Metabolites: map[string]float64{"ac[u]": -1, "ac[fe]": 1},
		LowerBound:  0,
		UpperBound:  1000000,
	}))
	return m
}

func TestJSONModelRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toy.json")
	require.NoError(t, SaveJSONModel(sampleModel(t), path))

	m, err := LoadModel(path)
	require.NoError(t, err)

	assert.Equal(t, "toy", m.Name, "model name comes from the file basename")
	require.True(t, m.HasReaction("UFEt_ac"))
	rxn := m.Reaction("UFEt_ac")
	assert.Equal(t, map[string]float64{"ac[u]": -1, "ac[fe]": 1}, rxn.Metabolites)
	assert.Equal(t, model.Bounds{Lower: 0, Upper: 1000000}, rxn.Bounds())
	assert.Equal(t, -1.0, m.Metabolite("ac[u]").Charge)
}

func TestLoadYAMLModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toy.yml")
	raw := `id: toy
metabolites:
  - id: ac[u]
    name: Acetate
    compartment: u
reactions:
  - id: EX_ac[u]
    name: acetate sink
    metabolites:
      ac[u]: -1
    lower_bound: -1000
    upper_bound: 1000
    gene_reaction_rule: ""
genes: []
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	m, err := LoadModel(path)
	require.NoError(t, err)
	assert.True(t, m.HasReaction("EX_ac[u]"))
	assert.Equal(t, model.Bounds{Lower: -1000, Upper: 1000}, m.Reaction("EX_ac[u]").Bounds())
}

func TestLoadModelUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toy.mat")
	require.NoError(t, os.WriteFile(path, []byte("binary"), 0o644))

	_, err := LoadModel(path)
	assert.ErrorContains(t, err, "convert to json or yaml")
}

func TestLoadModelMissingFile(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorContains(t, err, "does not exist")
}

func TestConvertModel(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "toy.yml")
	require.NoError(t, os.WriteFile(src, []byte("id: toy\nmetabolites: []\nreactions: []\ngenes: []\n"), 0o644))

	out, err := ConvertModel(src, filepath.Join(dir, "json"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "json", "toy.json"), out)

	_, err = os.Stat(out)
	assert.NoError(t, err)
}
