package community

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zomorrodilab/ZLab-tools/internal/model"
)

func speciesModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New("panGenome")
	for _, id := range []string{"glc_D[c]", "ac[c]", "ac[e]", "biomass[c]"} {
		require.NoError(t, m.AddMetabolite(&model.Metabolite{ID: id}))
	}
	add := func(id string, stoich map[string]float64, lower, upper float64) {
		require.NoError(t, m.AddReaction(&model.Reaction{
			ID: id, Metabolites: stoich, LowerBound: lower, UpperBound: upper,
		}))
	}
	add("PGI", map[string]float64{"glc_D[c]": -1, "ac[c]": 1}, -1000, 1000)
	add("ACt", map[string]float64{"ac[c]": -1, "ac[e]": 1}, -1000, 1000)
	add("EX_ac(e)", map[string]float64{"ac[e]": -1}, -1000, 1000)
	add("biomass525", map[string]float64{"glc_D[c]": -1, "biomass[c]": 1}, 0, 1000)
	return m
}

func TestTagSpecies(t *testing.T) {
	src := speciesModel(t)
	tagged, err := TagSpecies(src, "Bacteroides_fragilis")
	require.NoError(t, err)

	// source untouched
	assert.True(t, src.HasReaction("EX_ac(e)"))
	assert.True(t, src.HasMetabolite("ac[e]"))

	// intracellular metabolites and reactions are prefixed
	assert.True(t, tagged.HasMetabolite("Bacteroides_fragilis_glc_D[c]"))
	assert.True(t, tagged.HasReaction("Bacteroides_fragilis_PGI"))
	assert.True(t, tagged.HasReaction("Bacteroides_fragilis_biomass525"),
		"biomass reactions survive tagging")

	// extracellular metabolites move to the tagged lumen
	assert.True(t, tagged.HasMetabolite("Bacteroides_fragilis_ac[u]"))
	assert.False(t, tagged.HasMetabolite("ac[e]"))

	// the exchange artifact is dropped, replaced by the IEX shuttle
	assert.False(t, tagged.HasReaction("Bacteroides_fragilis_EX_ac(e)"))
	iex := tagged.Reaction("Bacteroides_fragilis_IEX_ac[u]tr")
	require.NotNil(t, iex)
	assert.Equal(t, map[string]float64{
		"ac[u]":                      -1,
		"Bacteroides_fragilis_ac[u]": 1,
	}, iex.Metabolites)
	assert.Equal(t, model.Bounds{Lower: -1000, Upper: 1000}, iex.Bounds())
	assert.True(t, tagged.HasMetabolite("ac[u]"), "general lumen metabolite is created")

	// stoichiometry follows the renames
	transport := tagged.Reaction("Bacteroides_fragilis_ACt")
	require.NotNil(t, transport)
	assert.Equal(t, map[string]float64{
		"Bacteroides_fragilis_ac[c]": -1,
		"Bacteroides_fragilis_ac[u]": 1,
	}, transport.Metabolites)
}

func TestTagSpeciesEmptyName(t *testing.T) {
	_, err := TagSpecies(speciesModel(t), "")
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	a, err := TagSpecies(speciesModel(t), "sp1")
	require.NoError(t, err)
	b, err := TagSpecies(speciesModel(t), "sp2")
	require.NoError(t, err)

	community := model.New("community")
	require.NoError(t, Merge(community, a))
	require.NoError(t, Merge(community, b))

	assert.True(t, community.HasReaction("sp1_IEX_ac[u]tr"))
	assert.True(t, community.HasReaction("sp2_IEX_ac[u]tr"))

	// the shared lumen metabolite is merged once
	count := 0
	for _, met := range community.Metabolites {
		if met.ID == "ac[u]" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	// merged reactions do not alias source stoichiometry
	community.Reaction("sp1_PGI").Metabolites["sp1_glc_D[c]"] = -2
	assert.Equal(t, -1.0, a.Reaction("sp1_PGI").Metabolites["sp1_glc_D[c]"])
}
