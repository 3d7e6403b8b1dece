package community

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zomorrodilab/ZLab-tools/internal/model"
)

func biomassModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New("community")
	for _, id := range []string{"sp1_biomass[c]", "sp2_biomass[c]", "sp3_biomass[c]"} {
		require.NoError(t, m.AddMetabolite(&model.Metabolite{ID: id}))
	}
	require.NoError(t, m.AddReaction(&model.Reaction{
		ID:          "EX_Biomass_old",
		Metabolites: map[string]float64{"sp1_biomass[c]": -1},
	}))
	return m
}

func TestAddCommunityBiomass(t *testing.T) {
	m := biomassModel(t)
	require.NoError(t, AddCommunityBiomass(m, map[string]float64{
		"sp1": 0.7,
		"sp2": 0.2995,
		"sp3": 0.0005, // below the contribution floor
	}))

	assert.False(t, m.HasReaction("EX_Biomass_old"), "prior biomass reactions are replaced")

	cb := m.Reaction("communityBiomass")
	require.NotNil(t, cb)
	assert.Equal(t, map[string]float64{
		"sp1_biomass[c]":    -0.7,
		"sp2_biomass[c]":    -0.2995,
		"microbeBiomass[u]": 1,
	}, cb.Metabolites, "sub-floor species contribute nothing")
	assert.Equal(t, model.Bounds{Lower: 0, Upper: 1000}, cb.Bounds())

	assert.True(t, m.HasReaction("UFEt_microbeBiomass"))
	assert.True(t, m.HasReaction("EX_microbeBiomass[fe]"))
	assert.True(t, m.HasMetabolite("microbeBiomass[fe]"))
}

func TestAddCommunityBiomassUnknownSpecies(t *testing.T) {
	m := biomassModel(t)
	err := AddCommunityBiomass(m, map[string]float64{"sp1": 0.5, "sp2": 0.5})
	assert.ErrorContains(t, err, "no abundance", "every biomass metabolite needs an abundance")
}

func TestAddCommunityBiomassNoBiomass(t *testing.T) {
	err := AddCommunityBiomass(model.New("empty"), map[string]float64{"sp1": 1})
	assert.ErrorContains(t, err, "no species biomass")
}

func TestAddCommunityBiomassAllBelowFloor(t *testing.T) {
	m := model.New("tiny")
	require.NoError(t, m.AddMetabolite(&model.Metabolite{ID: "sp1_biomass[c]"}))
	err := AddCommunityBiomass(m, map[string]float64{"sp1": 0.0001})
	assert.ErrorContains(t, err, "below the abundance floor")
}
