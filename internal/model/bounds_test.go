package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conventionModel(t *testing.T) *Model {
	t.Helper()
	m := New("conv")
	for _, id := range []string{"ac[u]", "ac[fe]", "ac[d]", "microbeBiomass[u]", "microbeBiomass[fe]", "sp_ac[u]"} {
		require.NoError(t, m.AddMetabolite(&Metabolite{ID: id}))
	}
	add := func(id string, stoich map[string]float64) {
		require.NoError(t, m.AddReaction(&Reaction{ID: id, Metabolites: stoich}))
	}
	add("EX_ac[fe]", map[string]float64{"ac[fe]": -1})
	add("EX_microbeBiomass[fe]", map[string]float64{"microbeBiomass[fe]": -1})
	add("EX_ac[d]", map[string]float64{"ac[d]": -1})
	add("UFEt_ac", map[string]float64{"ac[u]": -1, "ac[fe]": 1})
	add("DUt_ac", map[string]float64{"ac[d]": -1, "ac[u]": 1})
	add("sp_IEX_ac[u]tr", map[string]float64{"ac[u]": -1, "sp_ac[u]": 1})
	add("communityBiomass", map[string]float64{"microbeBiomass[u]": 1})
	add("sp_PGI", map[string]float64{"sp_ac[u]": -1})
	return m
}

func TestSetDefaultBounds(t *testing.T) {
	m := conventionModel(t)

	changes := SetDefaultBounds(m, DefaultConventions())
	assert.Len(t, changes, 6, "every conventional reaction starts at (0,0) and must change")

	assert.Equal(t, Bounds{Lower: -1000, Upper: 1000000}, m.Reaction("EX_ac[fe]").Bounds())
	assert.Equal(t, Bounds{Lower: -10000, Upper: 1000000}, m.Reaction("EX_microbeBiomass[fe]").Bounds())
	assert.Equal(t, Bounds{Lower: 0, Upper: 1000000}, m.Reaction("UFEt_ac").Bounds())
	assert.Equal(t, Bounds{Lower: 0, Upper: 1000000}, m.Reaction("DUt_ac").Bounds())
	assert.Equal(t, Bounds{Lower: -1000, Upper: 1000}, m.Reaction("sp_IEX_ac[u]tr").Bounds())
	assert.Equal(t, Bounds{Lower: 0.4, Upper: 1}, m.Reaction("communityBiomass").Bounds())

	// diet exchange and plain internal reactions are left alone
	assert.Equal(t, Bounds{}, m.Reaction("EX_ac[d]").Bounds())
	assert.Equal(t, Bounds{}, m.Reaction("sp_PGI").Bounds())

	// applying the same conventions again is a no-op
	assert.Empty(t, SetDefaultBounds(m, DefaultConventions()))
}

func TestMergeConventions(t *testing.T) {
	merged := MergeConventions(DefaultConventions(), BoundConventions{
		CommunityBiomass: Bounds{Lower: 0.1, Upper: 2},
	})
	assert.Equal(t, Bounds{Lower: 0.1, Upper: 2}, merged.CommunityBiomass)
	assert.Equal(t, DefaultConventions().FecalExchange, merged.FecalExchange,
		"untouched classes keep the base values")
}

func TestApplyBileAcidDiet(t *testing.T) {
	m := New("diet")
	for _, id := range []string{"gchola[d]", "tchola[d]", "glc_D[d]"} {
		require.NoError(t, m.AddMetabolite(&Metabolite{ID: id}))
	}
	add := func(id string, lower float64) {
		base := id[len("Diet_EX_"):]
		require.NoError(t, m.AddReaction(&Reaction{
			ID:          id,
			Metabolites: map[string]float64{base: -1},
			LowerBound:  lower,
			UpperBound:  0,
		}))
	}
	add("Diet_EX_gchola[d]", -10)
	add("Diet_EX_tchola[d]", 0) // closed: must stay closed
	add("Diet_EX_glc_D[d]", -5) // not a bile acid

	adjusted := ApplyBileAcidDiet(m)
	assert.Equal(t, []string{"Diet_EX_gchola[d]"}, adjusted)
	assert.Equal(t, Bounds{Lower: -1000, Upper: 0}, m.Reaction("Diet_EX_gchola[d]").Bounds())
	assert.Equal(t, Bounds{Lower: 0, Upper: 0}, m.Reaction("Diet_EX_tchola[d]").Bounds())
	assert.Equal(t, Bounds{Lower: -5, Upper: 0}, m.Reaction("Diet_EX_glc_D[d]").Bounds())
}
