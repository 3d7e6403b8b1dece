package community

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zomorrodilab/ZLab-tools/internal/model"
)

// abundanceFloor drops species whose relative abundance is too small to
// contribute meaningfully to the community biomass.
const abundanceFloor = 0.0009

// AddCommunityBiomass replaces any existing biomass reactions with a single
// communityBiomass reaction that consumes each species biomass metabolite
// weighted by that species' relative abundance, produces the
// microbeBiomass[u] product, and plumbs it to a fecal exchange.
func AddCommunityBiomass(m *model.Model, abundances map[string]float64) error {
	m.RemoveReactions(func(rxn *model.Reaction) bool {
		return !strings.Contains(rxn.ID, "Biomass")
	})

	var biomassMets []string
	for _, met := range m.Metabolites {
		if strings.Contains(met.ID, "biomass") {
			biomassMets = append(biomassMets, met.ID)
		}
	}
	if len(biomassMets) == 0 {
		return fmt.Errorf("community: model %s has no species biomass metabolites", m.ID)
	}
	sort.Strings(biomassMets)

	stoich := map[string]float64{}
	for _, metID := range biomassMets {
		abundance, err := abundanceFor(metID, abundances)
		if err != nil {
			return err
		}
		if abundance < abundanceFloor {
			continue
		}
		stoich[metID] = -abundance
	}
	if len(stoich) == 0 {
		return fmt.Errorf("community: every species in model %s is below the abundance floor", m.ID)
	}

	if err := ensureMetabolite(m, "microbeBiomass[u]", "product of community biomass", "u"); err != nil {
		return err
	}
	if err := ensureMetabolite(m, "microbeBiomass[fe]", "product of community biomass", "fe"); err != nil {
		return err
	}
	stoich["microbeBiomass[u]"] = 1

	if err := m.AddReaction(&model.Reaction{
		ID:          "communityBiomass",
		Name:        "community biomass",
		Metabolites: stoich,
		LowerBound:  0,
		UpperBound:  1000,
	}); err != nil {
		return err
	}
	if err := ensureReaction(m, &model.Reaction{
		ID:          "UFEt_microbeBiomass",
		Name:        "UFEt_microbeBiomass lumen to fecal",
		Metabolites: map[string]float64{"microbeBiomass[u]": -1, "microbeBiomass[fe]": 1},
		LowerBound:  0,
		UpperBound:  1000,
	}); err != nil {
		return err
	}
	return ensureReaction(m, &model.Reaction{
		ID:          "EX_microbeBiomass[fe]",
		Name:        "EX_microbeBiomass[fe] fecal exchange",
		Metabolites: map[string]float64{"microbeBiomass[fe]": -1},
		LowerBound:  0,
		UpperBound:  1000,
	})
}

// abundanceFor resolves a species biomass metabolite (e.g.
// "Bacteroides_fragilis_biomass[c]") to the species' abundance by prefix.
func abundanceFor(metID string, abundances map[string]float64) (float64, error) {
	for species, abundance := range abundances {
		if strings.HasPrefix(metID, species+"_") {
			return abundance, nil
		}
	}
	return 0, fmt.Errorf("community: no abundance for biomass metabolite %q", metID)
}
