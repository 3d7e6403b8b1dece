// Package community assembles multi-species gut microbiome models from
// single-species reconstructions: species tagging into a shared lumen, diet
// and fecal compartment plumbing, and an abundance-weighted community
// biomass. The construction follows mgPipe (Heinken et al., 2022).
package community

import (
	"fmt"
	"strings"

	"github.com/zomorrodilab/ZLab-tools/internal/model"
)

// TagSpecies rewrites a single-species reconstruction so it can be merged
// into a community model:
//   - single-species exchange (EX_) artifacts are dropped, biomass kept,
//   - every reaction and intracellular/periplasmic metabolite is prefixed
//     with the species name,
//   - extracellular [e] metabolites become species-tagged lumen [u]
//     metabolites, joined to a shared general lumen metabolite through a
//     reversible <species>_IEX_<met>[u]tr shuttle reaction.
//
// The input model is not modified; a freshly indexed model is returned.
func TagSpecies(src *model.Model, species string) (*model.Model, error) {
	if species == "" {
		return nil, fmt.Errorf("community: species name is empty")
	}

	out := model.New(src.ID)
	out.Name = species

	// Metabolite ID rewrite map.
	rename := make(map[string]string, len(src.Metabolites))
	for _, met := range src.Metabolites {
		tagged := *met
		switch {
		case strings.HasSuffix(met.ID, "[e]"):
			tagged.ID = species + "_" + strings.TrimSuffix(met.ID, "[e]") + "[u]"
			tagged.Compartment = "u"
		case strings.HasPrefix(met.ID, species+"_"):
			// Already tagged (repeat runs).
		default:
			tagged.ID = species + "_" + met.ID
		}
		rename[met.ID] = tagged.ID
		if err := out.AddMetabolite(&tagged); err != nil {
			return nil, err
		}
	}

	for _, rxn := range src.Reactions {
		// Single-species exchange artifacts, e.g. EX_dad_2(e), do not belong
		// in a community; the lumen plumbing replaces them.
		if isExchangeArtifact(rxn.ID) {
			continue
		}
		tagged := &model.Reaction{
			ID:                   rxn.ID,
			Name:                 rxn.Name,
			Subsystem:            rxn.Subsystem,
			LowerBound:           rxn.LowerBound,
			UpperBound:           rxn.UpperBound,
			Metabolites:          make(map[string]float64, len(rxn.Metabolites)),
			ObjectiveCoefficient: rxn.ObjectiveCoefficient,
		}
		if !strings.HasPrefix(tagged.ID, species+"_") {
			tagged.ID = species + "_" + tagged.ID
		}
		for metID, coeff := range rxn.Metabolites {
			tagged.Metabolites[rename[metID]] = coeff
		}
		if err := out.AddReaction(tagged); err != nil {
			return nil, err
		}
	}

	// Shuttle every species lumen metabolite against its shared general
	// counterpart: <general>[u] <=> <species>_<general>[u].
	prefix := species + "_"
	for _, met := range out.Metabolites {
		if !strings.HasSuffix(met.ID, "[u]") || !strings.HasPrefix(met.ID, prefix) {
			continue
		}
		general := strings.TrimPrefix(met.ID, prefix)
		if !out.HasMetabolite(general) {
			if err := out.AddMetabolite(&model.Metabolite{
				ID:          general,
				Name:        strings.TrimSuffix(general, "[u]"),
				Compartment: "u",
			}); err != nil {
				return nil, err
			}
		}
		iexID := species + "_IEX_" + general + "tr"
		if out.HasReaction(iexID) {
			continue
		}
		if err := out.AddReaction(&model.Reaction{
			ID:          iexID,
			Name:        species + "_IEX",
			Metabolites: map[string]float64{general: -1, met.ID: 1},
			LowerBound:  -1000,
			UpperBound:  1000,
		}); err != nil {
			return nil, err
		}
	}

	out.Reindex()
	return out, nil
}

// isExchangeArtifact recognizes the single-species exchange reactions that
// combined models must not carry, e.g. "EX_thymd(e)". Biomass reactions are
// never artifacts.
func isExchangeArtifact(rxnID string) bool {
	if strings.Contains(rxnID, "biomass") {
		return false
	}
	return strings.HasPrefix(rxnID, "EX_") || strings.Contains(rxnID, "_EX_") || strings.Contains(rxnID, "(e)")
}

// Merge adds every reaction of src that dst does not already have, pulling
// in the metabolites those reactions reference. Duplicate reaction IDs are
// skipped, matching the merge step of the community build loop.
func Merge(dst, src *model.Model) error {
	for _, met := range src.Metabolites {
		if !dst.HasMetabolite(met.ID) {
			copied := *met
			if err := dst.AddMetabolite(&copied); err != nil {
				return err
			}
		}
	}
	for _, rxn := range src.Reactions {
		if dst.HasReaction(rxn.ID) {
			continue
		}
		copied := *rxn
		copied.Metabolites = make(map[string]float64, len(rxn.Metabolites))
		for metID, coeff := range rxn.Metabolites {
			copied.Metabolites[metID] = coeff
		}
		if err := dst.AddReaction(&copied); err != nil {
			return err
		}
	}
	return nil
}
