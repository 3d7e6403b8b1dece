package community

import (
	"sort"
	"strings"

	"github.com/zomorrodilab/ZLab-tools/internal/model"
)

// AddLumenCompartments creates the diet and fecal plumbing for every general
// lumen metabolite, four reactions per metabolite:
//
//	EX_met[d]:  met[d] <=>            (diet exchange)
//	DUt_met:    met[d] --> met[u]     (diet to lumen transport)
//	UFEt_met:   met[u] --> met[fe]    (lumen to fecal transport)
//	EX_met[fe]: met[fe] <=>           (fecal exchange)
//
// The operation is idempotent: existing metabolites and reactions are left
// alone, so the builder can be re-run over a partially plumbed model.
func AddLumenCompartments(m *model.Model) error {
	for _, metID := range generalLumenMetabolites(m) {
		base := strings.TrimSuffix(metID, "[u]")

		dMet := base + "[d]"
		feMet := base + "[fe]"
		if err := ensureMetabolite(m, dMet, base, "d"); err != nil {
			return err
		}
		if err := ensureMetabolite(m, feMet, base, "fe"); err != nil {
			return err
		}

		if err := ensureReaction(m, &model.Reaction{
			ID:          "EX_" + dMet,
			Name:        dMet + " diet exchange",
			Metabolites: map[string]float64{dMet: -1},
			LowerBound:  -1000,
			UpperBound:  1000,
		}); err != nil {
			return err
		}
		if err := ensureReaction(m, &model.Reaction{
			ID:          "DUt_" + base,
			Name:        "DUt_" + base + " diet to lumen",
			Metabolites: map[string]float64{dMet: -1, metID: 1},
			LowerBound:  0,
			UpperBound:  1000,
		}); err != nil {
			return err
		}
		if err := ensureReaction(m, &model.Reaction{
			ID:          "UFEt_" + base,
			Name:        "UFEt_" + base + " lumen to fecal",
			Metabolites: map[string]float64{metID: -1, feMet: 1},
			LowerBound:  0,
			UpperBound:  1000,
		}); err != nil {
			return err
		}
		if err := ensureReaction(m, &model.Reaction{
			ID:          "EX_" + feMet,
			Name:        feMet + " fecal exchange",
			Metabolites: map[string]float64{feMet: -1},
			LowerBound:  -1000,
			UpperBound:  1000,
		}); err != nil {
			return err
		}
	}
	return nil
}

// generalLumenMetabolites collects the shared lumen metabolite IDs, derived
// from the IEX shuttle reactions, sorted for deterministic construction.
func generalLumenMetabolites(m *model.Model) []string {
	seen := map[string]bool{}
	for _, rxn := range m.Reactions {
		if metID, ok := model.SpeciesExchangeMetabolite(rxn.ID); ok {
			seen[metID] = true
		}
	}
	out := make([]string, 0, len(seen))
	for metID := range seen {
		out = append(out, metID)
	}
	sort.Strings(out)
	return out
}

func ensureMetabolite(m *model.Model, id, name, compartment string) error {
	if m.HasMetabolite(id) {
		return nil
	}
	return m.AddMetabolite(&model.Metabolite{ID: id, Name: name, Compartment: compartment})
}

func ensureReaction(m *model.Model, rxn *model.Reaction) error {
	if m.HasReaction(rxn.ID) {
		return nil
	}
	return m.AddReaction(rxn)
}
