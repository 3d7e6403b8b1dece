package analysis

import (
	"sort"
	"strings"
)

// RankedModel pairs a model's secretion potential with its rank order.
type RankedModel struct {
	SecretionPotential
}

// RankByTotalFlux computes potentials per model and sorts descending by
// total maximized fecal transport flux.
func RankByTotalFlux(byModel map[string]map[string]float64) []RankedModel {
	out := make([]RankedModel, 0, len(byModel))
	for name, fluxes := range byModel {
		out = append(out, RankedModel{SecretionPotential: ComputePotential(name, fluxes)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalFlux != out[j].TotalFlux {
			return out[i].TotalFlux > out[j].TotalFlux
		}
		return out[i].Model < out[j].Model
	})
	return out
}

// MetaboliteRank aggregates one metabolite's maximized fecal transport flux
// across models.
type MetaboliteRank struct {
	Metabolite string
	Models     int
	TotalFlux  float64
	MaxFlux    float64
}

// RankMetabolites aggregates maximized UFEt fluxes across models and sorts
// descending by total flux. Reaction IDs are reduced to their metabolite
// (UFEt_ac -> ac).
func RankMetabolites(byModel map[string]map[string]float64) []MetaboliteRank {
	agg := map[string]*MetaboliteRank{}
	for _, fluxes := range byModel {
		for rxnID, flux := range fluxes {
			met := strings.TrimPrefix(rxnID, "UFEt_")
			r, ok := agg[met]
			if !ok {
				r = &MetaboliteRank{Metabolite: met}
				agg[met] = r
			}
			r.Models++
			r.TotalFlux += flux
			if flux > r.MaxFlux {
				r.MaxFlux = flux
			}
		}
	}
	out := make([]MetaboliteRank, 0, len(agg))
	for _, r := range agg {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalFlux != out[j].TotalFlux {
			return out[i].TotalFlux > out[j].TotalFlux
		}
		return out[i].Metabolite < out[j].Metabolite
	})
	return out
}
