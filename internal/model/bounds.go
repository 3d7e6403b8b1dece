package model

import "strings"

// BoundConventions are the default flux bounds applied to each conventional
// reaction class before optimization. Zero-valued entries in an override are
// ignored by Merge, so a conventions file only needs to name what it changes.
type BoundConventions struct {
	FecalExchange        Bounds `yaml:"fecal_exchange"`
	BiomassFecalExchange Bounds `yaml:"biomass_fecal_exchange"`
	FecalTransport       Bounds `yaml:"fecal_transport"`
	SpeciesExchange      Bounds `yaml:"species_exchange"`
	DietTransport        Bounds `yaml:"diet_transport"`
	CommunityBiomass     Bounds `yaml:"community_biomass"`
}

// DefaultConventions returns the mgPipe bound conventions
// (Heinken et al., 2022).
func DefaultConventions() BoundConventions {
	return BoundConventions{
		FecalExchange:        Bounds{Lower: -1000, Upper: 1000000},
		BiomassFecalExchange: Bounds{Lower: -10000, Upper: 1000000},
		FecalTransport:       Bounds{Lower: 0, Upper: 1000000},
		SpeciesExchange:      Bounds{Lower: -1000, Upper: 1000},
		DietTransport:        Bounds{Lower: 0, Upper: 1000000},
		CommunityBiomass:     Bounds{Lower: 0.4, Upper: 1},
	}
}

// MergeConventions overlays non-zero bound pairs from override onto base.
func MergeConventions(base, override BoundConventions) BoundConventions {
	out := base
	if override.FecalExchange != (Bounds{}) {
		out.FecalExchange = override.FecalExchange
	}
	if override.BiomassFecalExchange != (Bounds{}) {
		out.BiomassFecalExchange = override.BiomassFecalExchange
	}
	if override.FecalTransport != (Bounds{}) {
		out.FecalTransport = override.FecalTransport
	}
	if override.SpeciesExchange != (Bounds{}) {
		out.SpeciesExchange = override.SpeciesExchange
	}
	if override.DietTransport != (Bounds{}) {
		out.DietTransport = override.DietTransport
	}
	if override.CommunityBiomass != (Bounds{}) {
		out.CommunityBiomass = override.CommunityBiomass
	}
	return out
}

// BoundChange records one reaction whose bounds moved away from their prior
// state when conventions were applied.
type BoundChange struct {
	ReactionID string
	Role       ReactionRole
	Old        Bounds
	New        Bounds
}

// SetDefaultBounds applies the bound conventions to every conventional
// reaction in the model and returns the list of reactions whose bounds
// actually changed. Reactions outside the conventions are untouched.
func SetDefaultBounds(m *Model, conv BoundConventions) []BoundChange {
	var changes []BoundChange
	for _, rxn := range m.Reactions {
		var want Bounds
		role := Classify(rxn.ID)
		switch role {
		case RoleFecalExchange:
			want = conv.FecalExchange
		case RoleBiomassFecalExchange:
			want = conv.BiomassFecalExchange
		case RoleFecalTransport:
			want = conv.FecalTransport
		case RoleSpeciesExchange:
			want = conv.SpeciesExchange
		case RoleDietTransport:
			want = conv.DietTransport
		case RoleCommunityBiomass:
			want = conv.CommunityBiomass
		default:
			continue
		}
		if old := rxn.Bounds(); old != want {
			rxn.SetBounds(want)
			changes = append(changes, BoundChange{
				ReactionID: rxn.ID,
				Role:       role,
				Old:        old,
				New:        want,
			})
		}
	}
	return changes
}

// bileAcidMetabolites are the conjugated bile acids whose dietary uptake is
// opened by ApplyBileAcidDiet.
var bileAcidMetabolites = []string{"dgchol", "gchola", "tchola", "tdchola"}

// ApplyBileAcidDiet opens dietary uptake of the primary conjugated bile acids
// on models that carry a Diet_ prefixed exchange for them. Only reactions
// that already allow uptake (nonzero lower bound) are adjusted. Returns the
// IDs of the adjusted reactions.
func ApplyBileAcidDiet(m *Model) []string {
	var adjusted []string
	for _, rxn := range m.Reactions {
		if !strings.Contains(rxn.ID, "Diet_") || rxn.LowerBound == 0 {
			continue
		}
		for _, met := range bileAcidMetabolites {
			if strings.Contains(rxn.ID, met) {
				rxn.SetBounds(Bounds{Lower: -1000, Upper: 0})
				adjusted = append(adjusted, rxn.ID)
				break
			}
		}
	}
	return adjusted
}
