package model

import "strings"

// ReactionRole classifies a reaction by the mgPipe naming conventions used in
// multi-species community models (Heinken et al., 2022).
type ReactionRole int

const (
	RoleOther ReactionRole = iota
	// RoleFecalExchange: EX_<met>[fe], metabolite exchange out of the fecal
	// compartment (excluding the community biomass product).
	RoleFecalExchange
	// RoleBiomassFecalExchange: EX_microbeBiomass[fe].
	RoleBiomassFecalExchange
	// RoleDietExchange: EX_<met>[d], metabolite exchange into the diet
	// compartment.
	RoleDietExchange
	// RoleFecalTransport: UFEt_<met>, lumen -> fecal transport.
	RoleFecalTransport
	// RoleDietTransport: DUt_<met>, diet -> lumen transport.
	RoleDietTransport
	// RoleSpeciesExchange: <species>_IEX_<met>[u]tr, species secretion/uptake
	// against the shared lumen.
	RoleSpeciesExchange
	// RoleCommunityBiomass: the communityBiomass reaction.
	RoleCommunityBiomass
)

func (r ReactionRole) String() string {
	switch r {
	case RoleFecalExchange:
		return "fecal-exchange"
	case RoleBiomassFecalExchange:
		return "biomass-fecal-exchange"
	case RoleDietExchange:
		return "diet-exchange"
	case RoleFecalTransport:
		return "fecal-transport"
	case RoleDietTransport:
		return "diet-transport"
	case RoleSpeciesExchange:
		return "species-exchange"
	case RoleCommunityBiomass:
		return "community-biomass"
	default:
		return "other"
	}
}

// Classify maps a reaction ID to its conventional role.
func Classify(rxnID string) ReactionRole {
	switch {
	case rxnID == "communityBiomass":
		return RoleCommunityBiomass
	case strings.HasPrefix(rxnID, "EX_") && strings.HasSuffix(rxnID, "[fe]"):
		if strings.Contains(rxnID, "microbeBiomass") {
			return RoleBiomassFecalExchange
		}
		return RoleFecalExchange
	case strings.HasPrefix(rxnID, "EX_") && strings.HasSuffix(rxnID, "[d]"):
		return RoleDietExchange
	case strings.HasPrefix(rxnID, "UFEt_"):
		return RoleFecalTransport
	case strings.HasPrefix(rxnID, "DUt_"):
		return RoleDietTransport
	case strings.Contains(rxnID, "IEX") && strings.HasSuffix(rxnID, "[u]tr"):
		return RoleSpeciesExchange
	default:
		return RoleOther
	}
}

// FecalTransportMetabolite returns the lumen metabolite ID carried by a
// UFEt reaction, e.g. "UFEt_ac" -> "ac[u]". The second return is false when
// the reaction is not a fecal transport.
func FecalTransportMetabolite(rxnID string) (string, bool) {
	if !strings.HasPrefix(rxnID, "UFEt_") {
		return "", false
	}
	return strings.TrimPrefix(rxnID, "UFEt_") + "[u]", true
}

// SpeciesExchangeMetabolite returns the general lumen metabolite ID shuttled
// by an IEX reaction, e.g. "Bf_IEX_ac[u]tr" -> "ac[u]".
func SpeciesExchangeMetabolite(rxnID string) (string, bool) {
	idx := strings.Index(rxnID, "_IEX_")
	if idx < 0 || !strings.HasSuffix(rxnID, "[u]tr") {
		return "", false
	}
	return strings.TrimSuffix(rxnID[idx+len("_IEX_"):], "tr"), true
}
