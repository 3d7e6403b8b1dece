package model

import (
	"fmt"
	"sort"
)

// Metabolite is a single species-compartment entity, e.g. "ac[u]" or
// "Bacteroides_fragilis_ac[c]". The compartment is carried inside the ID
// (mgPipe convention) and mirrored in Compartment.
type Metabolite struct {
	ID          string
	Name        string
	Compartment string
	Formula     string
	Charge      float64
}

// Reaction holds stoichiometry as metabolite ID -> coefficient
// (negative = consumed, positive = produced).
type Reaction struct {
	ID                   string
	Name                 string
	Subsystem            string
	Metabolites          map[string]float64
	LowerBound           float64
	UpperBound           float64
	ObjectiveCoefficient float64
}

// Bounds returns the reaction bounds as a pair.
func (r *Reaction) Bounds() Bounds {
	return Bounds{Lower: r.LowerBound, Upper: r.UpperBound}
}

// SetBounds sets both bounds at once.
func (r *Reaction) SetBounds(b Bounds) {
	r.LowerBound = b.Lower
	r.UpperBound = b.Upper
}

// Bounds is a (lower, upper) flux bound pair in mmol/gDW/h.
type Bounds struct {
	Lower float64 `yaml:"lower" json:"lower"`
	Upper float64 `yaml:"upper" json:"upper"`
}

// Model is an in-memory genome-scale metabolic model. Reactions and
// metabolites preserve insertion order; lookups go through indexes that are
// kept current by the mutating methods. Code that edits IDs directly must
// call Reindex afterwards.
type Model struct {
	ID   string
	Name string

	Metabolites []*Metabolite
	Reactions   []*Reaction

	metIndex map[string]*Metabolite
	rxnIndex map[string]*Reaction
	metRxns  map[string][]*Reaction
}

func New(id string) *Model {
	m := &Model{ID: id, Name: id}
	m.Reindex()
	return m
}

// Reindex rebuilds all lookup tables from the Metabolites/Reactions slices.
func (m *Model) Reindex() {
	m.metIndex = make(map[string]*Metabolite, len(m.Metabolites))
	m.rxnIndex = make(map[string]*Reaction, len(m.Reactions))
	m.metRxns = make(map[string][]*Reaction, len(m.Metabolites))
	for _, met := range m.Metabolites {
		m.metIndex[met.ID] = met
	}
	for _, rxn := range m.Reactions {
		m.rxnIndex[rxn.ID] = rxn
		for metID := range rxn.Metabolites {
			m.metRxns[metID] = append(m.metRxns[metID], rxn)
		}
	}
}

// Metabolite returns the metabolite with the given ID, or nil.
func (m *Model) Metabolite(id string) *Metabolite {
	return m.metIndex[id]
}

// Reaction returns the reaction with the given ID, or nil.
func (m *Model) Reaction(id string) *Reaction {
	return m.rxnIndex[id]
}

// HasMetabolite reports whether a metabolite ID exists in the model.
func (m *Model) HasMetabolite(id string) bool {
	_, ok := m.metIndex[id]
	return ok
}

// HasReaction reports whether a reaction ID exists in the model.
func (m *Model) HasReaction(id string) bool {
	_, ok := m.rxnIndex[id]
	return ok
}

// ReactionsFor returns all reactions whose stoichiometry touches the given
// metabolite ID.
func (m *Model) ReactionsFor(metID string) []*Reaction {
	return m.metRxns[metID]
}

// AddMetabolite appends a metabolite. Adding a duplicate ID is an error.
func (m *Model) AddMetabolite(met *Metabolite) error {
	if _, ok := m.metIndex[met.ID]; ok {
		return fmt.Errorf("metabolite %q already in model %s", met.ID, m.ID)
	}
	m.Metabolites = append(m.Metabolites, met)
	m.metIndex[met.ID] = met
	return nil
}

// AddReaction appends a reaction and indexes its stoichiometry. Metabolites
// referenced by the reaction must already exist in the model.
func (m *Model) AddReaction(rxn *Reaction) error {
	if _, ok := m.rxnIndex[rxn.ID]; ok {
		return fmt.Errorf("reaction %q already in model %s", rxn.ID, m.ID)
	}
	for metID := range rxn.Metabolites {
		if _, ok := m.metIndex[metID]; !ok {
			return fmt.Errorf("reaction %q references unknown metabolite %q", rxn.ID, metID)
		}
	}
	m.Reactions = append(m.Reactions, rxn)
	m.rxnIndex[rxn.ID] = rxn
	for metID := range rxn.Metabolites {
		m.metRxns[metID] = append(m.metRxns[metID], rxn)
	}
	return nil
}

// RemoveReactions drops every reaction for which keep returns false.
// Metabolites are left in place even if orphaned.
func (m *Model) RemoveReactions(keep func(*Reaction) bool) int {
	kept := m.Reactions[:0]
	removed := 0
	for _, rxn := range m.Reactions {
		if keep(rxn) {
			kept = append(kept, rxn)
		} else {
			removed++
		}
	}
	m.Reactions = kept
	if removed > 0 {
		m.Reindex()
	}
	return removed
}

// SetObjective makes the named reaction the sole objective with coefficient 1.
func (m *Model) SetObjective(rxnID string) error {
	target := m.Reaction(rxnID)
	if target == nil {
		return fmt.Errorf("objective reaction %q not in model %s", rxnID, m.ID)
	}
	for _, rxn := range m.Reactions {
		rxn.ObjectiveCoefficient = 0
	}
	target.ObjectiveCoefficient = 1
	return nil
}

// ReactionIDs returns all reaction IDs in insertion order.
func (m *Model) ReactionIDs() []string {
	ids := make([]string, len(m.Reactions))
	for i, rxn := range m.Reactions {
		ids[i] = rxn.ID
	}
	return ids
}

// BoundsSnapshot captures every reaction's bounds, keyed by reaction ID.
func (m *Model) BoundsSnapshot() map[string]Bounds {
	out := make(map[string]Bounds, len(m.Reactions))
	for _, rxn := range m.Reactions {
		out[rxn.ID] = rxn.Bounds()
	}
	return out
}

// SortedMetaboliteIDs returns metabolite IDs in lexical order. Used where a
// deterministic iteration order matters (LP emission, biomass assembly).
func (m *Model) SortedMetaboliteIDs() []string {
	ids := make([]string, len(m.Metabolites))
	for i, met := range m.Metabolites {
		ids[i] = met.ID
	}
	sort.Strings(ids)
	return ids
}
