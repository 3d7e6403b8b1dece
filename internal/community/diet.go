package community

import (
	"github.com/zomorrodilab/ZLab-tools/internal/model"
)

// ApplyDiet constrains the diet exchange reactions: metabolites present in
// the diet table can be taken up at the listed flux (negated into a lower
// bound); every other diet exchange is closed. Returns how many exchanges
// were opened.
func ApplyDiet(m *model.Model, diet map[string]float64) int {
	opened := 0
	for _, rxn := range m.Reactions {
		if model.Classify(rxn.ID) != model.RoleDietExchange {
			continue
		}
		if flux, ok := diet[rxn.ID]; ok {
			rxn.LowerBound = -flux
			opened++
		} else {
			rxn.LowerBound = 0
		}
	}
	return opened
}
