package solver

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zomorrodilab/ZLab-tools/internal/model"
)

// termsPerLine caps constraint row width; CPLEX LP readers limit line length.
const termsPerLine = 8

// WriteLP emits the FBA problem in CPLEX LP format. Reaction IDs contain
// characters that are illegal in LP names ('[', ']'), so variables are
// emitted as x1..xN; the returned map translates variable names back to
// reaction IDs for solution parsing.
func WriteLP(w io.Writer, m *model.Model, objective string, sense Sense) (map[string]string, error) {
	obj := m.Reaction(objective)
	if obj == nil {
		return nil, fmt.Errorf("%w: %q", ErrObjectiveNotFound, objective)
	}

	varOf := make(map[string]string, len(m.Reactions))
	varToRxn := make(map[string]string, len(m.Reactions))
	for i, rxn := range m.Reactions {
		name := "x" + strconv.Itoa(i+1)
		varOf[rxn.ID] = name
		varToRxn[name] = rxn.ID
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\\ FBA problem for model %s, objective %s (%s)\n", m.ID, objective, sense)
	if sense == Minimize {
		b.WriteString("Minimize\n")
	} else {
		b.WriteString("Maximize\n")
	}
	fmt.Fprintf(&b, " obj: %s\n", varOf[objective])

	b.WriteString("Subject To\n")
	row := 0
	for _, metID := range m.SortedMetaboliteIDs() {
		type term struct {
			coeff float64
			name  string
		}
		var terms []term
		for _, rxn := range m.ReactionsFor(metID) {
			if coeff := rxn.Metabolites[metID]; coeff != 0 {
				terms = append(terms, term{coeff: coeff, name: varOf[rxn.ID]})
			}
		}
		// An LP row with no terms is invalid; orphan metabolites are skipped.
		if len(terms) == 0 {
			continue
		}
		row++
		fmt.Fprintf(&b, " m%d:", row)
		for i, t := range terms {
			if i > 0 && i%termsPerLine == 0 {
				b.WriteString("\n   ")
			}
			sign := "+"
			coeff := t.coeff
			if coeff < 0 {
				sign = "-"
				coeff = -coeff
			}
			fmt.Fprintf(&b, " %s %s %s", sign, formatCoeff(coeff), t.name)
		}
		b.WriteString(" = 0\n")
	}

	b.WriteString("Bounds\n")
	for _, rxn := range m.Reactions {
		name := varOf[rxn.ID]
		switch {
		case rxn.LowerBound == rxn.UpperBound:
			fmt.Fprintf(&b, " %s = %s\n", name, formatCoeff(rxn.LowerBound))
		default:
			fmt.Fprintf(&b, " %s <= %s <= %s\n",
				formatCoeff(rxn.LowerBound), name, formatCoeff(rxn.UpperBound))
		}
	}
	b.WriteString("End\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return nil, fmt.Errorf("write lp: %w", err)
	}
	return varToRxn, nil
}

func formatCoeff(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
