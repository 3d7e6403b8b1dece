package solver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const optimalSolution = `Problem:    problem
Rows:       2
Columns:    2
Non-zeros:  3
Status:     OPTIMAL
Objective:  obj = 12.5 (MAXimum)

   No.   Row name   St   Activity     Lower bound   Upper bound    Marginal
------ ------------ -- ------------- ------------- ------------- -------------
     1 m1           NS             0             0             =         < eps

   No. Column name  St   Activity     Lower bound   Upper bound    Marginal
------ ------------ -- ------------- ------------- ------------- -------------
     1 x1           B           12.5             0          1000
     2 x2           NL             0         -1000          1000       < eps

Karush-Kuhn-Tucker optimality conditions:
`

func TestParseSolution(t *testing.T) {
	sol, err := parseSolution(strings.NewReader(optimalSolution), map[string]string{
		"x1": "UFEt_ac",
		"x2": "sp_IEX_ac[u]tr",
	})
	require.NoError(t, err)

	assert.Equal(t, 12.5, sol.Objective)
	assert.Equal(t, map[string]float64{
		"UFEt_ac":        12.5,
		"sp_IEX_ac[u]tr": 0,
	}, sol.Fluxes)
}

func TestParseSolutionInfeasible(t *testing.T) {
	text := "Status:     PRIMAL INFEASIBLE (cannot be solved)\n"
	_, err := parseSolution(strings.NewReader(text), nil)
	assert.ErrorIs(t, err, ErrNoSolution)
}

func TestParseSolutionNoStatus(t *testing.T) {
	_, err := parseSolution(strings.NewReader("Problem: p\n"), nil)
	assert.ErrorIs(t, err, ErrNoSolution)
}

func TestParseObjectiveLine(t *testing.T) {
	v, err := parseObjectiveLine("Objective:  obj = 42.5 (MAXimum)")
	require.NoError(t, err)
	assert.Equal(t, 42.5, v)

	v, err = parseObjectiveLine("Objective:  obj = -3.25e-02 (MINimum)")
	require.NoError(t, err)
	assert.Equal(t, -0.0325, v)

	_, err = parseObjectiveLine("Objective: junk")
	assert.Error(t, err)
}

func TestFirstLines(t *testing.T) {
	out := firstLines("a\nb\nc\nd", 2)
	assert.Equal(t, "a | b", out)
}
