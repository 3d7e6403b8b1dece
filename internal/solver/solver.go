// Package solver formulates flux-balance LPs and delegates the solve to an
// external linear-programming solver.
package solver

import (
	"context"
	"errors"

	"github.com/zomorrodilab/ZLab-tools/internal/model"
)

// Sense is the optimization direction.
type Sense int

const (
	Maximize Sense = iota
	Minimize
)

func (s Sense) String() string {
	if s == Minimize {
		return "minimize"
	}
	return "maximize"
}

// ErrNoSolution is returned when the solver reports anything other than an
// optimal solution (infeasible or unbounded problems included).
var ErrNoSolution = errors.New("solver: no optimal solution")

// ErrObjectiveNotFound is returned when the requested objective reaction is
// not part of the model.
var ErrObjectiveNotFound = errors.New("solver: objective reaction not in model")

// Solution is the result of one LP solve.
type Solution struct {
	// Objective is the optimal flux through the objective reaction.
	Objective float64
	// Fluxes holds the flux of every reaction at the optimum, keyed by
	// reaction ID.
	Fluxes map[string]float64
}

// Solver optimizes the flux through a single reaction subject to the
// steady-state constraint S·v = 0 and the model's reaction bounds.
type Solver interface {
	Optimize(ctx context.Context, m *model.Model, objective string, sense Sense) (*Solution, error)
}
