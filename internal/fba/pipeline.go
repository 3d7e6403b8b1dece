// Package fba runs the two-phase flux-balance optimization of multi-species
// community models: maximize every fecal transport flux, then pin each
// nonzero transport at its maximum and minimize the species exchange fluxes
// feeding it. Works with models produced by mgPipe (Heinken et al., 2022)
// and by this repository's community builder.
package fba

import (
	"context"
	"fmt"
	"log"

	"github.com/zomorrodilab/ZLab-tools/internal/model"
	"github.com/zomorrodilab/ZLab-tools/internal/solver"
)

// Pipeline optimizes community models.
type Pipeline struct {
	Solver solver.Solver
	// AddBileAcid opens dietary uptake of conjugated bile acids before
	// optimizing.
	AddBileAcid bool
	Log         *log.Logger
}

// OptimizeModel runs both phases over one model. The model's bounds are
// mutated during the run; the returned FinalBounds snapshot reflects the
// state after all pins were restored.
func (p *Pipeline) OptimizeModel(ctx context.Context, m *model.Model) (*Result, error) {
	if p.Solver == nil {
		return nil, fmt.Errorf("fba: solver is required")
	}

	if p.AddBileAcid {
		adjusted := model.ApplyBileAcidDiet(m)
		p.logf("opened bile acid diet uptake for %d reactions in %s", len(adjusted), m.Name)
	}

	res := &Result{
		Model:              m.Name,
		MaxFecalTransport:  map[string]float64{},
		MinSpeciesExchange: map[string]float64{},
	}

	var transports []string
	for _, rxn := range m.Reactions {
		if model.Classify(rxn.ID) == model.RoleFecalTransport {
			transports = append(transports, rxn.ID)
		}
	}
	if len(transports) == 0 {
		return nil, fmt.Errorf("fba: model %s has no fecal transport (UFEt) reactions", m.Name)
	}

	// Phase 1: maximize each fecal transport flux.
	p.logf("[started] maximizing %d fecal transport fluxes for %s", len(transports), m.Name)
	for i, rxnID := range transports {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.logf("maximizing fecal transport %d of %d for %s", i+1, len(transports), m.Name)
		if err := m.SetObjective(rxnID); err != nil {
			return nil, err
		}
		sol, err := p.Solver.Optimize(ctx, m, rxnID, solver.Maximize)
		if err != nil {
			return nil, fmt.Errorf("maximize %s: %w", rxnID, err)
		}
		res.MaxFecalTransport[rxnID] = sol.Objective
		res.Ledger = append(res.Ledger, FluxRow{
			Index:      len(res.Ledger),
			Phase:      PhaseMaxFecalTransport,
			ReactionID: rxnID,
			Role:       model.RoleFecalTransport,
			Sense:      solver.Maximize,
			Flux:       sol.Objective,
		})
	}
	p.logf("[completed] maximization complete for %s", m.Name)

	// Phase 2: pin each nonzero transport at its maximum and minimize the
	// species exchange reactions of its lumen metabolite.
	p.logf("[started] minimizing species exchange fluxes for %s", m.Name)
	for i, rxnID := range transports {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		maxFlux := res.MaxFecalTransport[rxnID]
		if maxFlux == 0 {
			continue
		}
		p.logf("minimizing exchanges for transport %d of %d in %s", i+1, len(transports), m.Name)

		transport := m.Reaction(rxnID)
		saved := transport.Bounds()
		transport.SetBounds(model.Bounds{Lower: maxFlux, Upper: maxFlux})

		metID, ok := model.FecalTransportMetabolite(rxnID)
		if !ok {
			transport.SetBounds(saved)
			return nil, fmt.Errorf("fba: %s is not a fecal transport reaction", rxnID)
		}
		for _, rxn := range m.ReactionsFor(metID) {
			if model.Classify(rxn.ID) != model.RoleSpeciesExchange {
				continue
			}
			if err := m.SetObjective(rxn.ID); err != nil {
				transport.SetBounds(saved)
				return nil, err
			}
			sol, err := p.Solver.Optimize(ctx, m, rxn.ID, solver.Minimize)
			if err != nil {
				transport.SetBounds(saved)
				return nil, fmt.Errorf("minimize %s: %w", rxn.ID, err)
			}
			res.MinSpeciesExchange[rxn.ID] = sol.Objective
			res.Ledger = append(res.Ledger, FluxRow{
				Index:      len(res.Ledger),
				Phase:      PhaseMinSpeciesExchange,
				ReactionID: rxn.ID,
				Role:       model.RoleSpeciesExchange,
				Sense:      solver.Minimize,
				Flux:       sol.Objective,
				Pinned:     rxnID,
			})
		}

		transport.SetBounds(saved)
	}
	p.logf("[completed] minimization complete for %s", m.Name)

	res.FinalBounds = m.BoundsSnapshot()
	return res, nil
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.Log != nil {
		p.Log.Printf(format, args...)
	}
}
