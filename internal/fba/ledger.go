package fba

import (
	"github.com/zomorrodilab/ZLab-tools/internal/model"
	"github.com/zomorrodilab/ZLab-tools/internal/solver"
)

// Phase names the pipeline stage that produced a ledger row.
type Phase string

const (
	// PhaseMaxFecalTransport maximizes each UFEt reaction in turn.
	PhaseMaxFecalTransport Phase = "max-fecal-transport"
	// PhaseMinSpeciesExchange minimizes each IEX reaction with its linked
	// UFEt pinned at the maximum.
	PhaseMinSpeciesExchange Phase = "min-species-exchange"
)

// FluxRow is one solve in the per-model flux ledger. The pinned reaction is
// only set for minimization rows.
type FluxRow struct {
	Index      int
	Phase      Phase
	ReactionID string
	Role       model.ReactionRole
	Sense      solver.Sense
	Flux       float64
	Pinned     string
}

// Result is the outcome of optimizing a single community model.
type Result struct {
	Model string

	// MaxFecalTransport maps each UFEt reaction to its maximized flux.
	MaxFecalTransport map[string]float64
	// MinSpeciesExchange maps each minimized IEX reaction to its flux.
	MinSpeciesExchange map[string]float64
	// FinalBounds snapshots every reaction's bounds after the pipeline.
	FinalBounds map[string]model.Bounds

	Ledger []FluxRow
}
