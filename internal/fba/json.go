package fba

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zomorrodilab/ZLab-tools/internal/model"
)

// resultJSON is the on-disk shape of a per-model result. Roles and senses
// are written as their string forms.
type resultJSON struct {
	Model              string                  `json:"model"`
	MaxFecalTransport  map[string]float64      `json:"max_fecal_transport"`
	MinSpeciesExchange map[string]float64      `json:"min_species_exchange"`
	FinalBounds        map[string]model.Bounds `json:"final_bounds"`
	Ledger             []fluxRowJSON           `json:"ledger"`
}

type fluxRowJSON struct {
	Index    int     `json:"index"`
	Phase    Phase   `json:"phase"`
	Reaction string  `json:"reaction"`
	Role     string  `json:"role"`
	Sense    string  `json:"sense"`
	Flux     float64 `json:"flux"`
	Pinned   string  `json:"pinned,omitempty"`
}

// WriteResultJSON writes the complete result of one model's run, ledger
// included, creating the parent directory if needed.
func WriteResultJSON(path string, res *Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	out := resultJSON{
		Model:              res.Model,
		MaxFecalTransport:  res.MaxFecalTransport,
		MinSpeciesExchange: res.MinSpeciesExchange,
		FinalBounds:        res.FinalBounds,
		Ledger:             make([]fluxRowJSON, 0, len(res.Ledger)),
	}
	for _, r := range res.Ledger {
		out.Ledger = append(out.Ledger, fluxRowJSON{
			Index:    r.Index,
			Phase:    r.Phase,
			Reaction: r.ReactionID,
			Role:     r.Role.String(),
			Sense:    r.Sense.String(),
			Flux:     r.Flux,
			Pinned:   r.Pinned,
		})
	}
	raw, err := json.MarshalIndent(out, "", " ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
