package fba

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// WriteLedgerCSV writes the full solve ledger for one model.
func WriteLedgerCSV(path string, ledger []FluxRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ledger: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"index", "phase", "reaction", "role", "sense", "flux", "pinned"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Index),
			string(r.Phase),
			r.ReactionID,
			r.Role.String(),
			r.Sense.String(),
			fmtFlux(r.Flux),
			r.Pinned,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteFluxCSV writes a reaction->flux map sorted by reaction ID. Used for
// the per-model fecal transport and species exchange outputs.
func WriteFluxCSV(path string, fluxes map[string]float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create flux output: %w", err)
	}
	defer f.Close()

	ids := make([]string, 0, len(fluxes))
	for id := range fluxes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"reaction", "flux"}); err != nil {
		return err
	}
	for _, id := range ids {
		if err := w.Write([]string{id, fmtFlux(fluxes[id])}); err != nil {
			return err
		}
	}
	return w.Error()
}

// ReadFluxCSV reads a file produced by WriteFluxCSV.
func ReadFluxCSV(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open flux file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse flux file %s: %w", path, err)
	}
	fluxes := map[string]float64{}
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("flux file %s row %d: %w", path, i+1, err)
		}
		fluxes[row[0]] = v
	}
	return fluxes, nil
}

func fmtFlux(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
