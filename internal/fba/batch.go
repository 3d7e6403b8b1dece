package fba

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/zomorrodilab/ZLab-tools/internal/data"
	"github.com/zomorrodilab/ZLab-tools/internal/model"
)

// BatchOptions configures a batch run over a directory of models.
type BatchOptions struct {
	// OutDir receives the per-model flux outputs.
	OutDir string
	// Workers bounds the number of concurrent model optimizations; zero
	// means min(NumCPU, number of models).
	Workers int
	// Conventions, when non-nil, is applied to every model before
	// optimization.
	Conventions *model.BoundConventions
}

// ModelReport summarizes one model's run within a batch. A failed model
// carries its error without aborting the rest of the batch.
type ModelReport struct {
	Model    string
	Path     string
	Err      error
	Maxed    int
	Minned   int
	Duration time.Duration
}

// RunBatch optimizes every model file under modelsDir, fanning out across a
// bounded worker pool. Each model is independent; reports come back sorted
// by model name.
func RunBatch(ctx context.Context, modelsDir string, p *Pipeline, opts BatchOptions) ([]ModelReport, error) {
	files, err := data.ListModelFiles(modelsDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("fba: no model files under %s", modelsDir)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		reports []ModelReport
	)
	sem := make(chan struct{}, workers)

	for _, path := range files {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			report := runOne(ctx, path, p, opts)
			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
		}(path)
	}
	wg.Wait()

	sort.Slice(reports, func(i, j int) bool { return reports[i].Model < reports[j].Model })
	return reports, nil
}

func runOne(ctx context.Context, path string, p *Pipeline, opts BatchOptions) ModelReport {
	start := time.Now()
	report := ModelReport{Path: path, Model: modelName(path)}

	m, err := data.LoadModel(path)
	if err != nil {
		report.Err = err
		report.Duration = time.Since(start)
		return report
	}

	if opts.Conventions != nil {
		changes := model.SetDefaultBounds(m, *opts.Conventions)
		p.logf("applied bound conventions to %s: %d reactions changed", m.Name, len(changes))
	}

	res, err := p.OptimizeModel(ctx, m)
	if err != nil {
		report.Err = fmt.Errorf("optimize %s: %w", m.Name, err)
		report.Duration = time.Since(start)
		return report
	}
	report.Maxed = len(res.MaxFecalTransport)
	report.Minned = len(res.MinSpeciesExchange)

	if opts.OutDir != "" {
		if err := writeOutputs(opts.OutDir, res); err != nil {
			report.Err = err
		}
	}
	report.Duration = time.Since(start)
	return report
}

func writeOutputs(outDir string, res *Result) error {
	base := filepath.Join(outDir, res.Model)
	if err := WriteFluxCSV(base+"_UFEt.csv", res.MaxFecalTransport); err != nil {
		return err
	}
	if err := WriteFluxCSV(base+"_IEX.csv", res.MinSpeciesExchange); err != nil {
		return err
	}
	if err := WriteLedgerCSV(base+"_ledger.csv", res.Ledger); err != nil {
		return err
	}
	return WriteResultJSON(base+"_result.json", res)
}

func modelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
