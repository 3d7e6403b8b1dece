package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zomorrodilab/ZLab-tools/internal/analysis"
	"github.com/zomorrodilab/ZLab-tools/internal/community"
	"github.com/zomorrodilab/ZLab-tools/internal/config"
	"github.com/zomorrodilab/ZLab-tools/internal/data"
	"github.com/zomorrodilab/ZLab-tools/internal/fba"
	"github.com/zomorrodilab/ZLab-tools/internal/matching"
	"github.com/zomorrodilab/ZLab-tools/internal/pubchem"
	"github.com/zomorrodilab/ZLab-tools/internal/solver"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "match":
		cmdMatch(os.Args[2:])
	case "build":
		cmdBuild(os.Args[2:])
	case "optimize":
		cmdOptimize(os.Args[2:])
	case "convert":
		cmdConvert(os.Args[2:])
	case "rank":
		cmdRank(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli match    --gcms data.csv --vmh all_vmh_metabolites.tsv --manual manually_matched_keys.txt --out results/")
	fmt.Println("  cli build    --abundance coverage.csv --models agora/ --out communities/ [--diet diet.tsv]")
	fmt.Println("  cli optimize --config run.yaml [--models communities/] [--out results/]")
	fmt.Println("  cli convert  --in model.yml --out converted/")
	fmt.Println("  cli rank     --results results/")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - match maps GC-MS metabolite names to VMH identifiers (needs network for PubChem)")
	fmt.Println("  - optimize maximizes UFEt fluxes then minimizes the linked IEX fluxes per model")
	fmt.Println("  - rank aggregates *_UFEt.csv outputs into a secretion ranking")
}

func cmdMatch(args []string) {
	fs := flag.NewFlagSet("match", flag.ExitOnError)
	gcmsPath := fs.String("gcms", "", "Path to the GC-MS abundance CSV")
	vmhPath := fs.String("vmh", "data_dependencies/all_vmh_metabolites.tsv", "Path to the VMH metabolite table (TSV)")
	manualPath := fs.String("manual", "data_dependencies/manually_matched_keys.txt", "Path to the manual match key file")
	outDir := fs.String("out", "results", "Output directory for the match key")
	offline := fs.Bool("offline", false, "Skip PubChem lookups (direct + manual matching only)")
	_ = fs.Parse(args)

	if *gcmsPath == "" {
		fmt.Println("--gcms is required")
		os.Exit(2)
	}

	table, err := data.LoadVMHTable(*vmhPath)
	if err != nil {
		panic(err)
	}
	manual, err := data.LoadManualKeys(*manualPath)
	if err != nil {
		panic(err)
	}

	matcher := &matching.Matcher{DB: table, Manual: manual, Log: log.Default()}
	if !*offline {
		matcher.Resolver = pubchem.NewClient("")
	}

	res, keyPath, err := matching.MatchDataset(context.Background(), matcher, *gcmsPath, *outDir)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Matched %d of %d GC-MS names\n", len(res.Matches), res.Total)
	for strategy, n := range res.CountByStrategy() {
		fmt.Printf("  %-9s %d\n", strategy, n)
	}
	fmt.Printf("Wrote match key to %s\n", keyPath)
}

func cmdBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	abundancePath := fs.String("abundance", "", "Path to the species abundance CSV")
	modelsDir := fs.String("models", "", "Directory of single-species models")
	outDir := fs.String("out", "communities", "Output directory for community models")
	dietPath := fs.String("diet", "", "Optional diet flux table (TSV)")
	_ = fs.Parse(args)

	if *abundancePath == "" || *modelsDir == "" {
		fmt.Println("--abundance and --models are required")
		os.Exit(2)
	}

	abundance, err := community.LoadAbundanceTable(*abundancePath)
	if err != nil {
		panic(err)
	}

	builder := &community.Builder{
		ModelsDir: *modelsDir,
		OutDir:    *outDir,
		Log:       log.Default(),
	}
	if *dietPath != "" {
		diet, err := data.LoadDietTable(*dietPath)
		if err != nil {
			panic(err)
		}
		builder.Diet = diet
	}

	paths, err := builder.BuildAll(context.Background(), abundance)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Built %d community models under %s\n", len(paths), *outDir)
}

func cmdOptimize(args []string) {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML run config")
	modelsDir := fs.String("models", "", "Override the configured models directory")
	outDir := fs.String("out", "", "Override the configured output directory")
	workers := fs.Int("workers", 0, "Override the configured worker count")
	addBileAcid := fs.Bool("add-1ba", false, "Open dietary bile acid uptake before optimizing")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	if *modelsDir != "" {
		cfg.ModelsDir = *modelsDir
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	glpk := solver.NewGLPK()
	glpk.Binary = cfg.Solver.Binary
	glpk.TimeLimit = cfg.Solver.TimeLimit()

	pipeline := &fba.Pipeline{
		Solver:      glpk,
		AddBileAcid: cfg.AddBileAcid || *addBileAcid,
		Log:         log.Default(),
	}
	reports, err := fba.RunBatch(context.Background(), cfg.ModelsDir, pipeline, fba.BatchOptions{
		OutDir:      cfg.OutputDir,
		Workers:     cfg.Workers,
		Conventions: &cfg.Conventions,
	})
	if err != nil {
		panic(err)
	}

	failed := 0
	for _, r := range reports {
		if r.Err != nil {
			failed++
			fmt.Printf("FAILED %-30s %v\n", r.Model, r.Err)
			continue
		}
		fmt.Printf("ok     %-30s maximized=%d minimized=%d (%s)\n",
			r.Model, r.Maxed, r.Minned, r.Duration.Round(time.Millisecond))
	}
	fmt.Printf("%d of %d models optimized, outputs in %s\n", len(reports)-failed, len(reports), cfg.OutputDir)
	if failed > 0 {
		os.Exit(1)
	}
}

func cmdConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	inPath := fs.String("in", "", "Path to the model to convert")
	outDir := fs.String("out", "converted", "Output directory")
	_ = fs.Parse(args)

	if *inPath == "" {
		fmt.Println("--in is required")
		os.Exit(2)
	}
	out, err := data.ConvertModel(*inPath, *outDir)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Converted %s to %s\n", *inPath, out)
}

func cmdRank(args []string) {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	resultsDir := fs.String("results", "results", "Directory of *_UFEt.csv batch outputs")
	top := fs.Int("top", 20, "Number of metabolites to list")
	_ = fs.Parse(args)

	entries, err := os.ReadDir(*resultsDir)
	if err != nil {
		panic(err)
	}
	byModel := map[string]map[string]float64{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), "_UFEt.csv") {
			continue
		}
		fluxes, err := fba.ReadFluxCSV(filepath.Join(*resultsDir, e.Name()))
		if err != nil {
			panic(err)
		}
		byModel[strings.TrimSuffix(e.Name(), "_UFEt.csv")] = fluxes
	}
	if len(byModel) == 0 {
		fmt.Printf("no *_UFEt.csv files under %s\n", *resultsDir)
		os.Exit(1)
	}

	fmt.Printf("%-4s %-30s %-8s %-12s %-12s %-12s\n", "rank", "model", "count", "nonzero", "total", "p95-p05")
	for i, r := range analysis.RankByTotalFlux(byModel) {
		fmt.Printf("%-4d %-30s %-8d %-12d %-12.2f %-12.2f\n",
			i+1, r.Model, r.Count, r.Nonzero, r.TotalFlux, r.SpreadP95P05)
	}

	fmt.Printf("\n%-4s %-20s %-8s %-12s %-12s\n", "rank", "metabolite", "models", "total", "max")
	for i, r := range analysis.RankMetabolites(byModel) {
		if i >= *top {
			break
		}
		fmt.Printf("%-4d %-20s %-8d %-12.2f %-12.2f\n",
			i+1, r.Metabolite, r.Models, r.TotalFlux, r.MaxFlux)
	}
}
