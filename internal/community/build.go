package community

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/zomorrodilab/ZLab-tools/internal/data"
	"github.com/zomorrodilab/ZLab-tools/internal/model"
)

// sampleAbundanceFloor excludes species from a sample's community when their
// abundance is at or below this value.
const sampleAbundanceFloor = 0.001

// AbundanceTable holds relative species abundances: species as rows, samples
// as columns.
type AbundanceTable struct {
	Species []string
	Samples []string
	values  map[string]map[string]float64 // sample -> species -> abundance
}

// LoadAbundanceTable reads a species abundance CSV whose first column holds
// species names (matching the species model file names) and whose remaining
// columns are samples.
func LoadAbundanceTable(path string) (*AbundanceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open abundance table: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse abundance table %s: %w", path, err)
	}
	if len(rows) < 2 || len(rows[0]) < 2 {
		return nil, fmt.Errorf("abundance table %s has no samples", path)
	}

	t := &AbundanceTable{
		Samples: rows[0][1:],
		values:  map[string]map[string]float64{},
	}
	for _, sample := range t.Samples {
		t.values[sample] = map[string]float64{}
	}
	for i, row := range rows[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		species := row[0]
		t.Species = append(t.Species, species)
		for j, sample := range t.Samples {
			if j+1 >= len(row) || strings.TrimSpace(row[j+1]) == "" {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[j+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("abundance table %s row %d: %w", path, i+2, err)
			}
			t.values[sample][species] = v
		}
	}
	return t, nil
}

// Abundances returns the species->abundance map of one sample.
func (t *AbundanceTable) Abundances(sample string) (map[string]float64, error) {
	m, ok := t.values[sample]
	if !ok {
		return nil, fmt.Errorf("sample %q not in abundance table", sample)
	}
	return m, nil
}

// Builder assembles one community model per sample.
type Builder struct {
	// ModelsDir holds the single-species reconstructions, one file per
	// species, named after the species.
	ModelsDir string
	// OutDir receives the per-sample community models (JSON).
	OutDir string
	// Diet, when non-nil, constrains the diet exchanges of each community.
	Diet map[string]float64
	Log  *log.Logger
}

// BuildAll builds and saves a community model for every sample in the
// abundance table, returning the saved model paths in sample order.
func (b *Builder) BuildAll(ctx context.Context, abundance *AbundanceTable) ([]string, error) {
	var paths []string
	for i, sample := range abundance.Samples {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		b.logf("building community %d of %d: %s", i+1, len(abundance.Samples), sample)
		m, err := b.BuildSample(abundance, sample)
		if err != nil {
			return paths, fmt.Errorf("build sample %s: %w", sample, err)
		}
		out := filepath.Join(b.OutDir, sample+"_communitymodel_final.json")
		if err := data.SaveJSONModel(m, out); err != nil {
			return paths, err
		}
		b.logf("saved community model %s", out)
		paths = append(paths, out)
	}
	return paths, nil
}

// BuildSample assembles the community model of a single sample.
func (b *Builder) BuildSample(abundance *AbundanceTable, sample string) (*model.Model, error) {
	abundances, err := abundance.Abundances(sample)
	if err != nil {
		return nil, err
	}

	var included []string
	for species, v := range abundances {
		if v > sampleAbundanceFloor {
			included = append(included, species)
		}
	}
	if len(included) == 0 {
		return nil, fmt.Errorf("community: sample %s has no species above the abundance floor", sample)
	}
	sort.Strings(included)

	community := model.New(sample)
	community.Name = sample
	for _, species := range included {
		src, err := b.loadSpeciesModel(species)
		if err != nil {
			return nil, err
		}
		tagged, err := TagSpecies(src, species)
		if err != nil {
			return nil, err
		}
		if err := Merge(community, tagged); err != nil {
			return nil, err
		}
		b.logf("added species model %s to %s", species, sample)
	}

	if err := AddLumenCompartments(community); err != nil {
		return nil, err
	}
	if err := AddCommunityBiomass(community, abundances); err != nil {
		return nil, err
	}

	// Transport reactions are irreversible by convention.
	for _, rxn := range community.Reactions {
		switch model.Classify(rxn.ID) {
		case model.RoleDietTransport, model.RoleFecalTransport:
			rxn.LowerBound = 0
		}
	}

	if b.Diet != nil {
		opened := ApplyDiet(community, b.Diet)
		b.logf("opened %d diet exchanges for %s", opened, sample)
	}

	if err := community.SetObjective("communityBiomass"); err != nil {
		return nil, err
	}
	return community, nil
}

func (b *Builder) loadSpeciesModel(species string) (*model.Model, error) {
	for _, ext := range []string{".json", ".yml", ".yaml"} {
		path := filepath.Join(b.ModelsDir, species+ext)
		if _, err := os.Stat(path); err == nil {
			return data.LoadModel(path)
		}
	}
	return nil, fmt.Errorf("community: no model file for species %q under %s", species, b.ModelsDir)
}

func (b *Builder) logf(format string, args ...any) {
	if b.Log != nil {
		b.Log.Printf(format, args...)
	}
}
