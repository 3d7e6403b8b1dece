package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zomorrodilab/ZLab-tools/internal/model"
)

// Config is the on-disk run configuration shape (YAML).
type Config struct {
	// Paths to the inputs and outputs of a run.
	ModelsDir string `yaml:"models_dir"`
	OutputDir string `yaml:"output_dir"`

	// Matching inputs.
	VMHTable   string `yaml:"vmh_table"`
	ManualKeys string `yaml:"manual_keys"`
	GCMSData   string `yaml:"gcms_data"`

	// Diet flux table applied during community building.
	DietTable string `yaml:"diet_table"`

	Solver SolverConfig `yaml:"solver"`

	// Workers bounds the batch fan-out; zero = min(NumCPU, models).
	Workers int `yaml:"workers"`

	// AddBileAcid opens dietary bile acid uptake before optimization.
	AddBileAcid bool `yaml:"add_bile_acid"`

	// Optional: load bound conventions from a separate YAML. Explicit
	// conventions set here override the file's values.
	ConventionsFile string                   `yaml:"conventions_file"`
	Conventions     model.BoundConventions   `yaml:"conventions"`
}

type SolverConfig struct {
	// Binary is the LP solver executable; defaults to glpsol on PATH.
	Binary string `yaml:"binary"`
	// TimeLimitSeconds bounds one solve; zero means no limit.
	TimeLimitSeconds int `yaml:"time_limit_seconds"`
}

// TimeLimit returns the per-solve limit as a duration.
func (s SolverConfig) TimeLimit() time.Duration {
	return time.Duration(s.TimeLimitSeconds) * time.Second
}

// Load reads, merges and validates a run configuration.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config without validating it. Useful for
// printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.Solver.Binary == "" {
		c.Solver.Binary = "glpsol"
	}
	if c.ConventionsFile != "" {
		convPath := c.ConventionsFile
		if !filepath.IsAbs(convPath) {
			// Interpret relative paths against the config file directory
			// first, falling back to the working directory.
			cand := filepath.Join(filepath.Dir(path), convPath)
			if _, err := os.Stat(cand); err == nil {
				convPath = cand
			}
		}
		loaded, err := loadConventionsFile(convPath)
		if err != nil {
			return nil, err
		}
		c.Conventions = model.MergeConventions(loaded, c.Conventions)
	}
	c.Conventions = model.MergeConventions(model.DefaultConventions(), c.Conventions)
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.ModelsDir == "" {
		return errors.New("models_dir is required")
	}
	if c.OutputDir == "" {
		return errors.New("output_dir is required")
	}
	if c.Workers < 0 {
		return errors.New("workers must be >= 0")
	}
	if c.Solver.TimeLimitSeconds < 0 {
		return errors.New("solver.time_limit_seconds must be >= 0")
	}
	for name, b := range map[string]model.Bounds{
		"fecal_exchange":         c.Conventions.FecalExchange,
		"biomass_fecal_exchange": c.Conventions.BiomassFecalExchange,
		"fecal_transport":        c.Conventions.FecalTransport,
		"species_exchange":       c.Conventions.SpeciesExchange,
		"diet_transport":         c.Conventions.DietTransport,
		"community_biomass":      c.Conventions.CommunityBiomass,
	} {
		if b.Lower > b.Upper {
			return fmt.Errorf("conventions.%s: lower bound exceeds upper bound", name)
		}
	}
	return nil
}

type conventionsFileWrapper struct {
	Conventions model.BoundConventions `yaml:"conventions"`
}

func loadConventionsFile(path string) (model.BoundConventions, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.BoundConventions{}, err
	}
	var w conventionsFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return model.BoundConventions{}, fmt.Errorf("parse conventions %s: %w", path, err)
	}
	return w.Conventions, nil
}
