package data

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zomorrodilab/ZLab-tools/internal/model"
)

// cobraModel matches the COBRA JSON/YAML model schema (schema version 1).
type cobraModel struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name,omitempty" yaml:"name,omitempty"`
	Metabolites []cobraMetabolite `json:"metabolites" yaml:"metabolites"`
	Reactions   []cobraReaction   `json:"reactions" yaml:"reactions"`
	Genes       []cobraGene       `json:"genes" yaml:"genes"`
	Version     string            `json:"version,omitempty" yaml:"version,omitempty"`
}

type cobraMetabolite struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Compartment string   `json:"compartment" yaml:"compartment"`
	Formula     string   `json:"formula,omitempty" yaml:"formula,omitempty"`
	Charge      *float64 `json:"charge,omitempty" yaml:"charge,omitempty"`
}

type cobraReaction struct {
	ID                   string             `json:"id" yaml:"id"`
	Name                 string             `json:"name" yaml:"name"`
	Metabolites          map[string]float64 `json:"metabolites" yaml:"metabolites"`
	LowerBound           float64            `json:"lower_bound" yaml:"lower_bound"`
	UpperBound           float64            `json:"upper_bound" yaml:"upper_bound"`
	GeneReactionRule     string             `json:"gene_reaction_rule" yaml:"gene_reaction_rule"`
	Subsystem            string             `json:"subsystem,omitempty" yaml:"subsystem,omitempty"`
	ObjectiveCoefficient float64            `json:"objective_coefficient,omitempty" yaml:"objective_coefficient,omitempty"`
}

type cobraGene struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// LoadModel loads a model from any supported on-disk format, dispatching on
// the file extension. The model name is the file basename without extension.
func LoadModel(path string) (*model.Model, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("model path does not exist: %w", err)
	}
	var (
		m   *model.Model
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		m, err = LoadJSONModel(path)
	case ".yml", ".yaml":
		m, err = LoadYAMLModel(path)
	case ".xml", ".sbml", ".mat":
		return nil, fmt.Errorf("model format %s is not supported for %s: convert to json or yaml first", filepath.Ext(path), path)
	default:
		return nil, fmt.Errorf("model format not supported for %s", path)
	}
	if err != nil {
		return nil, err
	}
	m.Name = modelBasename(path)
	return m, nil
}

// LoadJSONModel reads a COBRA-JSON model file.
func LoadJSONModel(path string) (*model.Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var cm cobraModel
	if err := json.Unmarshal(raw, &cm); err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}
	return fromCobra(&cm)
}

// LoadYAMLModel reads a COBRA-YAML model file.
func LoadYAMLModel(path string) (*model.Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var cm cobraModel
	if err := yaml.Unmarshal(raw, &cm); err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}
	return fromCobra(&cm)
}

// SaveJSONModel writes a model in COBRA-JSON format, creating the parent
// directory if needed. NaN metabolite charges are coerced to zero since JSON
// cannot carry them.
func SaveJSONModel(m *model.Model, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	raw, err := json.MarshalIndent(toCobra(m), "", " ")
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

// ConvertModel loads a model from any supported format and writes it as
// <name>.json under outDir. Returns the output path.
func ConvertModel(path, outDir string) (string, error) {
	m, err := LoadModel(path)
	if err != nil {
		return "", err
	}
	out := filepath.Join(outDir, m.Name+".json")
	if err := SaveJSONModel(m, out); err != nil {
		return "", err
	}
	return out, nil
}

func fromCobra(cm *cobraModel) (*model.Model, error) {
	m := model.New(cm.ID)
	if cm.Name != "" {
		m.Name = cm.Name
	}
	for _, met := range cm.Metabolites {
		charge := 0.0
		if met.Charge != nil && !math.IsNaN(*met.Charge) {
			charge = *met.Charge
		}
		if err := m.AddMetabolite(&model.Metabolite{
			ID:          met.ID,
			Name:        met.Name,
			Compartment: met.Compartment,
			Formula:     met.Formula,
			Charge:      charge,
		}); err != nil {
			return nil, err
		}
	}
	for _, rxn := range cm.Reactions {
		if err := m.AddReaction(&model.Reaction{
			ID:                   rxn.ID,
			Name:                 rxn.Name,
			Subsystem:            rxn.Subsystem,
			Metabolites:          rxn.Metabolites,
			LowerBound:           rxn.LowerBound,
			UpperBound:           rxn.UpperBound,
			ObjectiveCoefficient: rxn.ObjectiveCoefficient,
		}); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func toCobra(m *model.Model) *cobraModel {
	cm := &cobraModel{
		ID:      m.ID,
		Name:    m.Name,
		Genes:   []cobraGene{},
		Version: "1",
	}
	for _, met := range m.Metabolites {
		charge := met.Charge
		if math.IsNaN(charge) {
			charge = 0
		}
		c := charge
		cm.Metabolites = append(cm.Metabolites, cobraMetabolite{
			ID:          met.ID,
			Name:        met.Name,
			Compartment: met.Compartment,
			Formula:     met.Formula,
			Charge:      &c,
		})
	}
	for _, rxn := range m.Reactions {
		cm.Reactions = append(cm.Reactions, cobraReaction{
			ID:                   rxn.ID,
			Name:                 rxn.Name,
			Metabolites:          rxn.Metabolites,
			LowerBound:           rxn.LowerBound,
			UpperBound:           rxn.UpperBound,
			Subsystem:            rxn.Subsystem,
			ObjectiveCoefficient: rxn.ObjectiveCoefficient,
		})
	}
	return cm
}

func modelBasename(path string) string {
	base := filepath.Base(path)
	if idx := strings.Index(base, "."); idx > 0 {
		return base[:idx]
	}
	return base
}
