package models

// MatchRequest represents the request body for running the name-matching
// cascade over a GC-MS dataset.
type MatchRequest struct {
	GCMSPath   string `json:"gcms_path" binding:"required"`
	VMHPath    string `json:"vmh_path" binding:"required"`
	ManualPath string `json:"manual_path,omitempty"`
	OutputDir  string `json:"output_dir" binding:"required"`
	// DisablePubChem skips the network-backed identifier stage; matching
	// falls back to direct + manual.
	DisablePubChem bool `json:"disable_pubchem,omitempty"`
}

// OptimizeRequest represents the request body for starting a batch
// optimization job over a directory of community models.
type OptimizeRequest struct {
	ModelsDir string `json:"models_dir" binding:"required"`
	OutputDir string `json:"output_dir" binding:"required"`
	// Workers bounds concurrency; 0 = min(NumCPU, models).
	Workers int `json:"workers,omitempty"`
	// AddBileAcid opens dietary bile acid uptake before optimizing.
	AddBileAcid bool `json:"add_bile_acid,omitempty"`
	// ApplyConventions applies the default bound conventions to each model
	// before optimization.
	ApplyConventions bool `json:"apply_conventions,omitempty"`
	// SolverBinary overrides the LP solver executable (default glpsol).
	SolverBinary string `json:"solver_binary,omitempty"`
}
