package models

import "time"

// MatchResponse is the outcome of one matching run.
type MatchResponse struct {
	Matches    map[string]string `json:"matches"`
	Strategies map[string]string `json:"strategies"`
	Unmatched  []string          `json:"unmatched,omitempty"`
	Matched    int               `json:"matched"`
	Total      int               `json:"total"`
	KeyFile    string            `json:"key_file"`
}

// JobResponse describes a batch optimization job.
type JobResponse struct {
	ID         string        `json:"id"`
	Status     string        `json:"status"` // "running", "completed", "failed"
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
	Error      string        `json:"error,omitempty"`
	Models     []ModelReport `json:"models,omitempty"`
}

// ModelReport summarizes one model within a batch job.
type ModelReport struct {
	Model      string  `json:"model"`
	Status     string  `json:"status"` // "ok" or "failed"
	Error      string  `json:"error,omitempty"`
	Maximized  int     `json:"maximized"`
	Minimized  int     `json:"minimized"`
	DurationMS float64 `json:"duration_ms"`
}

// ModelFile is one entry of the model listing.
type ModelFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
