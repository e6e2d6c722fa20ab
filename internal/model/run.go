package model

import "time"

// RunStatus represents the current state of a reconciliation run.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusExtracting RunStatus = "extracting"
	RunStatusMerging    RunStatus = "merging"
	RunStatusComplete   RunStatus = "complete"
	RunStatusFailed     RunStatus = "failed"
)

// DocumentPair identifies the inputs of a run. Either path may be empty,
// meaning that source was not provided.
type DocumentPair struct {
	PaystubPath string `json:"paystub_path,omitempty"`
	EVPath      string `json:"ev_path,omitempty"`
}

// Run represents a single reconciliation run for a document pair.
type Run struct {
	ID        string       `json:"id"`
	Documents DocumentPair `json:"documents"`
	Status    RunStatus    `json:"status"`
	Result    *RunResult   `json:"result,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// RunResult holds the final outcome of a run.
type RunResult struct {
	Unified     UnifiedResult `json:"unified"`
	FieldsFound int           `json:"fields_found"`
	FieldsTotal int           `json:"fields_total"`
	TotalTokens int64         `json:"total_tokens,omitempty"`
	Phases      []PhaseResult `json:"phases"`
	Error       string        `json:"error,omitempty"`
}

// PhaseStatus represents the current state of a pipeline phase.
type PhaseStatus string

const (
	PhaseStatusRunning  PhaseStatus = "running"
	PhaseStatusComplete PhaseStatus = "complete"
	PhaseStatusFailed   PhaseStatus = "failed"
	PhaseStatusSkipped  PhaseStatus = "skipped"
)

// RunPhase represents a phase within a run.
type RunPhase struct {
	ID        string       `json:"id"`
	RunID     string       `json:"run_id"`
	Name      string       `json:"name"`
	Status    PhaseStatus  `json:"status"`
	Result    *PhaseResult `json:"result,omitempty"`
	StartedAt time.Time    `json:"started_at"`
}

// PhaseResult holds the outcome of a pipeline phase.
type PhaseResult struct {
	Name     string         `json:"name"`
	Status   PhaseStatus    `json:"status"`
	Duration int64          `json:"duration_ms"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
