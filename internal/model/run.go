package model

import "time"

// RunStatus represents the current state of an analysis run.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusGenerating RunStatus = "generating"
	RunStatusAnalyzing  RunStatus = "analyzing"
	RunStatusExporting  RunStatus = "exporting"
	RunStatusComplete   RunStatus = "complete"
	RunStatusFailed     RunStatus = "failed"
)

// RunParams are the inputs that fully determine a synthetic analysis run.
type RunParams struct {
	Seed       int64  `json:"seed"`
	RouteCount int    `json:"route_count"`
	OutputDir  string `json:"output_dir,omitempty"`
	Prefix     string `json:"prefix,omitempty"`
	Visualize  bool   `json:"visualize"`
	Export     bool   `json:"export"`
}

// Run represents a single analysis run.
type Run struct {
	ID        string      `json:"id"`
	Params    RunParams   `json:"params"`
	Status    RunStatus   `json:"status"`
	Result    *RunSummary `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// RunSummary holds the final outcome of a run.
type RunSummary struct {
	Stats            SummaryStats  `json:"summary_stats"`
	TopRoutes        []string      `json:"top_routes"`
	ExpandCount      int           `json:"expand_count"`
	OptimizeCount    int           `json:"optimize_count"`
	DiscontinueCount int           `json:"discontinue_count"`
	SkippedRecords   int           `json:"skipped_records"`
	Files            []string      `json:"files,omitempty"`
	Phases           []PhaseResult `json:"phases"`
}

// RunPhase represents a phase within a run.
type RunPhase struct {
	ID        string       `json:"id"`
	RunID     string       `json:"run_id"`
	Name      string       `json:"name"`
	Status    PhaseStatus  `json:"status"`
	Result    *PhaseResult `json:"result,omitempty"`
	StartedAt time.Time    `json:"started_at"`
}

// PhaseStatus represents the current state of a pipeline phase.
type PhaseStatus string

const (
	PhaseStatusRunning  PhaseStatus = "running"
	PhaseStatusComplete PhaseStatus = "complete"
	PhaseStatusFailed   PhaseStatus = "failed"
	PhaseStatusSkipped  PhaseStatus = "skipped"
)

// PhaseResult holds the outcome of a pipeline phase.
type PhaseResult struct {
	Name     string         `json:"name"`
	Status   PhaseStatus    `json:"status"`
	Duration int64          `json:"duration_ms"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
