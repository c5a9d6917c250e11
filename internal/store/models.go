package store

import "time"

// RunStatus tracks a transcription run through its lifecycle.
type RunStatus string

const (
	StatusPending      RunStatus = "pending"
	StatusExtracting   RunStatus = "extracting"
	StatusTranscribing RunStatus = "transcribing"
	StatusCompleted    RunStatus = "completed"
	StatusFailed       RunStatus = "failed"
)

// Terminal reports whether the status is a run's final state.
func (s RunStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Run is one transcription run over a single source file.
type Run struct {
	ID                string
	SourcePath        string
	Status            RunStatus
	Variant           string
	SegmentCount      int
	DurationSeconds   float64
	DurationEstimated bool
	ErrorMessage      string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Attempt records one try of one transcript source during a run.
type Attempt struct {
	ID        int64
	RunID     string
	Variant   string
	Attempt   int
	Outcome   string
	Detail    string
	CreatedAt time.Time
}
