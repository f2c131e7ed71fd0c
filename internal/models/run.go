package models

import (
	"errors"
	"fmt"
	"time"
)

// RunStatus is the lifecycle state of a [Run].
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// RunExport records one category CSV written by a run.
type RunExport struct {
	Category      string
	Rows          int
	CoversFound   int
	CoversMissing int
	File          string
	Error         string // Non-empty when the category failed
}

// Run is one execution of the export pipeline.
type Run struct {
	id           string
	sequence     int
	cutoff       time.Time
	status       RunStatus
	errorMessage string
	exports      []RunExport
	startedAt    time.Time
	completedAt  *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

// NewRun creates a running [Run] for the given cutoff date.
func NewRun(cutoff time.Time) *Run {
	now := time.Now()
	return &Run{
		cutoff:    cutoff,
		status:    RunRunning,
		startedAt: now,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreRun rebuilds a [Run] from stored values.
func RestoreRun(
	id string, sequence int, cutoff time.Time, status RunStatus, errorMessage string,
	startedAt time.Time, completedAt *time.Time, createdAt, updatedAt time.Time,
) *Run {
	return &Run{
		id:           id,
		sequence:     sequence,
		cutoff:       cutoff,
		status:       status,
		errorMessage: errorMessage,
		startedAt:    startedAt,
		completedAt:  completedAt,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (r *Run) ID() string              { return r.id }
func (r *Run) Sequence() int           { return r.sequence }
func (r *Run) Cutoff() time.Time       { return r.cutoff }
func (r *Run) Status() RunStatus       { return r.status }
func (r *Run) ErrorMessage() string    { return r.errorMessage }
func (r *Run) Exports() []RunExport    { return r.exports }
func (r *Run) StartedAt() time.Time    { return r.startedAt }
func (r *Run) CompletedAt() *time.Time { return r.completedAt }
func (r *Run) CreatedAt() time.Time    { return r.createdAt }
func (r *Run) UpdatedAt() time.Time    { return r.updatedAt }

func (r *Run) SetID(id string)            { r.id = id }
func (r *Run) SetSequence(seq int)        { r.sequence = seq }
func (r *Run) SetUpdatedAt(t time.Time)   { r.updatedAt = t }
func (r *Run) SetExports(ex []RunExport)  { r.exports = ex }
func (r *Run) AddExport(export RunExport) { r.exports = append(r.exports, export) }

// Complete marks the run as completed.
func (r *Run) Complete() {
	now := time.Now()
	r.status = RunCompleted
	r.completedAt = &now
}

// Fail marks the run as failed with err's message.
func (r *Run) Fail(err error) {
	now := time.Now()
	r.status = RunFailed
	r.completedAt = &now
	if err != nil {
		r.errorMessage = err.Error()
	}
}

// Validate checks the run's required fields.
func (r *Run) Validate() error {
	if r.id == "" {
		return errors.New("run id is required")
	}
	if r.cutoff.IsZero() {
		return errors.New("run cutoff is required")
	}
	switch r.status {
	case RunRunning, RunCompleted, RunFailed:
	default:
		return fmt.Errorf("invalid run status %q", r.status)
	}
	for _, ex := range r.exports {
		if ex.Category == "" {
			return errors.New("run export category is required")
		}
	}
	return nil
}
