package domain

import (
	"time"
)

// RunSummary aggregates the outcome of one transform run
type RunSummary struct {
	RunID             string             `json:"run_id"`
	StartedAt         time.Time          `json:"started_at"`
	FinishedAt        time.Time          `json:"finished_at"`
	OutputPath        string             `json:"output_path"`
	ArchivesFound     int                `json:"archives_found"`
	ArchivesProcessed int                `json:"archives_processed"`
	ArchivesSkipped   int                `json:"archives_skipped"`
	SentinelPeriods   int                `json:"sentinel_periods"`
	RowsRead          int                `json:"rows_read"`
	RecordsWritten    int                `json:"records_written"`
	Dropped           map[DropReason]int `json:"dropped"`
}

// NewRunSummary creates an empty summary for the given run
func NewRunSummary(runID string) *RunSummary {
	return &RunSummary{
		RunID:     runID,
		StartedAt: time.Now(),
		Dropped:   make(map[DropReason]int),
	}
}

// RecordDrop counts a dropped row
func (s *RunSummary) RecordDrop(reason DropReason) {
	s.Dropped[reason]++
}

// TotalDropped returns the number of dropped rows across all reasons
func (s *RunSummary) TotalDropped() int {
	total := 0
	for _, n := range s.Dropped {
		total += n
	}
	return total
}

// Duration returns how long the run took, or zero while it is still running
func (s *RunSummary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
