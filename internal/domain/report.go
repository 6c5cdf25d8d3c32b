package domain

import "time"

// SyncReport summarizes one reconciliation run against the Clubspot roster.
// It is assembled once at the end of a run and never mutated afterwards.
type SyncReport struct {
	ClubID string `json:"clubId"`

	NewCount       int `json:"newCount"`
	UpdatedCount   int `json:"updatedCount"`
	UnchangedCount int `json:"unchangedCount"`

	// Errors holds one entry per record that could not be reconciled, with
	// enough context (external id or email) to triage. Per-record errors do
	// not fail the run.
	Errors []string `json:"errors"`

	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Total returns the number of roster records that were reconciled.
func (r SyncReport) Total() int {
	return r.NewCount + r.UpdatedCount + r.UnchangedCount
}
