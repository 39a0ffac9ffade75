package history

import "time"

// Run is one recorded benchmark run.
type Run struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Binary       string    `json:"binary"`
	Family       string    `json:"family"`
	BaselinePath string    `json:"baseline_path,omitempty"`
	TotalScore   int       `json:"total_score"`
	AverageScore float64   `json:"average_score"`
	Results      []Result  `json:"results,omitempty"`
}

// Result is a single scored size within a run. Baseline and Ratio are nil
// for sizes scored without a baseline entry.
type Result struct {
	Digits   int      `json:"digits"`
	Measured float64  `json:"measured_s"`
	Baseline *float64 `json:"baseline_s,omitempty"`
	Ratio    *float64 `json:"ratio,omitempty"`
	Score    int      `json:"score"`
}

// Store is the persistence interface for run history.
type Store interface {
	Close() error

	// SaveRun persists a run with its per-size results and returns the new id.
	SaveRun(run Run) (int64, error)

	// ListRuns returns the most recent runs, newest first, without results.
	ListRuns(limit int) ([]Run, error)

	// GetRun returns one run with its results, or (nil, nil) when absent.
	GetRun(id int64) (*Run, error)

	// DeleteOlderThan removes runs recorded before cutoff and returns how
	// many were deleted.
	DeleteOlderThan(cutoff time.Time) (int64, error)
}
