package benchmark

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// Scoring is the point system attached to a baseline dataset.
type Scoring struct {
	BaselineScore int
	MaxScore      int
}

// DefaultScoring applies when a dataset omits its scoring_system block or no
// dataset is available at all.
var DefaultScoring = Scoring{BaselineScore: 200, MaxScore: 1000}

// Info is the capture metadata of a baseline snapshot.
type Info struct {
	Timestamp string `json:"timestamp"`
	Seed      int64  `json:"seed"`
}

// Dataset is a read-only baseline snapshot: reference times keyed by digit
// count, plus the scoring system captured with them.
type Dataset struct {
	Info    Info
	Times   map[int]float64
	Scoring Scoring
}

type datasetJSON struct {
	Info    Info               `json:"baseline_info"`
	Times   map[string]float64 `json:"baseline_times"`
	Scoring struct {
		BaselineScore *int `json:"baseline_score"`
		MaxScore      *int `json:"max_score"`
	} `json:"scoring_system"`
}

// LoadDataset reads a baseline file. A missing file is not an error: it
// returns (nil, nil) and scoring falls back to DefaultScoring. Malformed
// content or an invalid scoring system returns an error; callers are expected
// to degrade to fallback scoring rather than abort the run.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read baseline %s: %w", path, err)
	}

	var raw datasetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse baseline %s: %w", path, err)
	}

	ds := &Dataset{
		Info:    raw.Info,
		Times:   make(map[int]float64, len(raw.Times)),
		Scoring: DefaultScoring,
	}
	if raw.Scoring.BaselineScore != nil {
		ds.Scoring.BaselineScore = *raw.Scoring.BaselineScore
	}
	if raw.Scoring.MaxScore != nil {
		ds.Scoring.MaxScore = *raw.Scoring.MaxScore
	}

	for key, secs := range raw.Times {
		digits, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("baseline %s: non-integer size key %q", path, key)
		}
		ds.Times[digits] = secs
	}

	if ds.Scoring.BaselineScore < 0 || ds.Scoring.BaselineScore > ds.Scoring.MaxScore {
		return nil, fmt.Errorf("baseline %s: baseline_score %d outside [0, %d]",
			path, ds.Scoring.BaselineScore, ds.Scoring.MaxScore)
	}

	return ds, nil
}

// Sizes returns the digit counts present in the dataset in ascending order.
func (ds *Dataset) Sizes() []int {
	sizes := make([]int, 0, len(ds.Times))
	for d := range ds.Times {
		sizes = append(sizes, d)
	}
	sort.Ints(sizes)
	return sizes
}
