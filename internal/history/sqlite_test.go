package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(created time.Time) Run {
	baseline := 0.02
	ratio := 2.0
	return Run{
		CreatedAt:    created,
		Binary:       "build/benchmarks/integer_benchmark",
		Family:       "BM_IntegerMultiply",
		BaselinePath: "data/baseline.json",
		TotalScore:   600,
		AverageScore: 300,
		Results: []Result{
			{Digits: 5000, Measured: 0.01, Baseline: &baseline, Ratio: &ratio, Score: 400},
			{Digits: 9999, Measured: 0.5, Score: 200},
		},
	}
}

func TestSQLiteStoreSaveAndGet(t *testing.T) {
	s := newTestStore(t)

	id, err := s.SaveRun(sampleRun(time.Now()))
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	run, err := s.GetRun(id)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, "build/benchmarks/integer_benchmark", run.Binary)
	assert.Equal(t, "BM_IntegerMultiply", run.Family)
	assert.Equal(t, 600, run.TotalScore)
	assert.InDelta(t, 300.0, run.AverageScore, 1e-9)

	require.Len(t, run.Results, 2)
	first := run.Results[0]
	assert.Equal(t, 5000, first.Digits)
	require.NotNil(t, first.Baseline)
	assert.InDelta(t, 0.02, *first.Baseline, 1e-9)
	require.NotNil(t, first.Ratio)
	assert.InDelta(t, 2.0, *first.Ratio, 1e-9)

	second := run.Results[1]
	assert.Equal(t, 9999, second.Digits)
	assert.Nil(t, second.Baseline)
	assert.Nil(t, second.Ratio)
	assert.Equal(t, 200, second.Score)
}

func TestSQLiteStoreGetMissingRun(t *testing.T) {
	s := newTestStore(t)

	run, err := s.GetRun(12345)

	assert.NoError(t, err)
	assert.Nil(t, run)
}

func TestSQLiteStoreListRuns(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		_, err := s.SaveRun(sampleRun(time.Now().Add(time.Duration(i) * time.Minute)))
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Greater(t, runs[0].ID, runs[1].ID)
	assert.Empty(t, runs[0].Results)

	all, err := s.ListRuns(10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSQLiteStoreDeleteOlderThan(t *testing.T) {
	s := newTestStore(t)

	old := sampleRun(time.Now().Add(-48 * time.Hour))
	oldID, err := s.SaveRun(old)
	require.NoError(t, err)
	_, err = s.SaveRun(sampleRun(time.Now()))
	require.NoError(t, err)

	deleted, err := s.DeleteOlderThan(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	runs, err := s.ListRuns(10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	gone, err := s.GetRun(oldID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSQLiteStoreCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".intbench", "nested", "history.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	assert.FileExists(t, path)
}

func TestSQLiteStoreDefaultsCreatedAt(t *testing.T) {
	s := newTestStore(t)

	run := sampleRun(time.Time{})
	id, err := s.SaveRun(run)
	require.NoError(t, err)

	saved, err := s.GetRun(id)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.False(t, saved.CreatedAt.IsZero())
}
