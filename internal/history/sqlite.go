package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps run history in a local SQLite database. It is the default
// backend and needs no external service.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) the database at dbPath. Parent
// directories are created on demand so the default dot-directory location
// works on a fresh checkout.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at DATETIME NOT NULL,
			binary TEXT NOT NULL,
			family TEXT NOT NULL,
			baseline_path TEXT NOT NULL DEFAULT '',
			total_score INTEGER NOT NULL,
			avg_score REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_results (
			run_id INTEGER NOT NULL,
			digits INTEGER NOT NULL,
			measured_s REAL NOT NULL,
			baseline_s REAL,
			ratio REAL,
			score INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_results_run_id ON run_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRun(run Run) (int64, error) {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (created_at, binary, family, baseline_path, total_score, avg_score)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.CreatedAt, run.Binary, run.Family, run.BaselinePath, run.TotalScore, run.AverageScore,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	for _, r := range run.Results {
		_, err := tx.Exec(
			`INSERT INTO run_results (run_id, digits, measured_s, baseline_s, ratio, score)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, r.Digits, r.Measured, nullable(r.Baseline), nullable(r.Ratio), r.Score,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to save result for %d digits: %w", r.Digits, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) ListRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, binary, family, baseline_path, total_score, avg_score
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

func (s *SQLiteStore) GetRun(id int64) (*Run, error) {
	var run Run
	err := s.db.QueryRow(
		`SELECT id, created_at, binary, family, baseline_path, total_score, avg_score
		 FROM runs WHERE id = ?`, id).
		Scan(&run.ID, &run.CreatedAt, &run.Binary, &run.Family, &run.BaselinePath,
			&run.TotalScore, &run.AverageScore)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %d: %w", id, err)
	}

	rows, err := s.db.Query(
		`SELECT digits, measured_s, baseline_s, ratio, score
		 FROM run_results WHERE run_id = ? ORDER BY digits`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get results for run %d: %w", id, err)
	}
	defer rows.Close()

	results, err := scanResults(rows)
	if err != nil {
		return nil, err
	}
	run.Results = results
	return &run, nil
}

func (s *SQLiteStore) DeleteOlderThan(cutoff time.Time) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM run_results WHERE run_id IN (SELECT id FROM runs WHERE created_at < ?)`,
		cutoff); err != nil {
		return 0, fmt.Errorf("failed to prune results: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM runs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit prune: %w", err)
	}
	return deleted, nil
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.Binary, &run.Family,
			&run.BaselinePath, &run.TotalScore, &run.AverageScore); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var (
			r        Result
			baseline sql.NullFloat64
			ratio    sql.NullFloat64
		)
		if err := rows.Scan(&r.Digits, &r.Measured, &baseline, &ratio, &r.Score); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		if baseline.Valid {
			r.Baseline = &baseline.Float64
		}
		if ratio.Valid {
			r.Ratio = &ratio.Float64
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
