package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// Writer places rendered reports under a results directory using the
// benchmark_<YYYYMMDD_HHMMSS> naming convention.
type Writer struct {
	Dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// Write renders rep into a timestamped file with the given extension
// ("txt", "md") and returns the path. The results directory is created on
// demand.
func (w *Writer) Write(rep Report, r Renderer, ext string) (string, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory %s: %w", w.Dir, err)
	}

	name := fmt.Sprintf("benchmark_%s.%s", rep.GeneratedAt.Format("20060102_150405"), ext)
	path := filepath.Join(w.Dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report %s: %w", path, err)
	}
	if err := r.Render(f, rep); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return path, nil
}
