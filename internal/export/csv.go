package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CSVWriter writes export artifacts into a directory. Rows are written to a
// temporary file first and renamed into place on success, so a failed export
// never leaves a truncated artifact visible.
type CSVWriter struct {
	dir string
}

func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// Write produces <kind>_export_<YYYYMMDD_HHMMSS>.csv and returns its path.
func (w *CSVWriter) Write(kind string, headers []string, rows [][]string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(w.dir, kind+"_*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	cw := csv.NewWriter(tmp)
	if err := cw.Write(headers); err != nil {
		return "", fmt.Errorf("write headers: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write rows: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	name := fmt.Sprintf("%s_export_%s.csv", kind, time.Now().Format("20060102_150405"))
	path := filepath.Join(w.dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("publish export: %w", err)
	}
	return path, nil
}

// Prune removes finished artifacts older than maxAge and returns how many
// were deleted. Temp files from in-flight writes are left alone.
func (w *CSVWriter) Prune(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(w.dir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
