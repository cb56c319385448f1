package benchmark

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/maastricht-university/stt-benchmark/export"
)

// RunBundle is the on-disk summary of one benchmark run.
type RunBundle struct {
	RunID       string          `json:"run_id"`
	Vendor      string          `json:"vendor"`
	GeneratedAt time.Time       `json:"generated_at"`
	Files       []string        `json:"files"`
	Results     []export.Record `json:"results"`
}

func mkRunDir(outputsRoot string) (string, string, error) {
	rid := "run_" + time.Now().Format("20060102-150405") + "_" + uuid.NewString()[:8]
	dir := filepath.Join(outputsRoot, rid)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	return rid, dir, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Persist writes a run directory containing the results bundle and a CSV
// of all rows, and returns the directory path.
func Persist(outputsRoot, vendor string, c *export.Collector) (string, error) {
	rid, dir, err := mkRunDir(outputsRoot)
	if err != nil {
		return "", err
	}
	records, files := c.Records()

	bundle := RunBundle{
		RunID:       rid,
		Vendor:      vendor,
		GeneratedAt: time.Now(),
		Files:       files,
		Results:     records,
	}
	if err := writeJSON(filepath.Join(dir, "results.json"), bundle); err != nil {
		return "", err
	}
	if err := export.WriteCSV(records, files, filepath.Join(dir, "results.csv"), false); err != nil {
		return "", err
	}
	return dir, nil
}
