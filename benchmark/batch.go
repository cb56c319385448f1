package benchmark

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/maastricht-university/stt-benchmark/export"
	"github.com/maastricht-university/stt-benchmark/transcript"
)

// RunBatch evaluates every reference file in refDir against the
// hypothesis file of the same name in hypDir and folds the results into
// a collector. Reference files with no hypothesis counterpart are an
// error; extra hypothesis files are ignored.
func (b *Benchmark) RunBatch(refDir, hypDir, vendor string, opts Options) (*export.Collector, error) {
	refFiles, err := listTranscripts(refDir)
	if err != nil {
		return nil, err
	}
	if len(refFiles) == 0 {
		return nil, fmt.Errorf("no transcript files in %s", refDir)
	}
	sort.Strings(refFiles)

	c := export.NewCollector()
	for _, name := range refFiles {
		hypPath := filepath.Join(hypDir, name)
		if _, err := os.Stat(hypPath); err != nil {
			return nil, fmt.Errorf("no hypothesis for %s: %w", name, err)
		}
		ref, err := transcript.Load(filepath.Join(refDir, name))
		if err != nil {
			return nil, fmt.Errorf("load reference %s: %w", name, err)
		}
		hyp, err := transcript.Load(hypPath)
		if err != nil {
			return nil, fmt.Errorf("load hypothesis %s: %w", name, err)
		}

		b.log.WithField("file", name).Info("evaluating")
		results, err := b.Evaluate(ref, hyp, opts)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", name, err)
		}
		c.Add(vendor, name, export.Round(export.Flatten(results), 4))
	}
	return c, nil
}

func listTranscripts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".json", ".yaml", ".yml", ".csv", ".txt", ".srt":
			out = append(out, e.Name())
		}
	}
	return out, nil
}
