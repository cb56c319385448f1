package export

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
)

type collected struct {
	vendor string
	fileID string
	rec    Record
}

// Collector accumulates per-file results across a batch run. It is an
// explicit object the caller folds into; there is no process-wide state.
type Collector struct {
	rows []collected
}

func NewCollector() *Collector { return &Collector{} }

// Add records one file's results under a vendor name.
func (c *Collector) Add(vendor, fileID string, rec Record) {
	c.rows = append(c.rows, collected{vendor: vendor, fileID: fileID, rec: rec})
}

// Len is the number of collected results.
func (c *Collector) Len() int { return len(c.rows) }

// Records returns the collected records and matching file identifiers in
// insertion order, for WriteCSV/WriteJSON.
func (c *Collector) Records() ([]Record, []string) {
	recs := make([]Record, 0, len(c.rows))
	ids := make([]string, 0, len(c.rows))
	for _, r := range c.rows {
		recs = append(recs, r.rec)
		ids = append(ids, r.fileID)
	}
	return recs, ids
}

type vendorStats struct {
	weightedWER   float64
	weightedCPWER float64
	words         float64
	files         int
	degenerate    int
}

// Summary prints a per-vendor table of word-count-weighted mean error
// rates. Degenerate rows contribute their file count but never their
// rates.
func (c *Collector) Summary(w io.Writer) error {
	stats := map[string]*vendorStats{}
	for _, row := range c.rows {
		s, ok := stats[row.vendor]
		if !ok {
			s = &vendorStats{}
			stats[row.vendor] = s
		}
		s.files++
		if deg, _ := row.rec["degenerate"].(bool); deg {
			s.degenerate++
			continue
		}
		words, _ := toFloat(row.rec["total_reference_words"])
		if words <= 0 {
			continue
		}
		if wer, ok := toFloat(row.rec["wer"]); ok {
			s.weightedWER += wer * words
		}
		if cp, ok := toFloat(row.rec["cp_wer"]); ok {
			s.weightedCPWER += cp * words
		}
		s.words += words
	}

	vendors := make([]string, 0, len(stats))
	for v := range stats {
		vendors = append(vendors, v)
	}
	sort.Strings(vendors)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Vendor\tFiles\tRef Words\tWER\tCP-WER\tDegenerate")
	for _, v := range vendors {
		s := stats[v]
		wer, cp := "-", "-"
		if s.words > 0 {
			wer = fmt.Sprintf("%.4f", s.weightedWER/s.words)
			cp = fmt.Sprintf("%.4f", s.weightedCPWER/s.words)
		}
		fmt.Fprintf(tw, "%s\t%d\t%.0f\t%s\t%s\t%d\n", v, s.files, s.words, wer, cp, s.degenerate)
	}
	return tw.Flush()
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}
