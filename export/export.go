// Package export turns evaluation results into flat records and writes
// them out as CSV or JSON for downstream aggregation.
package export

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
)

// Record is one evaluation's metrics as a flat key/value row.
type Record map[string]any

// Flatten folds nested maps into dot-separated keys so a record exports
// as a single CSV row.
func Flatten(in map[string]any) Record {
	out := Record{}
	flattenInto(out, "", in)
	return out
}

func flattenInto(out Record, prefix string, in map[string]any) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flattenInto(out, key, nested)
			continue
		}
		out[key] = v
	}
}

// Round copies the record with every float rounded to the given number
// of decimal places.
func Round(r Record, places int) Record {
	scale := math.Pow(10, float64(places))
	out := Record{}
	for k, v := range r {
		if f, ok := v.(float64); ok {
			out[k] = math.Round(f*scale) / scale
			continue
		}
		out[k] = v
	}
	return out
}

// Columns returns the union of keys across records, sorted for a stable
// header.
func Columns(records []Record) []string {
	set := map[string]bool{}
	for _, r := range records {
		for k := range r {
			set[k] = true
		}
	}
	cols := make([]string, 0, len(set))
	for k := range set {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(records []Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return fmt.Sprintf("%g", x)
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}
