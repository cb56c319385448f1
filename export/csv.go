package export

import (
	"encoding/csv"
	"fmt"
	"os"
)

// WriteCSV writes one row per record with a leading "file" identifier
// column and a sorted union of metric columns. With appendMode set, rows
// are added to an existing file and the header is only written when the
// file did not exist yet.
func WriteCSV(records []Record, fileIDs []string, path string, appendMode bool) error {
	if len(fileIDs) != len(records) {
		return fmt.Errorf("have %d file identifiers for %d records", len(fileIDs), len(records))
	}
	cols := Columns(records)

	flags := os.O_CREATE | os.O_WRONLY
	writeHeader := true
	if appendMode {
		flags |= os.O_APPEND
		if _, err := os.Stat(path); err == nil {
			writeHeader = false
		}
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(append([]string{"file"}, cols...)); err != nil {
			return err
		}
	}
	for i, rec := range records {
		row := make([]string, 0, len(cols)+1)
		row = append(row, fileIDs[i])
		for _, c := range cols {
			row = append(row, formatValue(rec[c]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
