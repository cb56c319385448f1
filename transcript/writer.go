package transcript

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// WriteJSON writes the transcript as an indented JSON array.
func WriteJSON(t Transcript, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// WriteCSV writes speaker/text columns, plus the time columns when
// includeTimes is set.
func WriteCSV(t Transcript, path string, includeTimes bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"speaker", "text"}
	if includeTimes {
		header = append(header, "start_time", "end_time")
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, u := range t {
		row := []string{u.Speaker, u.Text}
		if includeTimes {
			row = append(row, formatTime(u.Start), formatTime(u.End))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteText writes "Speaker: text" lines, or bare text lines when
// includeSpeaker is false.
func WriteText(t Transcript, path string, includeSpeaker bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, u := range t {
		var line string
		if includeSpeaker {
			line = fmt.Sprintf("%s: %s\n", u.Speaker, u.Text)
		} else {
			line = u.Text + "\n"
		}
		if _, err := f.WriteString(line); err != nil {
			return err
		}
	}
	return nil
}

func formatTime(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
