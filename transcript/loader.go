package transcript

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// CSVColumns names the columns a CSV transcript uses. Zero values fall
// back to the conventional names; the time columns are optional.
type CSVColumns struct {
	Speaker string
	Text    string
	Start   string
	End     string
}

func (c CSVColumns) withDefaults() CSVColumns {
	if c.Speaker == "" {
		c.Speaker = "speaker"
	}
	if c.Text == "" {
		c.Text = "text"
	}
	return c
}

// Load reads a transcript, picking the parser from the file extension
// (.json, .yaml/.yml, .csv, .txt, .srt).
func Load(path string) (Transcript, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".csv":
		return LoadCSV(path, CSVColumns{})
	case ".txt":
		return LoadText(path, "Speaker")
	case ".srt":
		return LoadSRT(path)
	default:
		return nil, fmt.Errorf("unsupported transcript format: %s", filepath.Ext(path))
	}
}

// LoadJSON reads a JSON array of utterance objects.
func LoadJSON(path string) (Transcript, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Transcript
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, nil
}

// LoadYAML reads a YAML list of utterance objects.
func LoadYAML(path string) (Transcript, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Transcript
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, nil
}

// LoadCSV reads a headered CSV file using the given column names.
func LoadCSV(path string, cols CSVColumns) (Transcript, error) {
	cols = cols.withDefaults()
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty csv", path)
	}

	idx := map[string]int{}
	for i, name := range rows[0] {
		idx[name] = i
	}
	si, ok := idx[cols.Speaker]
	if !ok {
		return nil, fmt.Errorf("%s: missing column %q", path, cols.Speaker)
	}
	ti, ok := idx[cols.Text]
	if !ok {
		return nil, fmt.Errorf("%s: missing column %q", path, cols.Text)
	}

	var t Transcript
	for _, row := range rows[1:] {
		u := Utterance{Speaker: row[si], Text: row[ti]}
		if i, ok := idx[cols.Start]; ok && cols.Start != "" && row[i] != "" {
			v, err := strconv.ParseFloat(row[i], 64)
			if err != nil {
				return nil, fmt.Errorf("%s: bad %s value %q", path, cols.Start, row[i])
			}
			u.Start = &v
		}
		if i, ok := idx[cols.End]; ok && cols.End != "" && row[i] != "" {
			v, err := strconv.ParseFloat(row[i], 64)
			if err != nil {
				return nil, fmt.Errorf("%s: bad %s value %q", path, cols.End, row[i])
			}
			u.End = &v
		}
		t = append(t, u)
	}
	return t, nil
}

// LoadText reads "Speaker: text" lines; lines without a colon get a
// generated label from defaultSpeaker and the line number.
func LoadText(path, defaultSpeaker string) (Transcript, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Transcript
	for n, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if spk, text, found := strings.Cut(line, ":"); found {
			t = append(t, Utterance{Speaker: strings.TrimSpace(spk), Text: strings.TrimSpace(text)})
		} else {
			t = append(t, Utterance{Speaker: fmt.Sprintf("%s_%d", defaultSpeaker, n+1), Text: line})
		}
	}
	return t, nil
}

// LoadSRT reads an SRT subtitle file. SRT carries no speaker labels, so
// every cue is attributed to "Speaker".
func LoadSRT(path string) (Transcript, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Transcript
	blocks := strings.Split(strings.ReplaceAll(strings.TrimSpace(string(b)), "\r\n", "\n"), "\n\n")
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 3 || !strings.Contains(lines[1], "-->") {
			continue
		}
		startStr, endStr, _ := strings.Cut(lines[1], "-->")
		start, err := parseSRTTimestamp(strings.TrimSpace(startStr))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		end, err := parseSRTTimestamp(strings.TrimSpace(endStr))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		t = append(t, Utterance{
			Speaker: "Speaker",
			Text:    strings.Join(lines[2:], " "),
			Start:   &start,
			End:     &end,
		})
	}
	return t, nil
}

// parseSRTTimestamp converts "HH:MM:SS,mmm" to seconds.
func parseSRTTimestamp(ts string) (float64, error) {
	timePart, msPart, found := strings.Cut(ts, ",")
	if !found {
		return 0, fmt.Errorf("bad srt timestamp %q", ts)
	}
	parts := strings.Split(timePart, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("bad srt timestamp %q", ts)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	s, err3 := strconv.Atoi(parts[2])
	ms, err4 := strconv.Atoi(msPart)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return 0, fmt.Errorf("bad srt timestamp %q", ts)
	}
	return float64(h)*3600 + float64(m)*60 + float64(s) + float64(ms)/1000, nil
}
