// Package transcript holds the transcript data model shared by every
// metric: an ordered list of speaker-attributed utterances, optionally
// timestamped. Utterances are values; transformations return new ones.
package transcript

import (
	"fmt"
	"strings"
)

type Utterance struct {
	Speaker string   `json:"speaker" yaml:"speaker"`
	Text    string   `json:"text" yaml:"text"`
	Start   *float64 `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	End     *float64 `json:"end_time,omitempty" yaml:"end_time,omitempty"`
}

// Tokens splits the utterance text on whitespace.
func (u Utterance) Tokens() []string { return strings.Fields(u.Text) }

// Timed reports whether both interval endpoints are set.
func (u Utterance) Timed() bool { return u.Start != nil && u.End != nil }

// WithSpeaker returns a copy relabeled to the given speaker.
func (u Utterance) WithSpeaker(speaker string) Utterance {
	u.Speaker = speaker
	return u
}

// Transcript is an ordered sequence of utterances. Insertion order is the
// only ordering invariant; nothing here sorts by time.
type Transcript []Utterance

// Speakers returns the distinct speaker labels in first-appearance order.
func (t Transcript) Speakers() []string {
	seen := map[string]bool{}
	var out []string
	for _, u := range t {
		if !seen[u.Speaker] {
			seen[u.Speaker] = true
			out = append(out, u.Speaker)
		}
	}
	return out
}

// TextBySpeaker concatenates everything one speaker said, in order.
func (t Transcript) TextBySpeaker(speaker string) string {
	var parts []string
	for _, u := range t {
		if u.Speaker == speaker {
			parts = append(parts, u.Text)
		}
	}
	return strings.Join(parts, " ")
}

// AllText concatenates every utterance in transcript order.
func (t Transcript) AllText() string {
	parts := make([]string, 0, len(t))
	for _, u := range t {
		parts = append(parts, u.Text)
	}
	return strings.Join(parts, " ")
}

// Words counts whitespace-separated tokens over the whole transcript.
func (t Transcript) Words() int {
	n := 0
	for _, u := range t {
		n += len(u.Tokens())
	}
	return n
}

// Timed reports whether every utterance carries a time interval.
func (t Transcript) Timed() bool {
	for _, u := range t {
		if !u.Timed() {
			return false
		}
	}
	return len(t) > 0
}

// Validate checks structural invariants: non-empty speaker labels and
// well-ordered intervals where present.
func (t Transcript) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("transcript is empty")
	}
	for i, u := range t {
		if u.Speaker == "" {
			return fmt.Errorf("utterance %d: missing speaker label", i)
		}
		if u.Start != nil && u.End != nil && *u.Start > *u.End {
			return fmt.Errorf("utterance %d: start_time %.3f after end_time %.3f", i, *u.Start, *u.End)
		}
	}
	return nil
}
