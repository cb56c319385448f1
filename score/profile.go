package score

import (
	"strings"

	"github.com/maastricht-university/stt-benchmark/transcript"
)

// Profile is everything one speaker said, concatenated in transcript
// order. Derived from a Transcript, never constructed independently.
type Profile struct {
	Speaker string
	Tokens  []string
}

// Words is the profile length in tokens.
func (p Profile) Words() int { return len(p.Tokens) }

// Text joins the profile tokens back into a single string.
func (p Profile) Text() string { return strings.Join(p.Tokens, " ") }

// Profiles keeps speakers in first-appearance order so every downstream
// computation over the same transcript is deterministic.
type Profiles []Profile

// Words sums token counts across all profiles.
func (ps Profiles) Words() int {
	n := 0
	for _, p := range ps {
		n += p.Words()
	}
	return n
}

// BuildProfiles groups a transcript by speaker label. Labels are exact
// case-sensitive keys; no merging or fuzzy grouping happens here.
func BuildProfiles(t transcript.Transcript) Profiles {
	index := map[string]int{}
	var out Profiles
	for _, u := range t {
		i, ok := index[u.Speaker]
		if !ok {
			i = len(out)
			index[u.Speaker] = i
			out = append(out, Profile{Speaker: u.Speaker})
		}
		out[i].Tokens = append(out[i].Tokens, u.Tokens()...)
	}
	return out
}
