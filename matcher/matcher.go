// Package matcher aligns hypothesis speaker labels to reference speaker
// labels by text similarity. It is independent of edit-distance scoring:
// use it standalone to relabel a hypothesis before a plain WER pass, or
// as an alternative identity-alignment strategy.
package matcher

import (
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/stt-benchmark/transcript"
)

// DefaultThreshold is the minimum token-sort similarity (0-100) for two
// speakers to be considered the same.
const DefaultThreshold = 80.0

// Matcher pairs speakers whose concatenated text scores at or above the
// threshold under a token-order-insensitive similarity ratio.
type Matcher struct {
	threshold float64
	log       *logrus.Entry
}

// New returns a matcher with the given similarity threshold (<=0 selects
// the default of 80).
func New(threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{
		threshold: threshold,
		log:       logrus.WithField("component", "matcher"),
	}
}

// Match maps each hypothesis speaker label to its best reference
// counterpart. The highest-scoring pair overall is taken first, then the
// next among the remaining speakers, until no pair clears the threshold
// or one side is exhausted; each reference speaker is consumed at most
// once. Hypothesis speakers with no acceptable match keep their own
// label; they are never merged or dropped.
func (m *Matcher) Match(ref, hyp transcript.Transcript) map[string]string {
	refSpeakers := ref.Speakers()
	hypSpeakers := hyp.Speakers()

	refText := map[string]string{}
	for _, spk := range refSpeakers {
		refText[spk] = strings.ToLower(ref.TextBySpeaker(spk))
	}
	hypText := map[string]string{}
	for _, spk := range hypSpeakers {
		hypText[spk] = strings.ToLower(hyp.TextBySpeaker(spk))
	}

	type candidate struct {
		score    int
		hyp, ref string
	}
	var cands []candidate
	for _, h := range hypSpeakers {
		for _, r := range refSpeakers {
			score := fuzzy.TokenSortRatio(hypText[h], refText[r])
			if float64(score) >= m.threshold {
				cands = append(cands, candidate{score: score, hyp: h, ref: r})
			}
		}
	}
	// Best pair first; ties resolve by label so the result is stable.
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		if cands[i].hyp != cands[j].hyp {
			return cands[i].hyp < cands[j].hyp
		}
		return cands[i].ref < cands[j].ref
	})

	mapping := map[string]string{}
	refTaken := map[string]bool{}
	for _, c := range cands {
		if _, done := mapping[c.hyp]; done || refTaken[c.ref] {
			continue
		}
		mapping[c.hyp] = c.ref
		refTaken[c.ref] = true
		m.log.WithFields(logrus.Fields{
			"hyp": c.hyp, "ref": c.ref, "score": c.score,
		}).Debug("matched speakers")
	}
	for _, h := range hypSpeakers {
		if _, ok := mapping[h]; !ok {
			mapping[h] = h
		}
	}
	return mapping
}

// Apply relabels a transcript through the mapping, producing new
// utterances; the input is never mutated. Labels absent from the mapping
// pass through unchanged.
func Apply(t transcript.Transcript, mapping map[string]string) transcript.Transcript {
	out := make(transcript.Transcript, 0, len(t))
	for _, u := range t {
		if to, ok := mapping[u.Speaker]; ok {
			u = u.WithSpeaker(to)
		}
		out = append(out, u)
	}
	return out
}

// MatchAndAlign matches speakers and returns the hypothesis relabeled to
// reference speaker labels.
func (m *Matcher) MatchAndAlign(ref, hyp transcript.Transcript) transcript.Transcript {
	return Apply(hyp, m.Match(ref, hyp))
}
