// Package metrics implements the whole-transcript evaluation metrics
// that sit beside the permutation-invariant core: plain word error rate
// with its companion measures, and the time-interval diarization error
// rate with a timestamp-free fallback.
package metrics

import (
	"strings"

	"github.com/maastricht-university/stt-benchmark/score"
	"github.com/maastricht-university/stt-benchmark/transcript"
)

// WERReport carries word error rate and companion measures over the full
// concatenated transcripts, ignoring speaker attribution entirely.
type WERReport struct {
	WER float64 `json:"wer"`
	// MER is the match error rate: errors over all alignment slots.
	MER float64 `json:"mer"`
	// WIL is word information lost, WIP word information preserved.
	WIL float64 `json:"wil"`
	WIP float64 `json:"wip"`

	Hits          int `json:"hits"`
	Substitutions int `json:"substitutions"`
	Deletions     int `json:"deletions"`
	Insertions    int `json:"insertions"`

	RefSpeakers         int  `json:"ref_num_speakers"`
	HypSpeakers         int  `json:"hyp_num_speakers"`
	SpeakerCountCorrect bool `json:"speaker_count_correct"`
}

// WER aligns the full reference text against the full hypothesis text and
// derives the standard measures from the alignment counts.
func WER(ref, hyp transcript.Transcript) WERReport {
	c := score.EditDistance(strings.Fields(ref.AllText()), strings.Fields(hyp.AllText()))

	h := float64(c.Hits)
	s := float64(c.Substitutions)
	d := float64(c.Deletions)
	i := float64(c.Insertions)

	rep := WERReport{
		Hits:          c.Hits,
		Substitutions: c.Substitutions,
		Deletions:     c.Deletions,
		Insertions:    c.Insertions,
		RefSpeakers:   len(ref.Speakers()),
		HypSpeakers:   len(hyp.Speakers()),
	}
	rep.SpeakerCountCorrect = rep.RefSpeakers == rep.HypSpeakers

	if refLen := h + s + d; refLen > 0 {
		rep.WER = (s + d + i) / refLen
	}
	if slots := h + s + d + i; slots > 0 {
		rep.MER = (s + d + i) / slots
	}
	refLen := h + s + d
	hypLen := h + s + i
	if refLen > 0 && hypLen > 0 {
		rep.WIP = (h / refLen) * (h / hypLen)
	}
	rep.WIL = 1 - rep.WIP
	return rep
}
