package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maastricht-university/stt-benchmark/score"
	"github.com/maastricht-university/stt-benchmark/transcript"
)

// DERReport breaks diarization error down into its component times, all
// in seconds, plus the derived rate over total reference speech time.
type DERReport struct {
	DER             float64 `json:"der"`
	MissedDetection float64 `json:"missed_detection"`
	FalseAlarm      float64 `json:"false_alarm"`
	Confusion       float64 `json:"confusion"`
	Total           float64 `json:"total"`

	RefSpeakers         int  `json:"ref_num_speakers"`
	HypSpeakers         int  `json:"hyp_num_speakers"`
	SpeakerCountCorrect bool `json:"speaker_count_correct"`
}

type interval struct{ start, end float64 }

func (iv interval) dur() float64 { return iv.end - iv.start }

// DER computes diarization error rate from timestamped transcripts:
// missed detection (reference speech no hypothesis covers), false alarm
// (hypothesis speech outside any reference speech) and speaker confusion
// (covered speech attributed to the wrong speaker under the optimal
// label mapping). Every utterance on both sides must carry timestamps.
func DER(ref, hyp transcript.Transcript) (*DERReport, error) {
	if !ref.Timed() {
		return nil, fmt.Errorf("reference transcript must have timestamps for DER")
	}
	if !hyp.Timed() {
		return nil, fmt.Errorf("hypothesis transcript must have timestamps for DER")
	}

	refBySpk := intervalsBySpeaker(ref)
	hypBySpk := intervalsBySpeaker(hyp)
	refSpeakers := ref.Speakers()
	hypSpeakers := hyp.Speakers()

	total := 0.0
	for _, ivs := range refBySpk {
		for _, iv := range ivs {
			total += iv.dur()
		}
	}
	totalHyp := 0.0
	for _, ivs := range hypBySpk {
		for _, iv := range ivs {
			totalHyp += iv.dur()
		}
	}

	// Optimal speaker mapping maximizes same-speaker overlap time: solve
	// a square assignment over negated pairwise overlaps.
	n := len(refSpeakers)
	if len(hypSpeakers) > n {
		n = len(hypSpeakers)
	}
	correct := 0.0
	if n > 0 {
		cost := make([][]float64, n)
		for r := 0; r < n; r++ {
			cost[r] = make([]float64, n)
			for h := 0; h < n; h++ {
				if r < len(refSpeakers) && h < len(hypSpeakers) {
					cost[r][h] = -pairOverlap(refBySpk[refSpeakers[r]], hypBySpk[hypSpeakers[h]])
				}
			}
		}
		match := score.SolveAssignment(cost)
		for r := 0; r < len(refSpeakers); r++ {
			if h := match[r]; h < len(hypSpeakers) {
				correct += pairOverlap(refBySpk[refSpeakers[r]], hypBySpk[hypSpeakers[h]])
			}
		}
	}

	hypUnion := mergeIntervals(allIntervals(hypBySpk))
	refUnion := mergeIntervals(allIntervals(refBySpk))

	covered := 0.0
	for _, ivs := range refBySpk {
		for _, iv := range ivs {
			covered += coveredBy(iv, hypUnion)
		}
	}
	hypCovered := 0.0
	for _, ivs := range hypBySpk {
		for _, iv := range ivs {
			hypCovered += coveredBy(iv, refUnion)
		}
	}

	rep := &DERReport{
		MissedDetection: clampNonNeg(total - covered),
		FalseAlarm:      clampNonNeg(totalHyp - hypCovered),
		Confusion:       clampNonNeg(covered - correct),
		Total:           total,
		RefSpeakers:     len(refSpeakers),
		HypSpeakers:     len(hypSpeakers),
	}
	rep.SpeakerCountCorrect = rep.RefSpeakers == rep.HypSpeakers
	if total > 0 {
		rep.DER = (rep.MissedDetection + rep.FalseAlarm + rep.Confusion) / total
	}
	return rep, nil
}

// AttributionReport is the timestamp-free fallback: a word-level speaker
// attribution error rate over positionally aligned words.
type AttributionReport struct {
	SpeakerErrorRate float64 `json:"speaker_error_rate"`
	SpeakerErrors    int     `json:"speaker_errors"`
	TotalWords       int     `json:"total_words"`

	RefSpeakers         int  `json:"ref_num_speakers"`
	HypSpeakers         int  `json:"hyp_num_speakers"`
	SpeakerCountCorrect bool `json:"speaker_count_correct"`
}

// SpeakerAttribution compares speaker labels word by word where the words
// themselves match, a rough diarization signal for untimestamped data.
func SpeakerAttribution(ref, hyp transcript.Transcript) *AttributionReport {
	type attributed struct{ word, speaker string }
	var refWords, hypWords []attributed
	for _, u := range ref {
		for _, w := range u.Tokens() {
			refWords = append(refWords, attributed{w, u.Speaker})
		}
	}
	for _, u := range hyp {
		for _, w := range u.Tokens() {
			hypWords = append(hypWords, attributed{w, u.Speaker})
		}
	}

	n := len(refWords)
	if len(hypWords) < n {
		n = len(hypWords)
	}
	errors := 0
	for i := 0; i < n; i++ {
		if strings.EqualFold(refWords[i].word, hypWords[i].word) && refWords[i].speaker != hypWords[i].speaker {
			errors++
		}
	}

	rep := &AttributionReport{
		SpeakerErrors: errors,
		TotalWords:    len(refWords),
		RefSpeakers:   len(ref.Speakers()),
		HypSpeakers:   len(hyp.Speakers()),
	}
	rep.SpeakerCountCorrect = rep.RefSpeakers == rep.HypSpeakers
	if rep.TotalWords > 0 {
		rep.SpeakerErrorRate = float64(errors) / float64(rep.TotalWords)
	}
	return rep
}

func intervalsBySpeaker(t transcript.Transcript) map[string][]interval {
	out := map[string][]interval{}
	for _, u := range t {
		out[u.Speaker] = append(out[u.Speaker], interval{*u.Start, *u.End})
	}
	return out
}

func allIntervals(m map[string][]interval) []interval {
	var out []interval
	for _, ivs := range m {
		out = append(out, ivs...)
	}
	return out
}

// mergeIntervals collapses a set of intervals into a sorted disjoint
// union.
func mergeIntervals(ivs []interval) []interval {
	if len(ivs) == 0 {
		return nil
	}
	sorted := make([]interval, len(ivs))
	copy(sorted, ivs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	out := []interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &out[len(out)-1]
		if iv.start <= last.end {
			if iv.end > last.end {
				last.end = iv.end
			}
		} else {
			out = append(out, iv)
		}
	}
	return out
}

// coveredBy measures how much of iv lies inside the disjoint union.
func coveredBy(iv interval, union []interval) float64 {
	covered := 0.0
	for _, u := range union {
		lo, hi := iv.start, iv.end
		if u.start > lo {
			lo = u.start
		}
		if u.end < hi {
			hi = u.end
		}
		if hi > lo {
			covered += hi - lo
		}
	}
	return covered
}

// pairOverlap sums pairwise intersection time between two segment sets.
func pairOverlap(a, b []interval) float64 {
	total := 0.0
	for _, x := range a {
		for _, y := range b {
			lo, hi := x.start, x.end
			if y.start > lo {
				lo = y.start
			}
			if y.end < hi {
				hi = y.end
			}
			if hi > lo {
				total += hi - lo
			}
		}
	}
	return total
}

func clampNonNeg(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
