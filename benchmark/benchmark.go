// Package benchmark wires the evaluation pipeline together: optional
// normalization, optional fuzzy speaker alignment, then the requested
// metrics over one reference/hypothesis transcript pair.
package benchmark

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/stt-benchmark/config"
	"github.com/maastricht-university/stt-benchmark/matcher"
	"github.com/maastricht-university/stt-benchmark/metrics"
	"github.com/maastricht-university/stt-benchmark/normalize"
	"github.com/maastricht-university/stt-benchmark/score"
	"github.com/maastricht-university/stt-benchmark/transcript"
)

// Options selects which metric families one evaluation computes.
type Options struct {
	WER   bool
	CPWER bool
	DER   bool
}

// AllMetrics enables every metric family.
func AllMetrics() Options { return Options{WER: true, CPWER: true, DER: true} }

type Benchmark struct {
	cfg        *config.Root
	normalizer normalize.Normalizer
	matcher    *matcher.Matcher
	scorer     *score.Scorer
	log        *logrus.Entry
}

// New builds a benchmark from configuration; normalization and speaker
// matching follow their config toggles.
func New(cfg *config.Root) *Benchmark {
	b := &Benchmark{
		cfg:    cfg,
		scorer: score.NewScorer(cfg.Solver.ExactMaxSpeakers),
		log:    logrus.WithField("component", "benchmark"),
	}
	if cfg.Normalize.Enabled {
		b.normalizer = normalize.NewEnglish()
	}
	if cfg.Matching.Enabled {
		b.matcher = matcher.New(cfg.Matching.Threshold)
	}
	return b
}

// Evaluate scores one hypothesis transcript against its reference and
// returns all requested metrics as one flat record.
func (b *Benchmark) Evaluate(ref, hyp transcript.Transcript, opts Options) (map[string]any, error) {
	if err := ref.Validate(); err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	if err := hyp.Validate(); err != nil {
		return nil, fmt.Errorf("hypothesis: %w", err)
	}

	if b.normalizer != nil {
		ref = normalize.NormalizeTranscript(b.normalizer, ref)
		hyp = normalize.NormalizeTranscript(b.normalizer, hyp)
	}
	if b.matcher != nil {
		hyp = b.matcher.MatchAndAlign(ref, hyp)
	}

	results := map[string]any{}

	if opts.WER {
		merge(results, metrics.WER(ref, hyp))
	}
	if opts.CPWER {
		res, err := b.scorer.ScoreTranscripts(ref, hyp)
		if err != nil {
			return nil, fmt.Errorf("cp-wer: %w", err)
		}
		merge(results, res)
		results["total_errors"] = res.TotalErrors()
		// The assignment is for inspection, not for flat export.
		delete(results, "assignment")
	}
	if opts.DER {
		if ref.Timed() && hyp.Timed() {
			rep, err := metrics.DER(ref, hyp)
			if err != nil {
				return nil, fmt.Errorf("der: %w", err)
			}
			merge(results, rep)
		} else {
			// No timestamps: fall back to the word-level attribution metric.
			b.log.Debug("timestamps unavailable, using speaker attribution fallback")
			merge(results, metrics.SpeakerAttribution(ref, hyp))
		}
	}
	return results, nil
}

// EvaluateWEROnly computes only the plain WER measures.
func (b *Benchmark) EvaluateWEROnly(ref, hyp transcript.Transcript) (map[string]any, error) {
	return b.Evaluate(ref, hyp, Options{WER: true})
}

// EvaluateDiarizationOnly computes only the speaker-sensitive metrics.
func (b *Benchmark) EvaluateDiarizationOnly(ref, hyp transcript.Transcript) (map[string]any, error) {
	return b.Evaluate(ref, hyp, Options{CPWER: true, DER: true})
}

// SpeakerMapping returns the fuzzy hypothesis-to-reference speaker label
// mapping without computing any metric.
func (b *Benchmark) SpeakerMapping(ref, hyp transcript.Transcript) (map[string]string, error) {
	if b.matcher == nil {
		return nil, fmt.Errorf("speaker matching is disabled in configuration")
	}
	if b.normalizer != nil {
		ref = normalize.NormalizeTranscript(b.normalizer, ref)
		hyp = normalize.NormalizeTranscript(b.normalizer, hyp)
	}
	return b.matcher.Match(ref, hyp), nil
}

// Score exposes the permutation-invariant core directly for callers that
// already hold profiles.
func (b *Benchmark) Score(ref, hyp score.Profiles) (*score.Result, error) {
	return b.scorer.Score(ref, hyp)
}

// merge flattens a report struct into the record through its JSON tags.
func merge(into map[string]any, report any) {
	b, err := json.Marshal(report)
	if err != nil {
		return
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return
	}
	for k, v := range m {
		into[k] = v
	}
}
