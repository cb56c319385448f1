package score

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/stt-benchmark/transcript"
)

// Error kinds surfaced by the scorer. Oversized inputs are not an
// error: the strategy policy reroutes them to the greedy path before
// the exact solver runs.
var (
	// ErrInvalidInput marks malformed profile data; not retried.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSolverFailed means both the exact and greedy strategies failed,
	// which implies malformed upstream data. Never swallowed.
	ErrSolverFailed = errors.New("assignment solver failed")
)

// DefaultExactMaxSpeakers is the per-side speaker count above which the
// exact solver is skipped in favor of the greedy approximation.
const DefaultExactMaxSpeakers = 20

// Strategy identifies which assignment path produced a result.
type Strategy string

const (
	StrategyExact  Strategy = "exact"
	StrategyGreedy Strategy = "greedy"
)

// Result is the permutation-invariant score aggregate. Immutable once
// returned; exporters treat it as a flat record.
type Result struct {
	Hits          int `json:"cp_hits"`
	Substitutions int `json:"cp_substitutions"`
	Deletions     int `json:"cp_deletions"`
	Insertions    int `json:"cp_insertions"`

	// TotalRefWords sums matched plus missed reference speakers.
	TotalRefWords int     `json:"total_reference_words"`
	ErrorRate     float64 `json:"cp_wer"`

	RefSpeakers        int `json:"ref_num_speakers"`
	HypSpeakers        int `json:"hyp_num_speakers"`
	ScoredSpeakers     int `json:"scored_speakers"`
	MissedSpeakers     int `json:"missed_speakers"`
	FalseAlarmSpeakers int `json:"false_alarm_speakers"`

	// Degenerate flags a result whose rate is not meaningful (no
	// reference words or no speakers on one side); downstream
	// aggregation must not average it in.
	Degenerate bool `json:"degenerate"`

	Strategy   Strategy   `json:"strategy"`
	Assignment Assignment `json:"assignment"`
}

// TotalErrors is substitutions plus deletions plus insertions.
func (r *Result) TotalErrors() int { return r.Substitutions + r.Deletions + r.Insertions }

// Scorer computes CP-WER over the optimal (or greedily approximated)
// speaker correspondence. The zero value is not usable; use NewScorer.
type Scorer struct {
	exactMax int
	log      *logrus.Entry
}

// NewScorer returns a scorer that switches to the greedy strategy once
// either side exceeds exactMaxSpeakers (<=0 selects the default of 20).
func NewScorer(exactMaxSpeakers int) *Scorer {
	if exactMaxSpeakers <= 0 {
		exactMaxSpeakers = DefaultExactMaxSpeakers
	}
	return &Scorer{
		exactMax: exactMaxSpeakers,
		log:      logrus.WithField("component", "score"),
	}
}

// ScoreTranscripts builds profiles from both transcripts and scores them.
// Inputs must already be normalized; no text processing happens here.
func (s *Scorer) ScoreTranscripts(ref, hyp transcript.Transcript) (*Result, error) {
	return s.Score(BuildProfiles(ref), BuildProfiles(hyp))
}

// Score finds the speaker correspondence minimizing total word errors and
// aggregates the permutation-invariant error rate over it. Zero-speaker
// or all-empty inputs return a degenerate result, never an error; a
// failure on the exact path falls back to greedy before giving up.
func (s *Scorer) Score(ref, hyp Profiles) (*Result, error) {
	if err := validateProfiles(ref); err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	if err := validateProfiles(hyp); err != nil {
		return nil, fmt.Errorf("hypothesis: %w", err)
	}

	m := NewCostMatrix(ref, hyp)

	strategy := StrategyExact
	if len(ref) > s.exactMax || len(hyp) > s.exactMax {
		// Policy decision, not a caught failure: the exact solver is
		// polynomial but its footprint is unattractive at this size.
		strategy = StrategyGreedy
		s.log.WithFields(logrus.Fields{
			"ref_speakers": len(ref),
			"hyp_speakers": len(hyp),
			"max":          s.exactMax,
		}).Debug("speaker count above exact-solver bound, using greedy strategy")
	}

	a, err := s.solve(m, strategy)
	if err != nil {
		return nil, err
	}
	return s.aggregate(m, a, strategy), nil
}

// solve runs the selected strategy, keeping greedy as a safety net for a
// genuine exact-path failure.
func (s *Scorer) solve(m *CostMatrix, strategy Strategy) (a Assignment, err error) {
	if strategy == StrategyExact {
		a, err = s.runExact(m)
		if err == nil {
			return a, nil
		}
		s.log.WithError(err).Warn("exact assignment failed, falling back to greedy")
	}
	defer func() {
		if r := recover(); r != nil {
			a, err = nil, fmt.Errorf("%w: greedy strategy panicked: %v", ErrSolverFailed, r)
		}
	}()
	return GreedyAssignment(m), nil
}

// runExact converts a solver panic on a malformed matrix into an error so
// the caller can fall back instead of crashing.
func (s *Scorer) runExact(m *CostMatrix) (a Assignment, err error) {
	defer func() {
		if r := recover(); r != nil {
			a, err = nil, fmt.Errorf("exact strategy panicked: %v", r)
		}
	}()
	return ExactAssignment(m), nil
}

func (s *Scorer) aggregate(m *CostMatrix, a Assignment, strategy Strategy) *Result {
	refIdx := map[string]int{}
	for i, p := range m.Ref {
		refIdx[p.Speaker] = i
	}
	hypIdx := map[string]int{}
	for i, p := range m.Hyp {
		hypIdx[p.Speaker] = i
	}

	res := &Result{
		RefSpeakers: len(m.Ref),
		HypSpeakers: len(m.Hyp),
		Strategy:    strategy,
		Assignment:  a,
	}
	for _, pair := range a {
		switch {
		case pair.Ref != "" && pair.Hyp != "":
			c := m.Cells[refIdx[pair.Ref]][hypIdx[pair.Hyp]]
			res.Hits += c.Hits
			res.Substitutions += c.Substitutions
			res.Deletions += c.Deletions
			res.Insertions += c.Insertions
			res.TotalRefWords += m.Ref[refIdx[pair.Ref]].Words()
			res.ScoredSpeakers++
		case pair.Ref != "":
			// Missed speaker: every reference word becomes a deletion.
			res.Deletions += m.Ref[refIdx[pair.Ref]].Words()
			res.TotalRefWords += m.Ref[refIdx[pair.Ref]].Words()
			res.MissedSpeakers++
		default:
			// False alarm: every hypothesis word becomes an insertion.
			res.Insertions += m.Hyp[hypIdx[pair.Hyp]].Words()
			res.FalseAlarmSpeakers++
		}
	}

	if res.TotalRefWords > 0 {
		res.ErrorRate = float64(res.TotalErrors()) / float64(res.TotalRefWords)
	} else {
		res.Degenerate = true
	}
	if len(m.Ref) == 0 || len(m.Hyp) == 0 {
		res.Degenerate = true
	}
	return res
}

func validateProfiles(ps Profiles) error {
	seen := map[string]bool{}
	for _, p := range ps {
		if p.Speaker == "" {
			return fmt.Errorf("%w: profile with empty speaker label", ErrInvalidInput)
		}
		if seen[p.Speaker] {
			return fmt.Errorf("%w: duplicate speaker label %q", ErrInvalidInput, p.Speaker)
		}
		seen[p.Speaker] = true
	}
	return nil
}
