package score

import (
	"errors"
	"strings"
	"testing"
)

func profiles(pairs ...string) Profiles {
	var out Profiles
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Profile{Speaker: pairs[i], Tokens: strings.Fields(pairs[i+1])})
	}
	return out
}

func TestScorePerfectTwoSpeakers(t *testing.T) {
	s := NewScorer(0)
	res, err := s.Score(
		profiles("A", "hello world", "B", "how are you"),
		profiles("X", "hello world", "Y", "how are you"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalErrors() != 0 {
		t.Errorf("total errors = %d, want 0", res.TotalErrors())
	}
	if res.ErrorRate != 0 {
		t.Errorf("rate = %v, want 0", res.ErrorRate)
	}
	if res.ScoredSpeakers != 2 || res.MissedSpeakers != 0 || res.FalseAlarmSpeakers != 0 {
		t.Errorf("speakers scored=%d missed=%d fa=%d, want 2/0/0",
			res.ScoredSpeakers, res.MissedSpeakers, res.FalseAlarmSpeakers)
	}
	got := map[string]string{}
	for _, p := range res.Assignment {
		got[p.Ref] = p.Hyp
	}
	if got["A"] != "X" || got["B"] != "Y" {
		t.Errorf("assignment %v, want A-X B-Y", got)
	}
	if res.Degenerate {
		t.Error("unexpected degenerate flag")
	}
}

func TestScoreMissedSpeaker(t *testing.T) {
	s := NewScorer(0)
	res, err := s.Score(profiles("A", "hello world"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.MissedSpeakers != 1 {
		t.Errorf("missed = %d, want 1", res.MissedSpeakers)
	}
	if res.Deletions != 2 || res.TotalErrors() != 2 {
		t.Errorf("deletions = %d, total errors = %d, want 2 and 2", res.Deletions, res.TotalErrors())
	}
	if res.ErrorRate != 1.0 {
		t.Errorf("rate = %v, want 1.0", res.ErrorRate)
	}
	if !res.Degenerate {
		t.Error("zero hypothesis speakers should flag the result degenerate")
	}
}

func TestScoreFalseAlarmDegenerate(t *testing.T) {
	s := NewScorer(0)
	res, err := s.Score(nil, profiles("X", "hello"))
	if err != nil {
		t.Fatal(err)
	}
	if res.FalseAlarmSpeakers != 1 {
		t.Errorf("false alarms = %d, want 1", res.FalseAlarmSpeakers)
	}
	if res.TotalRefWords != 0 {
		t.Errorf("total ref words = %d, want 0", res.TotalRefWords)
	}
	if res.Insertions != 1 {
		t.Errorf("insertions = %d, want 1", res.Insertions)
	}
	if !res.Degenerate {
		t.Error("expected degenerate flag")
	}
	if res.ErrorRate != 0 {
		t.Errorf("rate = %v, want 0 (not divided)", res.ErrorRate)
	}
}

func TestScoreSubstitutionsAcrossSpeakers(t *testing.T) {
	s := NewScorer(0)
	res, err := s.Score(
		profiles("A", "good morning everyone", "B", "thank you"),
		profiles("spk1", "good evening everyone", "spk2", "thank you"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if res.Substitutions != 1 || res.TotalErrors() != 1 {
		t.Errorf("S=%d total=%d, want 1 and 1", res.Substitutions, res.TotalErrors())
	}
	if res.TotalRefWords != 5 {
		t.Errorf("total ref words = %d, want 5", res.TotalRefWords)
	}
	if want := 1.0 / 5.0; res.ErrorRate != want {
		t.Errorf("rate = %v, want %v", res.ErrorRate, want)
	}
}

func TestScoreUnequalSpeakerCounts(t *testing.T) {
	// A short hypothesis speaker with a slightly cheaper matched
	// alignment must not win the pairing when it leaves a long speaker's
	// words as pure insertions.
	s := NewScorer(0)
	res, err := s.Score(
		profiles("A", "c d"),
		profiles("X", "e", "Y", "c a e a"),
	)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	for _, p := range res.Assignment {
		got[p.Ref] = p.Hyp
	}
	if got["A"] != "Y" {
		t.Errorf("A paired with %q, want Y", got["A"])
	}
	if res.TotalErrors() != 4 {
		t.Errorf("total errors = %d, want 4", res.TotalErrors())
	}
	if res.ErrorRate != 2.0 {
		t.Errorf("rate = %v, want 2.0", res.ErrorRate)
	}
	if res.Substitutions != 1 || res.Insertions != 3 || res.Deletions != 0 {
		t.Errorf("S=%d I=%d D=%d, want 1/3/0", res.Substitutions, res.Insertions, res.Deletions)
	}
	if res.FalseAlarmSpeakers != 1 {
		t.Errorf("false alarms = %d, want 1", res.FalseAlarmSpeakers)
	}
}

func TestScoreStrategyPolicy(t *testing.T) {
	t.Run("small input uses exact", func(t *testing.T) {
		s := NewScorer(20)
		res, err := s.Score(profiles("A", "a"), profiles("X", "a"))
		if err != nil {
			t.Fatal(err)
		}
		if res.Strategy != StrategyExact {
			t.Errorf("strategy = %q, want exact", res.Strategy)
		}
	})

	t.Run("above threshold uses greedy", func(t *testing.T) {
		s := NewScorer(1)
		res, err := s.Score(
			profiles("A", "a", "B", "b"),
			profiles("X", "a", "Y", "b"),
		)
		if err != nil {
			t.Fatal(err)
		}
		if res.Strategy != StrategyGreedy {
			t.Errorf("strategy = %q, want greedy", res.Strategy)
		}
	})
}

func TestScoreInvalidInput(t *testing.T) {
	s := NewScorer(0)
	_, err := s.Score(profiles("A", "x", "A", "y"), profiles("X", "x"))
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("duplicate speaker: got %v, want ErrInvalidInput", err)
	}

	_, err = s.Score(Profiles{{Speaker: "", Tokens: []string{"x"}}}, nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty label: got %v, want ErrInvalidInput", err)
	}
}

func TestScoreAllEmptyProfiles(t *testing.T) {
	s := NewScorer(0)
	res, err := s.Score(profiles("A", "", "B", ""), profiles("X", ""))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Degenerate {
		t.Error("all-empty profiles should flag degenerate")
	}
	if res.ErrorRate != 0 {
		t.Errorf("rate = %v, want 0", res.ErrorRate)
	}
}
