package matcher

import (
	"reflect"
	"testing"

	"github.com/maastricht-university/stt-benchmark/transcript"
)

func TestMatchIdenticalText(t *testing.T) {
	ref := transcript.Transcript{{Speaker: "Alice", Text: "the quick brown fox"}}
	hyp := transcript.Transcript{{Speaker: "spk_0", Text: "the quick brown fox"}}

	got := New(80).Match(ref, hyp)
	if got["spk_0"] != "Alice" {
		t.Errorf(`mapping = %v, want spk_0 -> Alice`, got)
	}
}

func TestMatchUnattainableThreshold(t *testing.T) {
	ref := transcript.Transcript{{Speaker: "Alice", Text: "the quick brown fox"}}
	hyp := transcript.Transcript{{Speaker: "spk_0", Text: "the quick brown fox"}}

	got := New(101).Match(ref, hyp)
	if got["spk_0"] != "spk_0" {
		t.Errorf(`mapping = %v, want spk_0 unchanged`, got)
	}
}

func TestMatchTwoSpeakers(t *testing.T) {
	ref := transcript.Transcript{
		{Speaker: "Alice", Text: "the quick brown fox jumps over the lazy dog"},
		{Speaker: "Bob", Text: "completely different words about the weather today"},
	}
	hyp := transcript.Transcript{
		{Speaker: "spk_1", Text: "completely different words about the weather today"},
		{Speaker: "spk_0", Text: "the quick brown fox jumps over the lazy dog"},
	}

	got := New(80).Match(ref, hyp)
	want := map[string]string{"spk_0": "Alice", "spk_1": "Bob"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mapping = %v, want %v", got, want)
	}
}

func TestMatchReferenceConsumedOnce(t *testing.T) {
	ref := transcript.Transcript{{Speaker: "Alice", Text: "hello there everyone"}}
	hyp := transcript.Transcript{
		{Speaker: "spk_0", Text: "hello there everyone"},
		{Speaker: "spk_1", Text: "hello there everyone"},
	}

	got := New(80).Match(ref, hyp)
	matched := 0
	for _, to := range got {
		if to == "Alice" {
			matched++
		}
	}
	if matched != 1 {
		t.Errorf("Alice matched %d times, want exactly once: %v", matched, got)
	}
}

func TestMatchOrderInsensitive(t *testing.T) {
	// Same words in a different order still clear the threshold.
	ref := transcript.Transcript{{Speaker: "Alice", Text: "brown fox the quick"}}
	hyp := transcript.Transcript{{Speaker: "spk_0", Text: "the quick brown fox"}}

	got := New(80).Match(ref, hyp)
	if got["spk_0"] != "Alice" {
		t.Errorf("mapping = %v, want spk_0 -> Alice despite word order", got)
	}
}

func TestApplyReturnsNewTranscript(t *testing.T) {
	start := 1.5
	hyp := transcript.Transcript{{Speaker: "spk_0", Text: "hello", Start: &start}}
	out := Apply(hyp, map[string]string{"spk_0": "Alice"})

	if hyp[0].Speaker != "spk_0" {
		t.Error("input transcript was mutated")
	}
	if out[0].Speaker != "Alice" || out[0].Text != "hello" {
		t.Errorf("got %+v, want relabeled copy", out[0])
	}
	if out[0].Start == nil || *out[0].Start != 1.5 {
		t.Error("timestamps must survive relabeling")
	}
}

func TestApplyIdentityIdempotent(t *testing.T) {
	tr := transcript.Transcript{
		{Speaker: "A", Text: "hello world"},
		{Speaker: "B", Text: "how are you"},
	}
	identity := map[string]string{"A": "A", "B": "B"}

	once := Apply(tr, identity)
	twice := Apply(once, identity)
	for i := range tr {
		if twice[i].Text != tr[i].Text || twice[i].Speaker != tr[i].Speaker {
			t.Errorf("utterance %d changed under identity mapping: %+v vs %+v", i, twice[i], tr[i])
		}
	}
}
