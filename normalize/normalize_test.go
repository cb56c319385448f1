package normalize

import (
	"testing"

	"github.com/maastricht-university/stt-benchmark/transcript"
)

func TestNormalizeText(t *testing.T) {
	n := NewEnglish()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase and punctuation", "Hello, World!", "hello world"},
		{"contraction", "I'm fine, don't worry.", "i am fine do not worry"},
		{"numbers", "twenty three people, maybe thirty", "20 3 people maybe 30"},
		{"whitespace collapse", "  spaced   out  ", "spaced out"},
		{"apostrophe outside table", "the dog's bone", "the dogs bone"},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.NormalizeText(tc.in); got != tc.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewEnglish()
	for _, in := range []string{"Hello, World!", "I'm twenty", "plain words"} {
		once := n.NormalizeText(in)
		if twice := n.NormalizeText(once); twice != once {
			t.Errorf("not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestNormalizeTranscript(t *testing.T) {
	start, end := 1.0, 2.0
	tr := transcript.Transcript{
		{Speaker: "Alice", Text: "Hello, World!", Start: &start, End: &end},
	}
	out := NormalizeTranscript(NewEnglish(), tr)

	if tr[0].Text != "Hello, World!" {
		t.Error("input transcript was mutated")
	}
	if out[0].Text != "hello world" {
		t.Errorf("normalized text = %q", out[0].Text)
	}
	if out[0].Speaker != "Alice" || out[0].Start == nil {
		t.Error("labels and timestamps must be untouched")
	}
}
