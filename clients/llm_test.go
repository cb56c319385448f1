package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maastricht-university/stt-benchmark/transcript"
)

func gatewayStub(t *testing.T, reply func(model string) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			http.Error(w, "missing auth", http.StatusUnauthorized)
			return
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := chatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message ChatMessage `json:"message"`
		}{Message: ChatMessage{Role: "assistant", Content: reply(req.Model)}})
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestVibeEvaluate(t *testing.T) {
	srv := gatewayStub(t, func(model string) string { return "verdict from " + model })
	defer srv.Close()

	ev, err := NewVibeEvaluator(srv.URL, "key", []string{"model-a", "model-b"}, "model-c", 100)
	if err != nil {
		t.Fatal(err)
	}
	ref := transcript.Transcript{{Speaker: "A", Text: "hello"}}
	hyp := transcript.Transcript{{Speaker: "A", Text: "hello"}}

	res, err := ev.Evaluate(context.Background(), ref, hyp, "Acme")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Evaluations) != 2 {
		t.Errorf("got %d evaluations, want 2", len(res.Evaluations))
	}
	if res.Evaluations["model-a"] != "verdict from model-a" {
		t.Errorf("model-a verdict = %q", res.Evaluations["model-a"])
	}
	if res.Consolidated != "verdict from model-c" {
		t.Errorf("consolidated = %q", res.Consolidated)
	}
}

func TestVibeEvaluatorRequiresKey(t *testing.T) {
	if _, err := NewVibeEvaluator("http://x", "", []string{"m"}, "m", 100); err == nil {
		t.Error("expected error without api key")
	}
	if _, err := NewVibeEvaluator("http://x", "key", nil, "m", 100); err == nil {
		t.Error("expected error without evaluator models")
	}
}

func TestVibeGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "over quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ev, err := NewVibeEvaluator(srv.URL, "key", []string{"m"}, "m", 100)
	if err != nil {
		t.Fatal(err)
	}
	_, err = ev.Evaluate(context.Background(), transcript.Transcript{{Speaker: "A", Text: "x"}},
		transcript.Transcript{{Speaker: "A", Text: "x"}}, "Acme")
	if err == nil {
		t.Error("expected error when every evaluator call fails")
	}
}

func TestExtractScore(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
		ok   bool
	}{
		{"consensus line", "CONSENSUS SCORE: 8/10\nStrengths: ...", 8, true},
		{"score with colon", "Overall quality score: 7.5 out of ten", 7.5, true},
		{"slash ten", "I would give this a 6/10 overall.", 6, true},
		{"rating", "Rating: 9, with minor caveats", 9, true},
		{"out of range", "error rate of 95/10 nonsense", 0, false},
		{"no score", "the transcript reads well", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractScore(tc.in)
			if ok != tc.ok || got != tc.want {
				t.Errorf("ExtractScore(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestEvaluateExtractsScores(t *testing.T) {
	srv := gatewayStub(t, func(model string) string {
		if model == "model-c" {
			return "CONSENSUS SCORE: 7/10\nSolid overall."
		}
		return "Overall quality score: 8/10. Good transcript."
	})
	defer srv.Close()

	ev, err := NewVibeEvaluator(srv.URL, "key", []string{"model-a", "model-b"}, "model-c", 100)
	if err != nil {
		t.Fatal(err)
	}
	tr := transcript.Transcript{{Speaker: "A", Text: "hello"}}
	res, err := ev.Evaluate(context.Background(), tr, tr, "Acme")
	if err != nil {
		t.Fatal(err)
	}
	if res.Scores["model-a"] != 8 || res.Scores["model-b"] != 8 {
		t.Errorf("per-model scores = %v, want 8 for both evaluators", res.Scores)
	}
	if res.Score == nil || *res.Score != 7 {
		t.Errorf("consensus score = %v, want 7 from the consolidated text", res.Score)
	}
}

func TestEvaluateScoreFallsBackToEvaluatorMean(t *testing.T) {
	srv := gatewayStub(t, func(model string) string {
		switch model {
		case "model-a":
			return "Score: 6 with some issues."
		case "model-b":
			return "Score: 8 overall."
		default:
			return "A balanced assessment with no numbers."
		}
	})
	defer srv.Close()

	ev, err := NewVibeEvaluator(srv.URL, "key", []string{"model-a", "model-b"}, "model-c", 100)
	if err != nil {
		t.Fatal(err)
	}
	tr := transcript.Transcript{{Speaker: "A", Text: "hello"}}
	res, err := ev.Evaluate(context.Background(), tr, tr, "Acme")
	if err != nil {
		t.Fatal(err)
	}
	if res.Score == nil || *res.Score != 7 {
		t.Errorf("score = %v, want mean 7 of the evaluator scores", res.Score)
	}
}

func TestWriteReports(t *testing.T) {
	score := 8.0
	res := &VibeResult{
		Vendor:       "Acme",
		Evaluations:  map[string]string{"model-a": "verdict a", "model-b": "verdict b"},
		Scores:       map[string]float64{"model-a": 8},
		Consolidated: "consensus text",
		Score:        &score,
	}

	dir := t.TempDir()
	txt := filepath.Join(dir, "eval.txt")
	if err := WriteTextReport(res, "call1.json", txt); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(txt)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"LLM VIBE EVAL: Acme - call1.json", "VIBE SCORE: 8/10", "consensus text", "MODEL-A", "verdict b"} {
		if !strings.Contains(string(b), want) {
			t.Errorf("text report missing %q:\n%s", want, string(b))
		}
	}

	md := filepath.Join(dir, "eval.md")
	if err := WriteMarkdownReport(res, "call1.json", md); err != nil {
		t.Fatal(err)
	}
	b, err = os.ReadFile(md)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# LLM Vibe Eval: Acme", "## Vibe Score: 8/10", "**Good**", "### model-a"} {
		if !strings.Contains(string(b), want) {
			t.Errorf("markdown report missing %q:\n%s", want, string(b))
		}
	}
}

func TestWriteScoresCSV(t *testing.T) {
	score := 7.5
	res := &VibeResult{
		Vendor: "Acme",
		Scores: map[string]float64{"model-a": 8, "model-b": 7},
		Score:  &score,
	}
	path := filepath.Join(t.TempDir(), "scores.csv")
	if err := WriteScoresCSV([]*VibeResult{res}, []string{"call1.json"}, path); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header plus one row: %q", len(lines), string(b))
	}
	if lines[0] != "file,score.model-a,score.model-b,vendor,vibe_score" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "call1.json,8,7,Acme,7.5" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestFormatTranscript(t *testing.T) {
	start := 75.0
	tr := transcript.Transcript{
		{Speaker: "Alice", Text: "hello", Start: &start},
		{Speaker: "Bob", Text: "hi"},
	}
	out := FormatTranscript(tr, "Ground Truth")
	if !strings.Contains(out, "=== Ground Truth ===") {
		t.Errorf("missing label header:\n%s", out)
	}
	if !strings.Contains(out, "[01:15] Alice: hello") {
		t.Errorf("missing timestamped line:\n%s", out)
	}
	if !strings.Contains(out, "Bob: hi") {
		t.Errorf("missing untimed line:\n%s", out)
	}
}
