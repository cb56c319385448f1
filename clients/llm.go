package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/stt-benchmark/transcript"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []ChatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

// VibeResult holds one qualitative evaluation round: each evaluator
// model's verdict plus the consolidator's merged assessment. Score is
// the 1-10 quality score extracted from the consolidated text, or the
// mean of the per-model scores when the consolidator names none; nil
// when no reply carried a recognizable score.
type VibeResult struct {
	Vendor       string             `json:"vendor"`
	Evaluations  map[string]string  `json:"evaluations"`
	Scores       map[string]float64 `json:"scores,omitempty"`
	Consolidated string             `json:"consolidated"`
	Score        *float64           `json:"vibe_score,omitempty"`
}

// VibeEvaluator grades transcription quality qualitatively by prompting
// a set of evaluator models through a chat-completion gateway and merging
// their verdicts with a consolidator model.
type VibeEvaluator struct {
	http         *HTTP
	gatewayURL   string
	apiKey       string
	evaluators   []string
	consolidator string
	maxTokens    int
	log          *logrus.Entry
}

// NewVibeEvaluator wires the evaluator from configuration. The API key is
// required; everything else has sane defaults upstream.
func NewVibeEvaluator(gatewayURL, apiKey string, evaluators []string, consolidator string, maxTokens int) (*VibeEvaluator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llm gateway api key required (set ASSEMBLYAI_API_KEY)")
	}
	if len(evaluators) == 0 {
		return nil, fmt.Errorf("at least one evaluator model required")
	}
	return &VibeEvaluator{
		http:         NewHTTP(),
		gatewayURL:   gatewayURL,
		apiKey:       apiKey,
		evaluators:   evaluators,
		consolidator: consolidator,
		maxTokens:    maxTokens,
		log:          logrus.WithField("component", "vibe"),
	}, nil
}

// Call sends one prompt to one model and returns its reply text.
func (v *VibeEvaluator) Call(ctx context.Context, model, prompt string) (string, error) {
	b, err := json.Marshal(chatRequest{
		Model:     model,
		Messages:  []ChatMessage{{Role: "user", Content: prompt}},
		MaxTokens: v.maxTokens,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.gatewayURL, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", v.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("llm gateway %s: %s", resp.Status, string(body))
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("llm gateway decode: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("llm gateway: empty response")
	}
	return out.Choices[0].Message.Content, nil
}

// Evaluate prompts every evaluator model with both transcripts, then asks
// the consolidator model to merge the individual evaluations. A single
// failing evaluator is logged and skipped; all of them failing is an
// error.
func (v *VibeEvaluator) Evaluate(ctx context.Context, ref, hyp transcript.Transcript, vendor string) (*VibeResult, error) {
	prompt := evaluationPrompt(ref, hyp, vendor)

	res := &VibeResult{
		Vendor:      vendor,
		Evaluations: map[string]string{},
		Scores:      map[string]float64{},
	}
	for _, model := range v.evaluators {
		v.log.WithField("model", model).Info("requesting evaluation")
		reply, err := v.Call(ctx, model, prompt)
		if err != nil {
			v.log.WithField("model", model).WithError(err).Warn("evaluator failed, skipping")
			continue
		}
		res.Evaluations[model] = reply
		if score, ok := ExtractScore(reply); ok {
			res.Scores[model] = score
		}
	}
	if len(res.Evaluations) == 0 {
		return nil, fmt.Errorf("all evaluator models failed")
	}

	consolidated, err := v.Call(ctx, v.consolidator, consolidationPrompt(vendor, res.Evaluations))
	if err != nil {
		return nil, fmt.Errorf("consolidation: %w", err)
	}
	res.Consolidated = consolidated

	if score, ok := ExtractScore(consolidated); ok {
		res.Score = &score
	} else if len(res.Scores) > 0 {
		// Consolidator named no score: fall back to the evaluator mean.
		sum := 0.0
		for _, s := range res.Scores {
			sum += s
		}
		mean := sum / float64(len(res.Scores))
		res.Score = &mean
	}
	return res, nil
}

var scorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`score[:\s]+(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*/\s*10`),
	regexp.MustCompile(`rating[:\s]+(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`quality[:\s]+(\d+(?:\.\d+)?)`),
}

// ExtractScore pulls a 1-10 quality score out of free-form evaluation
// text, trying "score: 8", "8/10", "rating: 7" and "quality: 7" shapes
// in that order. Values outside 1-10 are ignored.
func ExtractScore(text string) (float64, bool) {
	text = strings.ToLower(text)
	for _, p := range scorePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if v >= 1 && v <= 10 {
			return v, true
		}
	}
	return 0, false
}

// FormatTranscript renders a transcript for inclusion in a prompt, with
// mm:ss timestamps where available.
func FormatTranscript(t transcript.Transcript, label string) string {
	lines := []string{fmt.Sprintf("=== %s ===\n", label)}
	for _, u := range t {
		if u.Start != nil {
			m := int(*u.Start) / 60
			s := int(*u.Start) % 60
			lines = append(lines, fmt.Sprintf("[%02d:%02d] %s: %s", m, s, u.Speaker, u.Text))
		} else {
			lines = append(lines, fmt.Sprintf("%s: %s", u.Speaker, u.Text))
		}
	}
	return strings.Join(lines, "\n")
}

func evaluationPrompt(ref, hyp transcript.Transcript, vendor string) string {
	return fmt.Sprintf(`You are an expert in evaluating speech-to-text transcription quality, particularly focusing on:
1. Word accuracy (correct transcription of spoken words)
2. Speaker diarization (correctly identifying who said what)
3. Temporal accuracy (when things were said, if timestamps available)
4. Overall coherence and readability

Below are two transcripts of the same audio:
1. Ground Truth (human-verified correct transcription)
2. %s (automated transcription to evaluate)

%s

%s

Please evaluate the %s transcription quality and provide:
1. An overall quality score from 1-10 (10 being perfect)
2. Key strengths of the transcription
3. Key weaknesses or errors
4. Specific examples highlighting important differences
5. Assessment of speaker diarization quality
6. Your overall recommendation on whether this transcription quality is acceptable`,
		vendor,
		FormatTranscript(ref, "Ground Truth"),
		FormatTranscript(hyp, vendor),
		vendor)
}

func consolidationPrompt(vendor string, evaluations map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Several independent reviewers evaluated the %s transcription below. ", vendor)
	b.WriteString("Consolidate their evaluations into a single balanced assessment with one overall 1-10 score, ")
	b.WriteString("the agreed strengths and weaknesses, and a final recommendation. ")
	b.WriteString("Begin your response with a clear \"CONSENSUS SCORE: X/10\" line.\n")
	for _, model := range sortedModels(evaluations) {
		fmt.Fprintf(&b, "\n--- Reviewer (%s) ---\n%s\n", model, evaluations[model])
	}
	return b.String()
}
