package clients

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/maastricht-university/stt-benchmark/export"
)

const reportRule = "================================================================================"

// WriteTextReport writes one vibe evaluation as a readable text file:
// score, consolidated assessment, then every evaluator's verdict.
func WriteTextReport(res *VibeResult, fileID, path string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nLLM VIBE EVAL: %s - %s\n%s\n\n", reportRule, res.Vendor, fileID, reportRule)
	if res.Score != nil {
		fmt.Fprintf(&b, "VIBE SCORE: %g/10\n\n", *res.Score)
	}
	fmt.Fprintf(&b, "%s\nCONSOLIDATED EVALUATION\n%s\n\n%s\n\n", reportRule, reportRule, res.Consolidated)
	for _, model := range sortedModels(res.Evaluations) {
		fmt.Fprintf(&b, "%s\nINDIVIDUAL EVALUATION: %s\n%s\n\n%s\n\n",
			reportRule, strings.ToUpper(model), reportRule, res.Evaluations[model])
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// WriteMarkdownReport writes the same content as a Markdown document.
func WriteMarkdownReport(res *VibeResult, fileID, path string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# LLM Vibe Eval: %s\n\n**File:** %s\n\n", res.Vendor, fileID)
	if res.Score != nil {
		fmt.Fprintf(&b, "## Vibe Score: %g/10\n\n**%s**\n\n", *res.Score, scoreRating(*res.Score))
	}
	fmt.Fprintf(&b, "## Consolidated Evaluation\n\n%s\n\n", res.Consolidated)
	b.WriteString("## Individual Model Evaluations\n\n")
	for _, model := range sortedModels(res.Evaluations) {
		fmt.Fprintf(&b, "### %s\n\n%s\n\n", model, res.Evaluations[model])
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func scoreRating(score float64) string {
	switch {
	case score >= 9:
		return "Excellent"
	case score >= 7:
		return "Good"
	case score >= 5:
		return "Acceptable"
	default:
		return "Poor"
	}
}

// WriteScoresCSV writes one row per vibe result with the vendor, the
// consensus score and each evaluator model's extracted score, so vibe
// runs aggregate alongside the numeric metrics.
func WriteScoresCSV(results []*VibeResult, fileIDs []string, path string) error {
	records := make([]export.Record, 0, len(results))
	for _, res := range results {
		rec := export.Record{"vendor": res.Vendor}
		if res.Score != nil {
			rec["vibe_score"] = *res.Score
		}
		for model, score := range res.Scores {
			rec["score."+model] = score
		}
		records = append(records, rec)
	}
	return export.WriteCSV(records, fileIDs, path, false)
}

func sortedModels(evaluations map[string]string) []string {
	models := make([]string, 0, len(evaluations))
	for model := range evaluations {
		models = append(models, model)
	}
	sort.Strings(models)
	return models
}
