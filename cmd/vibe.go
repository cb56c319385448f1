package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/maastricht-university/stt-benchmark/clients"
	"github.com/maastricht-university/stt-benchmark/transcript"
)

var (
	vibeVendor   string
	vibeOut      string
	vibeReport   string
	vibeMarkdown string
	vibeCSV      string
)

var vibeCmd = &cobra.Command{
	Use:   "vibe <reference> <hypothesis>",
	Short: "Qualitative LLM evaluation of a hypothesis transcript",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := transcript.Load(args[0])
		if err != nil {
			return err
		}
		hyp, err := transcript.Load(args[1])
		if err != nil {
			return err
		}

		ev, err := clients.NewVibeEvaluator(
			cfg.LLM.GatewayURL,
			cfg.LLM.APIKey,
			cfg.LLM.EvaluatorModels,
			cfg.LLM.ConsolidatorModel,
			cfg.LLM.MaxTokens,
		)
		if err != nil {
			return err
		}

		res, err := ev.Evaluate(cmd.Context(), ref, hyp, vibeVendor)
		if err != nil {
			return err
		}
		if res.Score != nil {
			fmt.Printf("Vibe score: %g/10\n\n", *res.Score)
		}
		fmt.Println(res.Consolidated)

		fileID := filepath.Base(args[1])
		if vibeOut != "" {
			f, err := os.Create(vibeOut)
			if err != nil {
				return err
			}
			defer f.Close()
			enc := json.NewEncoder(f)
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return err
			}
		}
		if vibeReport != "" {
			if err := clients.WriteTextReport(res, fileID, vibeReport); err != nil {
				return err
			}
		}
		if vibeMarkdown != "" {
			if err := clients.WriteMarkdownReport(res, fileID, vibeMarkdown); err != nil {
				return err
			}
		}
		if vibeCSV != "" {
			if err := clients.WriteScoresCSV([]*clients.VibeResult{res}, []string{fileID}, vibeCSV); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	vibeCmd.Flags().StringVar(&vibeVendor, "vendor", "Vendor", "vendor name used in prompts")
	vibeCmd.Flags().StringVar(&vibeOut, "out", "", "write the full evaluation result to this JSON file")
	vibeCmd.Flags().StringVar(&vibeReport, "report", "", "write a readable text report to this file")
	vibeCmd.Flags().StringVar(&vibeMarkdown, "markdown", "", "write a Markdown report to this file")
	vibeCmd.Flags().StringVar(&vibeCSV, "csv", "", "write vendor and per-model scores to this CSV file")
	rootCmd.AddCommand(vibeCmd)
}
