package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/maastricht-university/stt-benchmark/benchmark"
	"github.com/maastricht-university/stt-benchmark/export"
	"github.com/maastricht-university/stt-benchmark/transcript"
)

var (
	evalWER   bool
	evalCPWER bool
	evalDER   bool
	evalCSV   string
	evalJSON  string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <reference> <hypothesis>",
	Short: "Score one hypothesis transcript against its reference",
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

		b := benchmark.New(cfg)
		results, err := b.Evaluate(ref, hyp, benchmark.Options{
			WER: evalWER, CPWER: evalCPWER, DER: evalDER,
		})
		if err != nil {
			return err
		}

		rec := export.Round(export.Flatten(results), 4)
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%-24s %v\n", k, rec[k])
		}

		if evalCSV != "" {
			if err := export.WriteCSV([]export.Record{rec}, []string{args[1]}, evalCSV, true); err != nil {
				return err
			}
		}
		if evalJSON != "" {
			if err := export.WriteJSON([]export.Record{rec}, evalJSON); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	evaluateCmd.Flags().BoolVar(&evalWER, "wer", true, "compute WER measures")
	evaluateCmd.Flags().BoolVar(&evalCPWER, "cp-wer", true, "compute permutation-invariant CP-WER")
	evaluateCmd.Flags().BoolVar(&evalDER, "der", true, "compute diarization error")
	evaluateCmd.Flags().StringVar(&evalCSV, "csv", "", "append the result row to this CSV file")
	evaluateCmd.Flags().StringVar(&evalJSON, "json", "", "write the result to this JSON file")
	rootCmd.AddCommand(evaluateCmd)
}
