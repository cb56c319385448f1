// Package cmd implements the stt-benchmark command line interface.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maastricht-university/stt-benchmark/config"
)

var cfg *config.Root

var rootCmd = &cobra.Command{
	Use:   "stt-benchmark",
	Short: "Evaluate speech-to-text transcripts against ground truth",
	Long: `stt-benchmark scores automated transcripts against human references:
word error rate, permutation-invariant multi-speaker CP-WER, diarization
error, fuzzy speaker alignment and LLM-based qualitative evaluation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		lvl, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			lvl = logrus.InfoLevel
		}
		logrus.SetLevel(lvl)
		return nil
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Exit(1)
	}
}
