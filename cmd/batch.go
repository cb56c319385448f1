package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maastricht-university/stt-benchmark/benchmark"
)

var batchVendor string

var batchCmd = &cobra.Command{
	Use:   "batch <reference-dir> <hypothesis-dir>",
	Short: "Evaluate every transcript pair in two directories",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b := benchmark.New(cfg)
		c, err := b.RunBatch(args[0], args[1], batchVendor, benchmark.AllMetrics())
		if err != nil {
			return err
		}

		dir, err := benchmark.Persist(cfg.Paths.Outputs, batchVendor, c)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{"files": c.Len(), "dir": dir}).Info("batch complete")

		fmt.Println()
		return c.Summary(os.Stdout)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchVendor, "vendor", "vendor", "vendor name for the summary table")
	rootCmd.AddCommand(batchCmd)
}
