package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/maastricht-university/stt-benchmark/benchmark"
	"github.com/maastricht-university/stt-benchmark/matcher"
	"github.com/maastricht-university/stt-benchmark/transcript"
)

var matchOut string

var matchCmd = &cobra.Command{
	Use:   "match <reference> <hypothesis>",
	Short: "Align hypothesis speaker labels to reference labels by text similarity",
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
		mapping, err := b.SpeakerMapping(ref, hyp)
		if err != nil {
			return err
		}

		labels := make([]string, 0, len(mapping))
		for k := range mapping {
			labels = append(labels, k)
		}
		sort.Strings(labels)
		for _, from := range labels {
			fmt.Printf("%s -> %s\n", from, mapping[from])
		}

		if matchOut != "" {
			relabeled := matcher.Apply(hyp, mapping)
			if err := transcript.WriteJSON(relabeled, matchOut); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchOut, "out", "", "write the relabeled hypothesis transcript to this JSON file")
	rootCmd.AddCommand(matchCmd)
}
