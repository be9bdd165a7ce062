package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"studypal/internal/corpus"
)

func NewCorpusCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Inspect a labeled training corpus",
	}
	cmd.AddCommand(newCorpusStatsCmd(get), newCorpusSubjectsCmd(get))
	return cmd
}

func corpusPath(a *app, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return a.cfg.CorpusPath
}

func newCorpusStatsCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [corpus]",
		Short: "Describe a corpus (counts per subject and difficulty)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := get().svc.DescribeCorpus(corpusPath(get(), args))
			if err != nil {
				return fmt.Errorf("corpus stats: %w", err)
			}
			return outputJSON(cmd.OutOrStdout(), stats)
		},
	}
}

func newCorpusSubjectsCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "subjects [corpus]",
		Short: "List the distinct subjects of a corpus",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := corpus.Load(corpusPath(get(), args))
			if err != nil {
				return fmt.Errorf("corpus subjects: %w", err)
			}
			return outputJSON(cmd.OutOrStdout(), corpus.SubjectNames(docs))
		},
	}
}
