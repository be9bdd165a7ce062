package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewTrainCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "train [corpus]",
		Short: "Train the difficulty classifier and topic clusterer",
		Long: `Train both models on a labeled corpus (CSV, YAML or JSONL) and persist them to the model store.
Without an argument the configured corpus_path is used, and without that the built-in seed corpus.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			path := a.cfg.CorpusPath
			if len(args) > 0 {
				path = args[0]
			}
			report, err := a.svc.TrainModels(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("train: %w", err)
			}
			return outputJSON(cmd.OutOrStdout(), report)
		},
	}
}

func NewStatusCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the trained models and their metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			if err := a.loadModels(cmd.Context()); err != nil {
				return err
			}
			return outputJSON(cmd.OutOrStdout(), a.svc.Status())
		},
	}
}
