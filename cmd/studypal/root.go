package main

import (
	"github.com/spf13/cobra"
)

// session is filled by the root pre-run and read by subcommands.
type session struct {
	app *app
}

func NewRootCmd(version string) *cobra.Command {
	var cfgPath string
	s := &session{}

	rootCmd := &cobra.Command{
		Use:           "studypal",
		Short:         "Difficulty, topics, summaries and study tips for educational text",
		Long:          `Classifies study texts by difficulty, clusters them by topic for resource suggestions, summarizes them and derives study tips.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Name() == "tui" {
				// log lines would draw over the terminal UI
				cfg.Log.Level = "error"
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			s.app = a
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if s.app != nil {
				s.app.close()
			}
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config (default: $STUDYPAL_CONFIG, ./studypal.yaml, ~/.config/studypal/config.yaml)")

	get := func() *app { return s.app }
	rootCmd.AddCommand(
		NewTrainCmd(get),
		NewStatusCmd(get),
		NewClassifyCmd(get),
		NewSummarizeCmd(get),
		NewKeywordsCmd(get),
		NewTipsCmd(get),
		NewResourcesCmd(get),
		NewFeedbackCmd(get),
		NewQuizCmd(get),
		NewCorpusCmd(get),
		NewServeCmd(get),
		NewTUICmd(get),
	)
	return rootCmd
}
