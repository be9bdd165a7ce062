package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func NewQuizCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Draw multiple-choice questions for a subject",
		Long:  `Quiz draws questions from the built-in bank with shuffled options and labels each with its predicted difficulty. Unknown subjects draw from Mathematics.`,
		Example: `  studypal quiz --subject Chemistry
  studypal quiz -s History -n 10 --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			subject, _ := cmd.Flags().GetString("subject")
			n, _ := cmd.Flags().GetInt("count")
			seed, _ := cmd.Flags().GetInt64("seed")
			if n < 0 {
				return errors.New("--count must not be negative")
			}
			a := get()
			if err := a.loadModels(cmd.Context()); err != nil {
				return err
			}
			return outputJSON(cmd.OutOrStdout(), a.svc.GenerateQuiz(subject, n, seed))
		},
	}
	cmd.Flags().StringP("subject", "s", "", "Subject to draw questions from")
	cmd.Flags().IntP("count", "n", 0, "Number of questions (0 uses the default of 5)")
	cmd.Flags().Int64("seed", 0, "Random seed for a repeatable quiz (0 draws a fresh one)")
	return cmd
}
