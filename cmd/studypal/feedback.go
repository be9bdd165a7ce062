package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"studypal/internal/feedback"
)

func NewFeedbackCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Turn a quiz score into encouraging feedback",
		Example: `  studypal feedback --correct 8 --total 10
  studypal feedback --correct 3 --total 10 --medium 7 --easy 3 --subject Chemistry
  studypal feedback --correct 6 --total 8 --questions quiz.txt
  studypal feedback --band good --subject Biology`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			correct, _ := cmd.Flags().GetInt("correct")
			total, _ := cmd.Flags().GetInt("total")
			easy, _ := cmd.Flags().GetInt("easy")
			medium, _ := cmd.Flags().GetInt("medium")
			subject, _ := cmd.Flags().GetString("subject")
			questions, _ := cmd.Flags().GetString("questions")
			if name, _ := cmd.Flags().GetString("band"); name != "" {
				band, err := feedback.ParseBand(name)
				if err != nil {
					return err
				}
				return outputJSON(cmd.OutOrStdout(), map[string]any{
					"band":     band.String(),
					"feedback": feedback.ForSubject(subject, band),
				})
			}
			if total <= 0 || correct < 0 || correct > total {
				return errors.New("--correct must be between 0 and --total, and --total positive")
			}

			score := feedback.QuizScore{Correct: correct, Total: total}
			mix := feedback.DifficultyMix{Easy: easy, Medium: medium}
			a := get()
			if questions != "" {
				data, err := os.ReadFile(questions)
				if err != nil {
					return fmt.Errorf("read questions: %w", err)
				}
				if err := a.loadModels(cmd.Context()); err != nil {
					return err
				}
				mix = a.svc.QuizMix(strings.Split(string(data), "\n"))
			}
			return outputJSON(cmd.OutOrStdout(), map[string]any{
				"percent":  score.Percent(),
				"band":     score.Band().String(),
				"mix":      mix,
				"feedback": a.svc.GenerateFeedback(score, mix, subject),
			})
		},
	}
	cmd.Flags().Int("correct", 0, "Correct answers")
	cmd.Flags().Int("total", 0, "Questions asked")
	cmd.Flags().Int("easy", 0, "Easy questions in the quiz")
	cmd.Flags().Int("medium", 0, "Medium questions in the quiz")
	cmd.Flags().StringP("subject", "s", "", "Subject of the quiz")
	cmd.Flags().String("band", "", "Performance band (excellent, good, fair, needs_work); prints the subject message without a score")
	cmd.Flags().String("questions", "", "File with one quiz question per line; their predicted difficulties replace --easy/--medium")
	return cmd
}
