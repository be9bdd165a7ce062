package main

import (
	"github.com/spf13/cobra"
)

func NewClassifyCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Predict the difficulty of a question or text",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			a := get()
			if err := a.loadModels(cmd.Context()); err != nil {
				return err
			}
			return outputJSON(cmd.OutOrStdout(), a.svc.ClassifyDifficulty(text))
		},
	}
	addTextFlags(cmd)
	return cmd
}

func NewSummarizeCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize [text...]",
		Short: "Extract the most informative sentences",
		Long:  `Summarize keeps the highest scoring sentences in their original order. --length targets a character budget instead of a sentence count.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			n, _ := cmd.Flags().GetInt("sentences")
			length, _ := cmd.Flags().GetInt("length")
			withScores, _ := cmd.Flags().GetBool("scores")

			a := get()
			sum := a.svc.Summarize(text, n)
			if length > 0 {
				sum = a.svc.SummarizeToLength(text, length)
			}
			if !withScores {
				sum.Sentences = nil
			}
			return outputJSON(cmd.OutOrStdout(), sum)
		},
	}
	addTextFlags(cmd)
	cmd.Flags().IntP("sentences", "n", 0, "Maximum sentences to keep (0 uses the configured default)")
	cmd.Flags().Int("length", 0, "Target summary length in characters")
	cmd.Flags().Bool("scores", false, "Include every sentence with its score")
	return cmd
}

func NewKeywordsCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords [text...]",
		Short: "List the most frequent content words",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			n, _ := cmd.Flags().GetInt("count")
			return outputJSON(cmd.OutOrStdout(), get().svc.ExtractKeywords(text, n))
		},
	}
	addTextFlags(cmd)
	cmd.Flags().IntP("count", "n", 0, "Number of keywords (0 uses the configured default)")
	return cmd
}

func NewTipsCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tips [text...]",
		Short: "Suggest study tips for a subject and text",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			subject, _ := cmd.Flags().GetString("subject")
			return outputJSON(cmd.OutOrStdout(), get().svc.GenerateTips(subject, text))
		},
	}
	addTextFlags(cmd)
	cmd.Flags().StringP("subject", "s", "", "Subject of the material")
	return cmd
}

func NewResourcesCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources [text...]",
		Short: "Suggest learning resources for study material",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			subject, _ := cmd.Flags().GetString("subject")
			topic, _ := cmd.Flags().GetString("topic")
			a := get()
			if err := a.loadModels(cmd.Context()); err != nil {
				return err
			}
			return outputJSON(cmd.OutOrStdout(), map[string]any{
				"cluster":   a.svc.AssignCluster(subject, topic, text),
				"resources": a.svc.SuggestResources(subject, topic, text),
			})
		},
	}
	addTextFlags(cmd)
	cmd.Flags().StringP("subject", "s", "", "Subject of the material")
	cmd.Flags().StringP("topic", "t", "", "Topic of the material")
	return cmd
}
