package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"studypal/internal/tui"
)

func NewTUICmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Analyze study material interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			if err := a.loadModels(cmd.Context()); err != nil {
				return err
			}
			st := a.svc.Status()
			status := "No trained models: difficulty defaults to medium. Press ctrl+t to train."
			if st.Loaded {
				status = fmt.Sprintf("Models loaded: accuracy %.2f, %d clusters.", st.Accuracy, st.Clusters)
			}
			m := tui.New(a.svc, a.cfg.CorpusPath, status)
			_, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}
