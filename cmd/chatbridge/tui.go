package main

import (
	"chatbridge/pkg/transcript"
	"chatbridge/pkg/ui"

	"github.com/spf13/cobra"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal chat UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	a, err := loadApp(opts)
	if err != nil {
		return err
	}
	return ui.Run(a.bridge, transcript.New(), ui.Options{
		Provider: a.cfg.LLMProvider,
		Model:    a.bridge.Settings().Model,
		Context:  cmd.Context(),
	})
}
