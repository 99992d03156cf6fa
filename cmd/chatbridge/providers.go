package main

import (
	"fmt"
	"text/tabwriter"

	"chatbridge/pkg/ai"

	"github.com/spf13/cobra"
)

func newProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the supported LLM providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tCREDENTIAL\tDESCRIPTION")
			for _, info := range ai.ListProviders() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", info.Type, info.CredEnv, info.Description)
			}
			return w.Flush()
		},
	}
}
