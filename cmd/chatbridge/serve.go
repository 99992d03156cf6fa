package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"chatbridge/pkg/transcript"
	"chatbridge/pkg/web"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat web page and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(opts)
			if err != nil {
				return err
			}
			listen := strings.TrimSpace(addr)
			if listen == "" {
				listen = a.cfg.Server.Addr
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving chatbridge on %s\n", listen)
			return web.NewServer(a.bridge, transcript.New()).Run(ctx, listen)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	return cmd
}
