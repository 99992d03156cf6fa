package main

import (
	"fmt"
	"log/slog"
	"strings"

	"chatbridge/pkg/ai"
	_ "chatbridge/pkg/ai/providers"
	"chatbridge/pkg/chat"
	"chatbridge/pkg/config"
	"chatbridge/pkg/logging"

	"github.com/spf13/cobra"
)

// newProvider builds the configured provider. Tests replace it.
var newProvider = ai.GetProviderFromConfig

type rootOptions struct {
	configPath string
	model      string
	provider   string
	logLevel   string
}

// app is everything a subcommand needs after configuration is resolved.
type app struct {
	cfg    config.Config
	bridge *chat.Bridge
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "chatbridge",
		Short: "Chat with a hosted language model from the terminal or the browser",
		Long: `chatbridge sends each prompt as a single-turn request to a chat-completion
API and shows the reply, or a readable error, in a scrolling transcript.

Examples:
  chatbridge                      Start the terminal UI
  chatbridge ask "What is Go?"    Send a single prompt
  echo "hello" | chatbridge ask   Read the prompt from stdin
  chatbridge serve --addr :8080   Serve the web page`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file (default ~/.chatbridge/config.json)")
	root.PersistentFlags().StringVarP(&opts.model, "model", "m", "", "Model to use (overrides config)")
	root.PersistentFlags().StringVarP(&opts.provider, "provider", "p", "", "LLM provider: openai or google")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")

	root.AddCommand(newAskCmd(opts))
	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newProvidersCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// loadApp resolves configuration, logging and the bridge.
func loadApp(opts *rootOptions) (*app, error) {
	path := opts.configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if p := strings.TrimSpace(opts.provider); p != "" {
		cfg.LLMProvider = strings.ToLower(p)
	}
	if m := strings.TrimSpace(opts.model); m != "" {
		cfg.SetModel(m)
	}
	if l := strings.TrimSpace(opts.logLevel); l != "" {
		cfg.LogLevel = strings.ToLower(l)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if _, err := logging.Init(cfg); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}

	settings := chat.SettingsFromConfig(cfg)
	slog.Info("app_start",
		"provider", cfg.LLMProvider,
		"model", settings.Model,
		"config", path,
	)
	return &app{cfg: cfg, bridge: chat.NewBridge(provider, settings)}, nil
}
