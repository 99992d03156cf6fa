package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// errChatFailed marks a completion failure that was already printed.
var errChatFailed = errors.New("chat completion failed")

func newAskCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Send a single prompt and print the reply",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			a, err := loadApp(opts)
			if err != nil {
				return err
			}

			result := a.bridge.Complete(cmd.Context(), prompt)
			if result.IsFailure() {
				fmt.Fprintln(cmd.ErrOrStderr(), result.Message())
				return errChatFailed
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Text())
			return nil
		},
	}
}

// readPrompt takes the prompt from args, or from in when it is not a terminal.
func readPrompt(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		if prompt := strings.TrimSpace(args[0]); prompt != "" {
			return prompt, nil
		}
		return "", errors.New("prompt is required")
	}

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", errors.New("prompt is required: pass it as an argument or pipe it on stdin")
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", errors.New("prompt is required")
	}
	return prompt, nil
}
