package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/Veraticus/spendwise/internal/tui"
)

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Ask questions about your recent spending",
		Long: `Ask a question answered from your 15 most recent expenses.

With a message the answer is printed and the command exits. Without one an
interactive chat opens.

Examples:
  spendwise chat "How much did I spend on food?"
  spendwise chat`,
		RunE: runChat,
	}

	cmd.Flags().Bool("plain", false, "Print the reply without markdown rendering")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("Failed to close resources", "error", err)
		}
	}()

	message := strings.TrimSpace(strings.Join(args, " "))
	if message == "" {
		return tui.Run(ctx, a.service)
	}

	reply := a.service.Chat(ctx, message)

	plain, _ := cmd.Flags().GetBool("plain")
	if !plain {
		renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
		if err == nil {
			if rendered, err := renderer.Render(reply); err == nil {
				reply = rendered
			}
		}
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(reply, "\n"))
	return err
}
