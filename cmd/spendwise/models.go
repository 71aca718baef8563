package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendwise/internal/cli"
)

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List remote models that can generate content",
		Long: `List the provider's models that support content generation, marking the
ones configured for categorization and chat.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			gen, err := createGenerator(ctx)
			if err != nil {
				return err
			}
			defer gen.Close()

			models, err := listModels(ctx, gen)
			if err != nil {
				return err
			}

			inUse := make(map[string]string)
			for _, m := range gen.models.ClassificationModels {
				inUse[m] = "classify"
			}
			for _, m := range gen.models.ChatModels {
				if inUse[m] != "" {
					inUse[m] += ", chat"
				} else {
					inUse[m] = "chat"
				}
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, cli.TableHeaderStyle.Render("MODEL")+"\t"+
				cli.TableHeaderStyle.Render("NAME")+"\t"+
				cli.TableHeaderStyle.Render("INPUT TOKENS")+"\t"+
				cli.TableHeaderStyle.Render("USED FOR"))
			shown := 0
			for _, m := range models {
				if !m.SupportsGenerate {
					continue
				}
				shown++
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", m.Name, m.DisplayName, m.InputTokenLimit, cli.SuccessStyle.Render(inUse[m.Name]))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			slog.Debug("Listed models", "total", len(models), "generate", shown)
			return nil
		},
	}
}
