package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendwise/internal/cli"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/ofx"
	"github.com/Veraticus/spendwise/internal/service"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import expenses from OFX/QFX statements",
		Long: `Import the debits from OFX or QFX files exported by your bank. Each one is
categorized and stored as an expense; deposits are ignored.

Examples:
  spendwise import-ofx ~/Downloads/chase_jan_2024.qfx
  spendwise import-ofx --dry-run ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Show what would be imported without saving")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	files, err := expandFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no OFX files found")
	}

	parser := ofx.NewParser(slog.Default())
	debits, err := collectDebits(cmd, parser, files)
	if err != nil {
		return err
	}
	if len(debits) == 0 {
		_, err := fmt.Fprintln(out, cli.FormatInfo("No debits found to import."))
		return err
	}

	a, err := newApp(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("Failed to close resources", "error", err)
		}
	}()

	imported := 0
	handler := cli.NewInterruptHandler(out, "Expenses imported so far were saved.")
	ctx, stop := handler.HandleInterrupts(cmd.Context())
	defer stop()

	bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(debits), "Importing expenses...")
	var results []model.Expense
	for _, tx := range debits {
		if ctx.Err() != nil {
			break
		}

		var expense model.Expense
		if dryRun {
			c := a.classifier.ClassifyDetailed(ctx, tx.Description)
			expense = tx.ToExpense(c.Category)
		} else {
			candidate := tx.ToExpense(model.CategoryMiscellaneous)
			expense, err = a.service.AddExpense(ctx, service.NewExpense{
				Date:        candidate.Date,
				Description: candidate.Description,
				Amount:      candidate.Amount,
			})
			if err != nil {
				slog.Warn("Skipping transaction", "fitid", tx.ID, "description", tx.Description, "error", err)
				cli.Step(bar)
				continue
			}
			imported++
		}
		results = append(results, expense)
		cli.Step(bar)
	}

	if err := cli.RenderExpenses(out, results); err != nil {
		return err
	}
	if dryRun {
		_, err = fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d expenses would be imported.", len(results))))
		return err
	}
	if handler.WasInterrupted() {
		return ctx.Err()
	}
	_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d expenses.", imported)))
	return err
}

// collectDebits parses every file and drops duplicate transactions seen in
// more than one statement.
func collectDebits(cmd *cobra.Command, parser *ofx.Parser, files []string) ([]model.Transaction, error) {
	seen := make(map[string]bool)
	var debits []model.Transaction

	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		stmt, err := parser.Parse(cmd.Context(), f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}

		for _, tx := range stmt.Debits() {
			if seen[tx.Hash] {
				continue
			}
			seen[tx.Hash] = true
			debits = append(debits, tx)
		}
		slog.Info("Read statement", "file", filepath.Base(path), "accounts", stmt.Accounts, "debits", len(stmt.Debits()))
	}
	return debits, nil
}

// expandFiles resolves glob patterns, keeping literal paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}
	return files, nil
}
