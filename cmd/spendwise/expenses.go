package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/spendwise/internal/cli"
	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/service"
)

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expenses",
		Aliases: []string{"exp"},
		Short:   "Manage recorded expenses",
	}

	cmd.AddCommand(expensesListCmd())
	cmd.AddCommand(expensesAddCmd())
	cmd.AddCommand(expensesDeleteCmd())
	cmd.AddCommand(expensesSummaryCmd())

	return cmd
}

// withApp opens the app for one command and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(*app) error) error {
	a, err := newApp(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("Failed to close resources", "error", err)
		}
	}()
	return fn(a)
}

func expensesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return withApp(cmd, func(a *app) error {
				expenses, err := a.service.ListExpenses(cmd.Context())
				if err != nil {
					return err
				}
				if limit > 0 && len(expenses) > limit {
					expenses = expenses[:limit]
				}
				return cli.RenderExpenses(cmd.OutOrStdout(), expenses)
			})
		},
	}
	cmd.Flags().IntP("limit", "n", 0, "Show at most this many expenses")
	return cmd
}

func expensesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense; the category is assigned automatically",
		Long: `Record an expense. Missing values are prompted for.

Examples:
  spendwise expenses add --amount 12.50 --description "Lunch at Chipotle"
  spendwise expenses add`,
		RunE: runExpensesAdd,
	}
	cmd.Flags().String("amount", "", "Amount spent, e.g. 12.50")
	cmd.Flags().String("description", "", "What the money was spent on")
	cmd.Flags().String("date", "", "Date as YYYY-MM-DD (default today)")
	return cmd
}

func runExpensesAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	amountStr, _ := cmd.Flags().GetString("amount")
	description, _ := cmd.Flags().GetString("description")
	dateStr, _ := cmd.Flags().GetString("date")

	prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	var err error
	if description == "" {
		if description, err = prompter.Ask(ctx, "Description"); err != nil {
			return err
		}
	}
	if amountStr == "" {
		if amountStr, err = prompter.Ask(ctx, "Amount"); err != nil {
			return err
		}
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("%q is not a valid amount", amountStr), err)
	}

	date := time.Now()
	if dateStr != "" {
		if date, err = time.Parse(time.DateOnly, dateStr); err != nil {
			return common.NewUserError("Dates use the form YYYY-MM-DD", err)
		}
	}

	return withApp(cmd, func(a *app) error {
		expense, err := a.service.AddExpense(ctx, service.NewExpense{
			Date:        date,
			Description: description,
			Amount:      amount,
		})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
			"Expense Added! #%d %s %s → %s",
			expense.ID, expense.Description, expense.Amount.StringFixed(2), cli.FormatCategory(expense.Category))))
		return err
	})
}

func expensesDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return common.NewUserError("The id must be a number", err)
			}

			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				ok, err := prompter.Confirm(ctx, fmt.Sprintf("Delete expense #%d?", id))
				if err != nil {
					return err
				}
				if !ok {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Nothing deleted."))
					return err
				}
			}

			return withApp(cmd, func(a *app) error {
				if err := a.service.DeleteExpense(ctx, id); err != nil {
					return common.NewUserError("Failed to delete", err)
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted successfully"))
				return err
			})
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func expensesSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show totals per category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				totals, err := a.service.Summary(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle("Spending by category"))
				return cli.RenderTotals(cmd.OutOrStdout(), totals)
			})
		},
	}
}
