package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendwise/internal/model"
)

// maxDescriptionWidth truncates long descriptions in tables.
const maxDescriptionWidth = 40

// RenderExpenses writes expenses as an aligned table with a total row.
func RenderExpenses(w io.Writer, expenses []model.Expense) error {
	if len(expenses) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No expenses recorded yet."))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, TableHeaderStyle.Render("ID")+"\t"+
		TableHeaderStyle.Render("DATE")+"\t"+
		TableHeaderStyle.Render("DESCRIPTION")+"\t"+
		TableHeaderStyle.Render("CATEGORY")+"\t"+
		TableHeaderStyle.Render("AMOUNT"))

	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			e.ID,
			e.Date.Format("2006-01-02"),
			truncate(e.Description, maxDescriptionWidth),
			FormatCategory(e.Category),
			AmountStyle.Render(e.Amount.StringFixed(2)))
	}
	fmt.Fprintf(tw, "\t\t%s\t\t%s\n", BoldStyle.Render("Total"), BoldStyle.Render(total.StringFixed(2)))
	return tw.Flush()
}

// RenderTotals writes per-category totals with a share of overall spend.
func RenderTotals(w io.Writer, totals []model.CategoryTotal) error {
	if len(totals) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("Nothing to summarize."))
		return err
	}

	grand := decimal.Zero
	for _, t := range totals {
		grand = grand.Add(t.Total)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, TableHeaderStyle.Render("CATEGORY")+"\t"+
		TableHeaderStyle.Render("COUNT")+"\t"+
		TableHeaderStyle.Render("TOTAL")+"\t"+
		TableHeaderStyle.Render("SHARE"))
	for _, t := range totals {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			FormatCategory(t.Category),
			t.Count,
			t.Total.StringFixed(2),
			share(t.Total, grand))
	}
	fmt.Fprintf(tw, "%s\t\t%s\t\n", BoldStyle.Render("Total"), BoldStyle.Render(grand.StringFixed(2)))
	return tw.Flush()
}

func share(part, whole decimal.Decimal) string {
	if whole.IsZero() {
		return "0%"
	}
	pct := part.Div(whole).Mul(decimal.NewFromInt(100)).Round(0)
	return pct.String() + "% " + SubtleStyle.Render(bar(pct.IntPart()))
}

// bar draws one block per five percent.
func bar(pct int64) string {
	return strings.Repeat("█", int(pct/5))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
