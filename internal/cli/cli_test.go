package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spendwise/internal/model"
)

func TestRenderExpenses(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderExpenses(&buf, nil))
		assert.Contains(t, buf.String(), "No expenses recorded yet.")
	})

	t.Run("rows and total", func(t *testing.T) {
		var buf bytes.Buffer
		expenses := []model.Expense{
			{ID: 2, Description: "Uber ride", Amount: decimal.RequireFromString("18.2"), Category: model.CategoryTransportation, Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
			{ID: 1, Description: "Lunch", Amount: decimal.RequireFromString("12.5"), Category: model.CategoryFood, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		}
		require.NoError(t, RenderExpenses(&buf, expenses))

		out := buf.String()
		assert.Contains(t, out, "2024-03-02")
		assert.Contains(t, out, "Uber ride")
		assert.Contains(t, out, "18.20")
		assert.Contains(t, out, "Transportation")
		assert.Contains(t, out, "30.70")
		assert.Less(t, strings.Index(out, "Uber ride"), strings.Index(out, "Lunch"))
	})
}

func TestRenderTotals(t *testing.T) {
	var buf bytes.Buffer
	totals := []model.CategoryTotal{
		{Category: model.CategoryFood, Total: decimal.NewFromInt(75), Count: 3},
		{Category: model.CategoryBills, Total: decimal.NewFromInt(25), Count: 1},
	}
	require.NoError(t, RenderTotals(&buf, totals))

	out := buf.String()
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, "25%")
	assert.Contains(t, out, "100.00")
}

func TestShareAndTruncate(t *testing.T) {
	assert.Equal(t, "0%", share(decimal.NewFromInt(5), decimal.Zero))
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "██", bar(10))
}

func TestPrompter(t *testing.T) {
	t.Run("ask trims", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPrompter(strings.NewReader("  coffee  \n"), &out)
		got, err := p.Ask(context.Background(), "Description")
		require.NoError(t, err)
		assert.Equal(t, "coffee", got)
		assert.Contains(t, out.String(), "Description")
	})

	t.Run("last line without newline", func(t *testing.T) {
		p := NewPrompter(strings.NewReader("42"), io.Discard)
		got, err := p.Ask(context.Background(), "Amount")
		require.NoError(t, err)
		assert.Equal(t, "42", got)
	})

	t.Run("default on blank", func(t *testing.T) {
		p := NewPrompter(strings.NewReader("\n"), io.Discard)
		got, err := p.AskDefault(context.Background(), "Date", "2024-03-01")
		require.NoError(t, err)
		assert.Equal(t, "2024-03-01", got)
	})

	t.Run("confirm", func(t *testing.T) {
		tests := []struct {
			input string
			want  bool
		}{
			{"y\n", true},
			{"YES\n", true},
			{"n\n", false},
			{"\n", false},
		}
		for _, tt := range tests {
			p := NewPrompter(strings.NewReader(tt.input), io.Discard)
			got, err := p.Confirm(context.Background(), "Delete?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "input %q", tt.input)
		}
	})

	t.Run("eof", func(t *testing.T) {
		p := NewPrompter(strings.NewReader(""), io.Discard)
		_, err := p.Ask(context.Background(), "Amount")
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("canceled", func(t *testing.T) {
		r, w := io.Pipe()
		defer func() { _ = w.Close() }()
		p := NewPrompter(r, io.Discard)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := p.Ask(ctx, "Amount")
		assert.ErrorIs(t, err, ErrInputCancelled)
	})
}

func TestInterruptHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewInterruptHandler(&buf, "3 expenses were saved.")
	assert.False(t, h.WasInterrupted())

	ctx, stop := h.HandleInterrupts(context.Background())
	h.trigger()
	h.trigger()
	stop()

	assert.True(t, h.WasInterrupted())
	assert.Equal(t, 1, strings.Count(buf.String(), "Interrupted!"))
	assert.Contains(t, buf.String(), "3 expenses were saved.")
	assert.Error(t, ctx.Err())
}

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, 2, "Importing")
	Step(bar)
	Step(bar)
	Step(nil)

	assert.True(t, bar.IsFinished())
	assert.Contains(t, buf.String(), "2/2")
}
