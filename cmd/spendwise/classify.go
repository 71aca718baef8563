package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendwise/internal/classification"
	"github.com/Veraticus/spendwise/internal/cli"
	"github.com/Veraticus/spendwise/internal/llm"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [descriptions...]",
		Short: "Categorize expense descriptions without saving them",
		Long: `Categorize one or more descriptions with the model chain, falling back
to keyword rules when every model fails.

Examples:
  spendwise classify "Uber to airport" "Whole Foods"
  spendwise classify --keywords-only "netflix"
  spendwise classify --file descriptions.txt`,
		RunE: runClassify,
	}

	cmd.Flags().Bool("keywords-only", false, "Use keyword rules only, skipping the remote model")
	cmd.Flags().StringP("file", "f", "", "Read one description per line from a file (- for stdin)")

	return cmd
}

// classifyFunc categorizes one description.
type classifyFunc func(ctx context.Context, description string) llm.Classification

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	keywordsOnly, _ := cmd.Flags().GetBool("keywords-only")
	file, _ := cmd.Flags().GetString("file")

	descriptions := args
	if file != "" {
		lines, err := readDescriptions(cmd.InOrStdin(), file)
		if err != nil {
			return err
		}
		descriptions = append(descriptions, lines...)
	}
	if len(descriptions) == 0 {
		return fmt.Errorf("provide at least one description or --file")
	}

	var classify classifyFunc
	if keywordsOnly {
		keywords := classification.NewDefaultKeywordClassifier()
		classify = func(_ context.Context, d string) llm.Classification {
			return llm.Classification{Category: keywords.Classify(d), Source: llm.SourceKeywords}
		}
	} else {
		gen, err := createGenerator(ctx)
		if err != nil {
			return err
		}
		defer gen.Close()
		classifier, _ := createModelClients(gen)
		defer classifier.Close()
		classify = classifier.ClassifyDetailed
	}

	out := cmd.OutOrStdout()
	if file == "" {
		for _, d := range descriptions {
			printClassification(out, d, classify(ctx, d))
		}
		return nil
	}

	results := make([]llm.Classification, 0, len(descriptions))
	bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(descriptions), "Classifying...")
	for _, d := range descriptions {
		if ctx.Err() != nil {
			break
		}
		results = append(results, classify(ctx, d))
		cli.Step(bar)
	}
	for i, r := range results {
		printClassification(out, descriptions[i], r)
	}
	return ctx.Err()
}

func printClassification(w io.Writer, description string, c llm.Classification) {
	source := string(c.Source)
	if c.Model != "" {
		source += " " + c.Model
	}
	fmt.Fprintf(w, "%s %s %s\n",
		cli.FormatCategory(c.Category),
		cli.BoldStyle.Render(description),
		cli.SubtleStyle.Render("("+source+")"))
}

func readDescriptions(stdin io.Reader, path string) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read descriptions: %w", err)
	}
	return lines, nil
}
