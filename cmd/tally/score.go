package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/export"
	"github.com/tallybook/tally/internal/store"
	"github.com/tallybook/tally/pkg/config"
	"github.com/tallybook/tally/pkg/scoring"
	"github.com/tallybook/tally/pkg/surface"
)

func newScoreCmd(g *globalOpts) *cobra.Command {
	var opts scoreOpts

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the aesthetic score from body measurements",
		Long: `Scores height, body fat, fat-free mass index and shoulder/waist proportion
and classifies the result into a tier. Decimals may use a comma or a dot.

With --batch, every row of an XLSX workbook is scored instead; the
columns are label, height_cm, weight_kg, body_fat_pct, shoulder_width and
waist_width, with a header row.`,
		Example: `  tally score --height 185 --weight 80 --body-fat 12 --shoulder 120 --waist 75
  tally score --height 185 --weight 80,5 --body-fat 12 --shoulder 120 --waist 75 --output json
  tally score --batch measurements.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.Context(), cmd.OutOrStdout(), g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.height, "height", "", "Height in centimetres")
	cmd.Flags().StringVar(&opts.weight, "weight", "", "Weight in kilograms")
	cmd.Flags().StringVar(&opts.bodyFat, "body-fat", "", "Body fat percentage")
	cmd.Flags().StringVar(&opts.shoulder, "shoulder", "", "Shoulder width")
	cmd.Flags().StringVar(&opts.waist, "waist", "", "Waist width (same unit as shoulder)")
	cmd.Flags().StringVar(&opts.outputFmt, "output", "text", "Output format: text, json or markdown")
	cmd.Flags().StringVar(&opts.batch, "batch", "", "Score every row of an XLSX workbook")
	cmd.Flags().StringVar(&opts.template, "template", "", "Write an empty batch workbook to this path and exit")
	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "Also write a PDF score card to this path")
	cmd.Flags().StringVar(&opts.save, "save", "", "Save the result to storage under this label")

	return cmd
}

type scoreOpts struct {
	height    string
	weight    string
	bodyFat   string
	shoulder  string
	waist     string
	outputFmt string
	batch     string
	template  string
	pdf       string
	save      string
}

// savedScore is the document written by --save.
type savedScore struct {
	ID      string               `json:"id"`
	Label   string               `json:"label"`
	SavedAt string               `json:"saved_at"`
	Result  *scoring.ScoreResult `json:"result"`
}

func runScore(ctx context.Context, out io.Writer, g *globalOpts, opts scoreOpts) error {
	if opts.template != "" {
		if err := writeFile(opts.template, export.WriteBatchTemplate); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Template written: %s\n", opts.template)
		return nil
	}

	cfg := g.config()
	engine, _, err := engineFromConfig(cfg)
	if err != nil {
		return err
	}

	if opts.batch != "" {
		return runScoreBatch(out, engine, opts)
	}

	m, err := scoring.ParseMeasurements(opts.height, opts.weight, opts.bodyFat, opts.shoulder, opts.waist)
	if err != nil {
		return err
	}
	result, err := engine.Score(m)
	if err != nil {
		return err
	}

	renderer, err := surface.ForFormat(opts.outputFmt)
	if err != nil {
		return err
	}
	if err := renderer.Render(out, result); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	if opts.pdf != "" {
		err := writeFile(opts.pdf, func(w io.Writer) error {
			return export.ScoreCardPDF(w, result, opts.save)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Score card written: %s\n", opts.pdf)
	}

	if opts.save != "" {
		if err := saveScoreResult(ctx, g, cfg, opts.save, result); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save score result: %v\n", err)
		}
	}
	return nil
}

func runScoreBatch(out io.Writer, engine *scoring.Engine, opts scoreOpts) error {
	f, err := os.Open(opts.batch)
	if err != nil {
		return fmt.Errorf("opening batch: %w", err)
	}
	defer f.Close()

	batch, err := export.ScoreWorkbook(f, engine)
	if err != nil {
		return err
	}

	if opts.outputFmt == surface.FormatJSON {
		return surface.WriteJSON(out, batch)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tLABEL\tSCORE\tTIER")
	for _, row := range batch.Rows {
		if row.Result == nil {
			fmt.Fprintf(tw, "%d\t%s\t-\terror: %s\n", row.Row, row.Label, row.Error)
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%.1f%%\t%s\n", row.Row, row.Label, row.Result.Percentage, row.Result.Tier.Name)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%d scored, %d failed\n", batch.Count, batch.Failed)
	return nil
}

// saveScoreResult persists a score result in the scores kind of the store.
func saveScoreResult(ctx context.Context, g *globalOpts, cfg *config.Config, label string, result *scoring.ScoreResult) error {
	docs, err := g.store(ctx, cfg)
	if err != nil {
		return err
	}

	now := time.Now()
	doc := savedScore{
		ID:      scoreID(label, now),
		Label:   label,
		SavedAt: now.UTC().Format(time.RFC3339),
		Result:  result,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal score result: %w", err)
	}
	if err := docs.PutDocument(ctx, g.namespace, store.KindScore, doc.ID, data); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Score saved: %s\n", doc.ID)
	return nil
}

func scoreID(label string, t time.Time) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, strings.TrimSpace(label))
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "score"
	}
	return slug + "-" + t.UTC().Format("20060102T150405")
}
