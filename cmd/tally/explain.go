package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/store"
	"github.com/tallybook/tally/pkg/scoring"
	"github.com/tallybook/tally/pkg/surface"
)

func newExplainCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "explain",
		Short: "Describe how the score is computed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, weights, err := engineFromConfig(g.config())
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), scoring.Explain(weights, engine.Classifier().Tiers()))
			return err
		},
	}
}

func newTiersCmd(g *globalOpts) *cobra.Command {
	var outputFmt string
	cmd := &cobra.Command{
		Use:   "tiers",
		Short: "List the classification tiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := engineFromConfig(g.config())
			if err != nil {
				return err
			}
			tiers := engine.Classifier().Tiers()
			if outputFmt == surface.FormatJSON {
				return surface.WriteJSON(cmd.OutOrStdout(), tiers)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIER\tFROM\tMESSAGE")
			for _, t := range tiers {
				from := fmt.Sprintf("%g%%", t.MinPercentage)
				if t.Exact {
					from = fmt.Sprintf("= %g%%", t.MinPercentage)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, from, t.Message)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	return cmd
}

func newScoresCmd(g *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "List score results saved with score --save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.config()
			docs, err := g.store(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			ids, err := docs.ListDocuments(cmd.Context(), g.namespace, store.KindScore)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	var outputFmt string
	show := &cobra.Command{
		Use:   "show ID",
		Short: "Print a saved score result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.config()
			docs, err := g.store(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			data, err := docs.GetDocument(cmd.Context(), g.namespace, store.KindScore, args[0])
			if err != nil {
				return fmt.Errorf("loading score %s: %w", args[0], err)
			}
			var saved savedScore
			if err := json.Unmarshal(data, &saved); err != nil {
				return fmt.Errorf("decoding score %s: %w", args[0], err)
			}
			renderer, err := surface.ForFormat(outputFmt)
			if err != nil {
				return err
			}
			return renderer.Render(cmd.OutOrStdout(), saved.Result)
		},
	}
	show.Flags().StringVar(&outputFmt, "output", "text", "Output format: text, json or markdown")

	cmd.AddCommand(show)
	return cmd
}
