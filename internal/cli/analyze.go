package cli

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/phylo/pkg/pipeline"
	"github.com/matzehuels/phylo/pkg/tree/metrics"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		from      string
		tolerance float64
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print statistics for each tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("tolerance") {
				tolerance = c.Config.Tolerance
			}
			path := inputArg(args)
			trees, err := readTrees(cmd, path, from)
			if err != nil {
				return err
			}
			summaries, err := metrics.SummarizeAll(cmd.Context(), trees, tolerance, 0)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}
			for i, s := range summaries {
				if len(summaries) > 1 {
					printNewline()
					printInfo("Tree %d of %d", i+1, len(summaries))
				}
				printSummary(s)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "input format: newick, json (default: by file extension)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", pipeline.DefaultTolerance, "ultrametricity tolerance (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print summaries as JSON")

	return cmd
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		opts     pipeline.Options
		collapse float64
		noCache  bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Edit trees and compute their statistics, with caching",
		Long: `Run the analysis pipeline on every tree: drop tips, collapse short edges,
resolve polytomies and ladderize (in that order, each optional), then
compute tree statistics. Results are cached by input and options.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := inputArg(args)

			format, err := inputFormat(path, opts.Format)
			if err != nil {
				return err
			}
			opts.Format = format
			if opts.Input, err = readInput(cmd, path); err != nil {
				return err
			}
			if cmd.Flags().Changed("collapse") {
				opts.Collapse = &collapse
			}
			if !cmd.Flags().Changed("tolerance") {
				opts.Tolerance = c.Config.Tolerance
			}
			if opts.Resolve && !cmd.Flags().Changed("seed") {
				opts.Seed = c.Config.Seed
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			var spinner *Spinner
			if !asJSON {
				spinner = newSpinnerWithContext(ctx, "Analyzing "+displayPath(path))
				spinner.Start()
			}
			prog := newProgress(loggerFromContext(ctx))
			res, err := runner.Analyze(ctx, opts)
			if spinner != nil {
				spinner.Stop()
			}
			if err != nil {
				return err
			}
			prog.done("analyzed trees", "trees", len(res.Trees), "cached", res.CacheHit)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			for i, tr := range res.Trees {
				printNewline()
				printInfo("Tree %d of %d", i+1, len(res.Trees))
				printSummary(tr.Summary)
				printKeyValue("Newick", tr.Newick)
			}
			printStats(len(res.Trees), res.CacheHit)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Format, "from", "", "input format: newick, json (default: by file extension)")
	cmd.Flags().StringArrayVarP(&opts.Drop, "drop", "d", nil, "drop this tip first (repeatable)")
	cmd.Flags().Float64Var(&collapse, "collapse", 0, "collapse internal edges at most this long")
	cmd.Flags().BoolVar(&opts.Resolve, "resolve", false, "resolve polytomies")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", pipeline.DefaultSeed, "seed for --resolve (default from config)")
	cmd.Flags().StringVar(&opts.Ladderize, "ladderize", "", "ladderize: right, left")
	cmd.Flags().Float64Var(&opts.Tolerance, "tolerance", pipeline.DefaultTolerance, "ultrametricity tolerance (default from config)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "parallel workers (default: GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

// printSummary prints one tree summary as key/value lines.
func printSummary(s metrics.Summary) {
	printKeyValue("Tips", strconv.Itoa(s.Tips))
	printKeyValue("Internal", strconv.Itoa(s.InternalNodes))
	printKeyValue("Edges", strconv.Itoa(s.Edges))
	printKeyValue("Binary", yesNo(s.Binary))
	printKeyValue("Lengths", yesNo(s.HasLengths))
	if s.TotalLength != nil {
		printKeyValue("Total", formatFloat(*s.TotalLength))
	}
	if s.Height != nil {
		printKeyValue("Height", formatFloat(*s.Height))
	}
	if s.Ultrametric != nil {
		printKeyValue("Ultrametric", yesNo(*s.Ultrametric))
	}
	if s.Imbalance != nil {
		printKeyValue("Imbalance", strconv.FormatFloat(*s.Imbalance, 'f', 4, 64))
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
