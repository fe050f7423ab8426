package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/phylo/pkg/errors"
	"github.com/matzehuels/phylo/pkg/newick"
	"github.com/matzehuels/phylo/pkg/traits"
)

// mrcaCommand creates the mrca command.
func (c *CLI) mrcaCommand() *cobra.Command {
	var (
		from string
		tips []string
	)

	cmd := &cobra.Command{
		Use:   "mrca [file]",
		Short: "Find the most recent common ancestor of tips",
		Long: `Print the most recent common ancestor of the given tips: its node id, its
label if any, and its clade as Newick.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(tips) == 0 {
				return errs.New(errs.ErrCodeInvalidInput, "no tips given (use --tip)")
			}
			t, err := readTree(cmd, inputArg(args), from)
			if err != nil {
				return err
			}
			id, err := t.MRCAOfLabels(tips...)
			if err != nil {
				return err
			}
			clade, err := t.Subtree(id)
			if err != nil {
				return err
			}

			printKeyValue("Node", StyleHighlight.Render(fmt.Sprint(id)))
			if l := t.Label(id); l != "" {
				printKeyValue("Label", l)
			}
			printKeyValue("Tips", fmt.Sprint(clade.TipCount()))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), newick.Format(clade))
			return err
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "input format: newick, json (default: by file extension)")
	cmd.Flags().StringArrayVarP(&tips, "tip", "t", nil, "tip label (repeatable)")

	return cmd
}

// matchCommand creates the match command.
func (c *CLI) matchCommand() *cobra.Command {
	var (
		from      string
		traitPath string
		column    int
		noHeader  bool
		labels    []string
		strict    bool
	)

	cmd := &cobra.Command{
		Use:   "match [file]",
		Short: "Match trait table rows to tree tips",
		Long: `For every tip, in tip order, print the index of the trait table row with
the same label, or "-" if there is none. Labels come from a column of a
CSV file (--traits, --column) or from --label flags. Rows are counted from
0, excluding the header.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if traitPath != "" {
				var err error
				if labels, err = readTraitLabels(traitPath, column, !noHeader); err != nil {
					return err
				}
			}
			if len(labels) == 0 {
				return errs.New(errs.ErrCodeInvalidInput, "no trait labels given (use --traits or --label)")
			}

			t, err := readTree(cmd, inputArg(args), from)
			if err != nil {
				return err
			}
			tips := t.TipLabels()
			rows, err := traits.MatchLabels(tips, labels)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for i, tip := range tips {
				row := "-"
				if rows[i] != traits.Unmatched {
					row = fmt.Sprint(rows[i])
				}
				fmt.Fprintf(tw, "%s\t%s\n", tip, row)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			report := traits.Check(tips, labels)
			if report.OK() {
				printSuccess("All %d tips matched", len(report.Matched))
				return nil
			}
			if n := len(report.MissingInData); n > 0 {
				printWarning("%d tip(s) without data: %s", n, strings.Join(report.MissingInData, ", "))
			}
			if n := len(report.MissingInTree); n > 0 {
				printWarning("%d row(s) without a tip: %s", n, strings.Join(report.MissingInTree, ", "))
			}
			if strict {
				return errs.New(errs.ErrCodeInvalidInput, "labels do not match: %d tips without data, %d rows without tips",
					len(report.MissingInData), len(report.MissingInTree))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "input format: newick, json (default: by file extension)")
	cmd.Flags().StringVar(&traitPath, "traits", "", "CSV trait table")
	cmd.Flags().IntVar(&column, "column", 0, "0-based CSV column holding the labels")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "the CSV has no header row")
	cmd.Flags().StringArrayVarP(&labels, "label", "l", nil, "trait label (repeatable)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail unless tips and rows match one to one")

	return cmd
}

// readTraitLabels reads one column of a CSV file.
func readTraitLabels(path string, column int, header bool) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return parseTraitLabels(f, column, header)
}

func parseTraitLabels(r io.Reader, column int, header bool) ([]string, error) {
	if column < 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "column must not be negative, got %d", column)
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read trait table")
	}
	if header && len(records) > 0 {
		records = records[1:]
	}

	labels := make([]string, len(records))
	for i, rec := range records {
		if column >= len(rec) {
			return nil, errs.New(errs.ErrCodeInvalidInput, "row %d has no column %d", i, column)
		}
		labels[i] = strings.TrimSpace(rec[column])
	}
	return labels, nil
}
