package cli

import (
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/phylo/pkg/errors"
	"github.com/matzehuels/phylo/pkg/pipeline"
	"github.com/matzehuels/phylo/pkg/tree"
	"github.com/matzehuels/phylo/pkg/tree/edit"
)

// dropCommand creates the drop command.
func (c *CLI) dropCommand() *cobra.Command {
	var (
		f           ioFlags
		tips        []string
		keep        bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "drop [file]",
		Short: "Remove tips from trees",
		Long: `Remove the named tips from every tree. Nodes left with a single child are
spliced out and their edge lengths summed. With --keep, the named tips are
the ones kept. With --interactive, tips are picked from a list.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := inputArg(args)
			if interactive {
				return c.dropInteractive(cmd, path, f, keep)
			}
			if len(tips) == 0 {
				return errs.New(errs.ErrCodeInvalidInput, "no tips given (use --tip or --interactive)")
			}
			if err := errs.ValidateLabels(tips); err != nil {
				return err
			}
			return editTrees(cmd, path, f, func(t *tree.Tree) (*tree.Tree, error) {
				if keep {
					return edit.KeepTips(t, tips...)
				}
				return edit.DropTips(t, tips...)
			})
		},
	}

	f.register(cmd)
	cmd.Flags().StringArrayVarP(&tips, "tip", "t", nil, "tip label (repeatable)")
	cmd.Flags().BoolVar(&keep, "keep", false, "keep the named tips and drop all others")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick tips interactively")

	return cmd
}

func (c *CLI) dropInteractive(cmd *cobra.Command, path string, f ioFlags, keep bool) error {
	if path == stdinPath {
		return errs.New(errs.ErrCodeInvalidInput, "--interactive needs a file argument; stdin is the terminal")
	}
	t, err := readTree(cmd, path, f.from)
	if err != nil {
		return err
	}

	title := "Select tips to drop"
	if keep {
		title = "Select tips to keep"
	}
	picked, ok, err := pickTips(title, t.TipLabels())
	if err != nil {
		return err
	}
	if !ok {
		printInfo("Cancelled")
		return nil
	}
	c.Logger.Debug("tips selected", "count", len(picked))

	if keep {
		t, err = edit.KeepTips(t, picked...)
	} else {
		t, err = edit.DropTips(t, picked...)
	}
	if err != nil {
		return err
	}
	return writeTrees(cmd, []*tree.Tree{t}, f.output, f.to)
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		f    ioFlags
		seed uint64
	)

	cmd := &cobra.Command{
		Use:   "resolve [file]",
		Short: "Resolve polytomies into random bifurcations",
		Long: `Split every node with more than two children into a random binary
subtree joined by zero-length edges. The same seed gives the same result.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				seed = c.Config.Seed
			}
			return editTrees(cmd, inputArg(args), f, func(t *tree.Tree) (*tree.Tree, error) {
				return edit.ResolvePolytomies(t, seed)
			})
		},
	}

	f.register(cmd)
	cmd.Flags().Uint64Var(&seed, "seed", pipeline.DefaultSeed, "random seed (default from config)")

	return cmd
}

// ladderizeCommand creates the ladderize command.
func (c *CLI) ladderizeCommand() *cobra.Command {
	var (
		f    ioFlags
		left bool
	)

	cmd := &cobra.Command{
		Use:   "ladderize [file]",
		Short: "Order children by clade size",
		Long: `Order the children of every node by the number of tips below them. By
default the largest clade comes last (right); --left puts it first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editTrees(cmd, inputArg(args), f, func(t *tree.Tree) (*tree.Tree, error) {
				return edit.Ladderize(t, !left), nil
			})
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&left, "left", false, "put the largest clade first")

	return cmd
}

// rotateCommand creates the rotate command.
func (c *CLI) rotateCommand() *cobra.Command {
	var (
		f     ioFlags
		nodes []int
		clade []string
	)

	cmd := &cobra.Command{
		Use:   "rotate [file]",
		Short: "Reverse the child order of internal nodes",
		Long: `Reverse the child order of the given internal nodes. Nodes are named by
id (--node; tips are 1..N from left to right, the root N+1) or as the most
recent common ancestor of tip labels (--clade). Topology is unchanged.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(nodes) == 0 && len(clade) == 0 {
				return errs.New(errs.ErrCodeInvalidInput, "no node given (use --node or --clade)")
			}
			return editTrees(cmd, inputArg(args), f, func(t *tree.Tree) (*tree.Tree, error) {
				ids := make([]tree.NodeID, 0, len(nodes)+1)
				for _, n := range nodes {
					ids = append(ids, tree.NodeID(n))
				}
				if len(clade) > 0 {
					id, err := t.MRCAOfLabels(clade...)
					if err != nil {
						return nil, err
					}
					ids = append(ids, id)
				}
				for _, id := range ids {
					var err error
					if t, err = t.Rotate(id); err != nil {
						return nil, err
					}
				}
				return t, nil
			})
		},
	}

	f.register(cmd)
	cmd.Flags().IntSliceVarP(&nodes, "node", "n", nil, "node id (repeatable)")
	cmd.Flags().StringSliceVar(&clade, "clade", nil, "rotate the MRCA of these tips (comma-separated)")

	return cmd
}

// collapseCommand creates the collapse command.
func (c *CLI) collapseCommand() *cobra.Command {
	var (
		f         ioFlags
		threshold float64
	)

	cmd := &cobra.Command{
		Use:   "collapse [file]",
		Short: "Collapse short internal edges into polytomies",
		Long: `Remove every internal edge no longer than the threshold, attaching the
children of its lower node to the upper one. Root-to-tip distances are kept.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editTrees(cmd, inputArg(args), f, func(t *tree.Tree) (*tree.Tree, error) {
				return edit.Collapse(t, threshold)
			})
		},
	}

	f.register(cmd)
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "collapse internal edges at most this long")

	return cmd
}
