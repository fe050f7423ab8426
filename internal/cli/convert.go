package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/phylo/pkg/tree"
)

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var f ioFlags

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert trees between Newick and JSON",
		Long: `Rewrite trees in another format. Newick output is normalized: comments
are dropped and labels are quoted only where needed. JSON output is an
edge table keeping node ids.`,
		Example: `  phylo convert tree.nwk --to json -o tree.json
  phylo convert tree.json --to newick`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editTrees(cmd, inputArg(args), f, func(t *tree.Tree) (*tree.Tree, error) {
				return t, nil
			})
		},
	}

	f.register(cmd)

	return cmd
}
