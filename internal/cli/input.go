package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/phylo/pkg/errors"
	"github.com/matzehuels/phylo/pkg/interop/gotree"
	"github.com/matzehuels/phylo/pkg/newick"
	"github.com/matzehuels/phylo/pkg/pipeline"
	"github.com/matzehuels/phylo/pkg/tree"
	"github.com/matzehuels/phylo/pkg/treeio"
)

// stdinPath selects standard input as the tree source.
const stdinPath = "-"

// readInput returns the contents of path, or of stdin for "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == stdinPath {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// inputFormat returns the explicit format, or guesses one from the file
// extension: ".json" is an edge table, anything else Newick.
func inputFormat(path, explicit string) (string, error) {
	if explicit != "" {
		return explicit, pipeline.ValidateFormat(explicit)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return pipeline.FormatJSON, nil
	}
	return pipeline.FormatNewick, nil
}

// readTrees reads every tree from path.
func readTrees(cmd *cobra.Command, path, format string) ([]*tree.Tree, error) {
	format, err := inputFormat(path, format)
	if err != nil {
		return nil, err
	}
	input, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	return pipeline.Parse(cmd.Context(), input, format)
}

// readTree reads a source that must hold exactly one tree.
func readTree(cmd *cobra.Command, path, format string) (*tree.Tree, error) {
	trees, err := readTrees(cmd, path, format)
	if err != nil {
		return nil, err
	}
	if len(trees) != 1 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "%s holds %d trees, this command takes one", displayPath(path), len(trees))
	}
	return trees[0], nil
}

// formatGotree writes Newick through the gotree library, one tree per line.
const formatGotree = "gotree"

// writeTrees writes trees as Newick, as a JSON edge table when format is
// "json" (single tree only), or as gotree Newick. An empty output path
// means stdout.
func writeTrees(cmd *cobra.Command, trees []*tree.Tree, output, format string) error {
	var buf bytes.Buffer
	switch format {
	case "", pipeline.FormatNewick:
		if err := newick.WriteAll(&buf, trees); err != nil {
			return err
		}
	case pipeline.FormatJSON:
		if len(trees) != 1 {
			return errs.New(errs.ErrCodeInvalidInput, "JSON output holds one tree, got %d", len(trees))
		}
		if err := treeio.WriteJSON(trees[0], &buf); err != nil {
			return err
		}
	case formatGotree:
		for _, t := range trees {
			buf.WriteString(gotree.Newick(t))
			buf.WriteByte('\n')
		}
	default:
		return errs.New(errs.ErrCodeInvalidInput, "invalid output format: %q (must be one of: newick, json, gotree)", format)
	}

	if output == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Wrote %d tree(s)", len(trees))
	printFile(output)
	return nil
}

// editTrees applies fn to every tree from path and writes the results.
func editTrees(cmd *cobra.Command, path string, f ioFlags, fn func(*tree.Tree) (*tree.Tree, error)) error {
	trees, err := readTrees(cmd, path, f.from)
	if err != nil {
		return err
	}
	for i, t := range trees {
		if trees[i], err = fn(t); err != nil {
			if len(trees) > 1 {
				return fmt.Errorf("tree %d: %w", i+1, err)
			}
			return err
		}
	}
	return writeTrees(cmd, trees, f.output, f.to)
}

// ioFlags are the input/output flags shared by editing commands.
type ioFlags struct {
	from   string // input format, guessed from the extension when empty
	to     string // output format
	output string // output file, stdout when empty
}

func (f *ioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "input format: newick, json (default: by file extension)")
	cmd.Flags().StringVar(&f.to, "to", pipeline.FormatNewick, "output format: newick, json, gotree")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
}

func displayPath(path string) string {
	if path == stdinPath {
		return "stdin"
	}
	return path
}

// inputArg is the positional argument of tree-reading commands; it defaults
// to stdin.
func inputArg(args []string) string {
	if len(args) == 0 {
		return stdinPath
	}
	return args[0]
}
