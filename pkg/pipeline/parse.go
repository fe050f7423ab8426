package pipeline

import (
	"context"
	"strings"
	"time"

	errs "github.com/matzehuels/phylo/pkg/errors"
	"github.com/matzehuels/phylo/pkg/newick"
	"github.com/matzehuels/phylo/pkg/observability"
	"github.com/matzehuels/phylo/pkg/tree"
	"github.com/matzehuels/phylo/pkg/treeio"
)

// Parse reads every tree in input. Newick input may hold several
// ';'-terminated trees; JSON input holds exactly one edge-table document.
// Input without any tree fails with an [errs.ErrCodeInvalidInput] error.
func Parse(ctx context.Context, input, format string) ([]*tree.Tree, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, format)
	start := time.Now()

	trees, err := parse(input, format)
	hooks.OnParseComplete(ctx, format, len(trees), time.Since(start), err)
	return trees, err
}

func parse(input, format string) ([]*tree.Tree, error) {
	switch format {
	case FormatJSON:
		t, err := treeio.ReadJSON(strings.NewReader(input))
		if err != nil {
			return nil, err
		}
		return []*tree.Tree{t}, nil
	case FormatNewick, "":
		trees, err := newick.NewReader(strings.NewReader(input)).ReadAll()
		if err != nil {
			return nil, err
		}
		if len(trees) == 0 {
			return nil, errs.New(errs.ErrCodeInvalidInput, "input contains no trees")
		}
		return trees, nil
	}
	return nil, ValidateFormat(format)
}
