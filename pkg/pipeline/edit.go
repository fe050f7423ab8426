package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/phylo/pkg/observability"
	"github.com/matzehuels/phylo/pkg/tree"
	"github.com/matzehuels/phylo/pkg/tree/edit"
)

// Edit applies the edit options to t in pipeline order: drop, collapse,
// resolve, ladderize. Options that are unset are skipped, so Edit may return
// t itself.
func Edit(ctx context.Context, t *tree.Tree, opts Options) (*tree.Tree, error) {
	type step struct {
		name string
		on   bool
		run  func(*tree.Tree) (*tree.Tree, error)
	}
	steps := []step{
		{"drop", len(opts.Drop) > 0, func(t *tree.Tree) (*tree.Tree, error) {
			return edit.DropTips(t, opts.Drop...)
		}},
		{"collapse", opts.Collapse != nil, func(t *tree.Tree) (*tree.Tree, error) {
			return edit.Collapse(t, *opts.Collapse)
		}},
		{"resolve", opts.Resolve, func(t *tree.Tree) (*tree.Tree, error) {
			return edit.ResolvePolytomies(t, opts.Seed)
		}},
		{"ladderize", opts.Ladderize != "", func(t *tree.Tree) (*tree.Tree, error) {
			return edit.Ladderize(t, opts.Ladderize == LadderizeRight), nil
		}},
	}

	hooks := observability.Pipeline()
	for _, s := range steps {
		if !s.on {
			continue
		}
		start := time.Now()
		out, err := s.run(t)
		hooks.OnEditComplete(ctx, s.name, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
		t = out
	}
	return t, nil
}
