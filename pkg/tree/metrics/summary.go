package metrics

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/phylo/pkg/tree"
)

// Summary aggregates the statistics reported for one tree. Length-based
// fields are nil when the tree lacks branch lengths; Imbalance is nil for a
// tree without a branching node.
type Summary struct {
	Tips          int      `json:"tips"`
	InternalNodes int      `json:"internal_nodes"`
	Edges         int      `json:"edges"`
	Binary        bool     `json:"binary"`
	HasLengths    bool     `json:"has_lengths"`
	TotalLength   *float64 `json:"total_length,omitempty"`
	Height        *float64 `json:"height,omitempty"`
	Ultrametric   *bool    `json:"ultrametric,omitempty"`
	Imbalance     *float64 `json:"imbalance,omitempty"`
}

// Summarize computes the [Summary] of t, testing ultrametricity with tol.
func Summarize(t *tree.Tree, tol float64) Summary {
	s := Summary{
		Tips:          t.TipCount(),
		InternalNodes: t.InternalCount(),
		Edges:         t.EdgeCount(),
		Binary:        t.IsBinary(),
		HasLengths:    t.HasLengths(),
	}
	if v, err := TotalBranchLength(t); err == nil {
		s.TotalLength = &v
	}
	if v, err := Height(t); err == nil {
		s.Height = &v
	}
	if v, err := IsUltrametric(t, tol); err == nil {
		s.Ultrametric = &v
	}
	if v, err := ImbalanceIndex(t); err == nil {
		s.Imbalance = &v
	}
	return s
}

// BatchImbalance computes [ImbalanceIndex] for every tree using at most
// workers goroutines (GOMAXPROCS when workers <= 0). Results are in input
// order. The first error cancels the remaining work and is returned.
func BatchImbalance(ctx context.Context, trees []*tree.Tree, workers int) ([]float64, error) {
	return batch(ctx, trees, workers, ImbalanceIndex)
}

// SummarizeAll computes [Summarize] for every tree in parallel, like
// [BatchImbalance].
func SummarizeAll(ctx context.Context, trees []*tree.Tree, tol float64, workers int) ([]Summary, error) {
	return batch(ctx, trees, workers, func(t *tree.Tree) (Summary, error) {
		return Summarize(t, tol), nil
	})
}

func batch[T any](ctx context.Context, trees []*tree.Tree, workers int, fn func(*tree.Tree) (T, error)) ([]T, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]T, len(trees))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, t := range trees {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := fn(t)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
