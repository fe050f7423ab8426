package metrics

import (
	"context"
	"errors"
	"math"
	"testing"

	errs "github.com/matzehuels/phylo/pkg/errors"
	"github.com/matzehuels/phylo/pkg/newick"
	"github.com/matzehuels/phylo/pkg/tree"
)

const (
	fourTips    = "(((A:1,B:1):1,C:2):1,D:4);"
	balanced    = "(((A:1,B:1):1,(C:1,D:1):1):1,((E:1,F:1):1,(G:1,H:1):1):1);"
	caterpillar = "(((((((A,B),C),D),E),F),G),H);"
)

func parse(t *testing.T, s string) *tree.Tree {
	t.Helper()
	tr, err := newick.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", s, err)
	}
	return tr
}

func TestTotalBranchLength(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{fourTips, 10},
		{balanced, 14},
		{"(A:0,B:0);", 0},
		{"((A:1,B:2):3,C:4):100;", 10},
		{"A;", 0},
	}
	for _, tt := range tests {
		got, err := TotalBranchLength(parse(t, tt.input))
		if err != nil {
			t.Fatalf("TotalBranchLength(%s) error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("TotalBranchLength(%s) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestMissingLengths(t *testing.T) {
	tr := parse(t, "((A:1,B):1,C:2);")
	if _, err := TotalBranchLength(tr); !errs.Is(err, errs.ErrCodeMissingLengths) {
		t.Errorf("TotalBranchLength() error = %v, want %s", err, errs.ErrCodeMissingLengths)
	}
	if _, err := RootToTip(tr); !errs.Is(err, errs.ErrCodeMissingLengths) {
		t.Errorf("RootToTip() error = %v, want %s", err, errs.ErrCodeMissingLengths)
	}
	if _, err := IsUltrametric(tr, 1e-9); !errs.Is(err, errs.ErrCodeMissingLengths) {
		t.Errorf("IsUltrametric() error = %v, want %s", err, errs.ErrCodeMissingLengths)
	}
	if _, err := Height(tr); !errs.Is(err, errs.ErrCodeMissingLengths) {
		t.Errorf("Height() error = %v, want %s", err, errs.ErrCodeMissingLengths)
	}
}

func TestRootToTip(t *testing.T) {
	tr := parse(t, fourTips)
	dist, err := RootToTip(tr)
	if err != nil {
		t.Fatalf("RootToTip() error: %v", err)
	}
	want := map[string]float64{"A": 3, "B": 3, "C": 3, "D": 4}
	for label, d := range want {
		id, _ := tr.TipByLabel(label)
		if dist[id] != d {
			t.Errorf("RootToTip()[%s] = %v, want %v", label, dist[id], d)
		}
	}
	if h, _ := Height(tr); h != 4 {
		t.Errorf("Height() = %v, want 4", h)
	}
}

func TestIsUltrametric(t *testing.T) {
	tests := []struct {
		name  string
		input string
		tol   float64
		want  bool
	}{
		{"balanced", balanced, 1e-9, true},
		{"perturbed", "(((A:1,B:1):1,(C:1,D:1.01):1):1,((E:1,F:1):1,(G:1,H:1):1):1);", 1e-3, false},
		{"perturbed within tolerance", "(((A:1,B:1):1,(C:1,D:1.01):1):1,((E:1,F:1):1,(G:1,H:1):1):1);", 0.1, true},
		{"four tips", fourTips, 1e-9, false},
		{"rounding", "((A:0.1,B:0.1):0.2,C:0.3);", 1e-9, true},
		{"single tip", "A:1;", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsUltrametric(parse(t, tt.input), tt.tol)
			if err != nil {
				t.Fatalf("IsUltrametric() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsUltrametric(%s, %v) = %v, want %v", tt.input, tt.tol, got, tt.want)
			}
		})
	}

	if _, err := IsUltrametric(parse(t, balanced), -1); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("IsUltrametric(tol=-1) error = %v, want %s", err, errs.ErrCodeInvalidInput)
	}
}

func TestCladeSizes(t *testing.T) {
	tr := parse(t, fourTips)
	got := CladeSizes(tr)
	want := map[tree.NodeID]CladeSize{
		5: {Left: 3, Right: 1},
		6: {Left: 2, Right: 1},
		7: {Left: 1, Right: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("CladeSizes() has %d entries, want %d", len(got), len(want))
	}
	for id, cs := range want {
		if got[id] != cs {
			t.Errorf("CladeSizes()[%d] = %+v, want %+v", id, got[id], cs)
		}
	}

	poly := CladeSizes(parse(t, "(A,(B,C),D);"))
	if cs := poly[5]; cs.Left != 1 || cs.Right != 3 || cs.Total() != 4 {
		t.Errorf("CladeSizes() on polytomy root = %+v, want {1 3}", cs)
	}
}

func TestImbalanceIndex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"balanced", balanced, 0.5},
		{"caterpillar", caterpillar, (7.0/8 + 6.0/7 + 5.0/6 + 4.0/5 + 3.0/4 + 2.0/3 + 1.0/2) / 7},
		{"four tips", fourTips, (3.0/4 + 2.0/3 + 1.0/2) / 3},
		{"polytomy", "((A,B,C),D);", (3.0/4 + 1.0/3) / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ImbalanceIndex(parse(t, tt.input))
			if err != nil {
				t.Fatalf("ImbalanceIndex() error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("ImbalanceIndex(%s) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	if got, _ := ImbalanceIndex(parse(t, balanced)); got != 0.5 {
		t.Errorf("ImbalanceIndex(balanced) = %v, want exactly 0.5", got)
	}
	if got, _ := ImbalanceIndex(parse(t, caterpillar)); got >= 1 || got < 0.74 {
		t.Errorf("ImbalanceIndex(caterpillar) = %v, want in [0.74, 1)", got)
	}
	if _, err := ImbalanceIndex(tree.Leaf("A")); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("ImbalanceIndex(leaf) error = %v, want %s", err, errs.ErrCodeInvalidInput)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(parse(t, fourTips), 1e-9)
	if s.Tips != 4 || s.InternalNodes != 3 || s.Edges != 6 || !s.Binary || !s.HasLengths {
		t.Errorf("Summarize() counts = %+v", s)
	}
	if s.TotalLength == nil || *s.TotalLength != 10 {
		t.Errorf("Summarize().TotalLength = %v, want 10", s.TotalLength)
	}
	if s.Ultrametric == nil || *s.Ultrametric {
		t.Errorf("Summarize().Ultrametric = %v, want false", s.Ultrametric)
	}
	if s.Height == nil || *s.Height != 4 {
		t.Errorf("Summarize().Height = %v, want 4", s.Height)
	}

	undated := Summarize(parse(t, caterpillar), 1e-9)
	if undated.TotalLength != nil || undated.Ultrametric != nil || undated.Height != nil {
		t.Errorf("Summarize() of undated tree reported lengths: %+v", undated)
	}
	if undated.Imbalance == nil {
		t.Error("Summarize().Imbalance = nil, want a value")
	}
}

func TestBatchImbalance(t *testing.T) {
	trees := []*tree.Tree{parse(t, balanced), parse(t, fourTips), parse(t, caterpillar)}
	got, err := BatchImbalance(context.Background(), trees, 2)
	if err != nil {
		t.Fatalf("BatchImbalance() error: %v", err)
	}
	for i, tr := range trees {
		want, _ := ImbalanceIndex(tr)
		if got[i] != want {
			t.Errorf("BatchImbalance()[%d] = %v, want %v", i, got[i], want)
		}
	}

	trees = append(trees, tree.Leaf("X"))
	if _, err := BatchImbalance(context.Background(), trees, 0); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("BatchImbalance() with a leaf error = %v, want %s", err, errs.ErrCodeInvalidInput)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := BatchImbalance(ctx, trees[:1], 1); !errors.Is(err, context.Canceled) {
		t.Errorf("BatchImbalance(canceled) error = %v, want context.Canceled", err)
	}
}

func TestSummarizeAll(t *testing.T) {
	trees := []*tree.Tree{parse(t, fourTips), parse(t, caterpillar)}
	got, err := SummarizeAll(context.Background(), trees, 1e-9, 4)
	if err != nil {
		t.Fatalf("SummarizeAll() error: %v", err)
	}
	if len(got) != 2 || got[0].Tips != 4 || got[1].Tips != 8 {
		t.Errorf("SummarizeAll() = %+v", got)
	}
}
