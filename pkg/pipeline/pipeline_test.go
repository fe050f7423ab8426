package pipeline

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/phylo/pkg/cache"
	errs "github.com/matzehuels/phylo/pkg/errors"
	"github.com/matzehuels/phylo/pkg/newick"
	"github.com/matzehuels/phylo/pkg/treeio"
)

const fourTips = "(((A:1,B:1):1,C:2):1,D:4);"

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(&bytes.Buffer{}))
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"newick", false},
		{"json", false},
		{"nexus", true},
		{"Newick", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateLadderize(t *testing.T) {
	tests := []struct {
		dir     string
		wantErr bool
	}{
		{"", false},
		{"right", false},
		{"left", false},
		{"up", true},
	}

	for _, tt := range tests {
		err := ValidateLadderize(tt.dir)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateLadderize(%q) error = %v, wantErr %v", tt.dir, err, tt.wantErr)
		}
	}
}

func TestOptions_ValidateAndSetDefaults(t *testing.T) {
	opts := Options{Input: fourTips, Resolve: true}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Format != FormatNewick {
		t.Errorf("Format = %q, want %q", opts.Format, FormatNewick)
	}
	if opts.Tolerance != DefaultTolerance {
		t.Errorf("Tolerance = %v, want %v", opts.Tolerance, DefaultTolerance)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed = %v, want %v", opts.Seed, DefaultSeed)
	}

	// Idempotent
	opts.Seed = 7
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Seed != 7 {
		t.Errorf("second call changed Seed to %v", opts.Seed)
	}
}

func TestOptions_SeedOnlyWithResolve(t *testing.T) {
	opts := Options{Input: fourTips}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Seed != 0 {
		t.Errorf("Seed = %v without Resolve, want 0", opts.Seed)
	}
}

func TestOptions_ZeroMeansDefault(t *testing.T) {
	zero := Options{Input: "(A:1,B:1,C:1,D:1);", Resolve: true}
	explicit := Options{Input: zero.Input, Resolve: true, Seed: DefaultSeed, Tolerance: DefaultTolerance}
	for _, o := range []*Options{&zero, &explicit} {
		if err := o.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
	}
	keyer := cache.NewDefaultKeyer()
	if keyer.AnalysisKey("h", zero.AnalysisKeyOpts()) != keyer.AnalysisKey("h", explicit.AnalysisKeyOpts()) {
		t.Error("zero seed and tolerance keyed differently from the defaults")
	}

	r := quietRunner(nil)
	defer r.Close()
	a, err := r.Analyze(context.Background(), Options{Input: zero.Input, Resolve: true})
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Analyze(context.Background(), Options{Input: zero.Input, Resolve: true, Seed: DefaultSeed})
	if err != nil {
		t.Fatal(err)
	}
	if a.Trees[0].Newick != b.Trees[0].Newick {
		t.Errorf("seed 0 resolved to %q, seed %d to %q", a.Trees[0].Newick, DefaultSeed, b.Trees[0].Newick)
	}
}

func TestOptions_Invalid(t *testing.T) {
	neg := -1.0
	nan := math.NaN()
	tests := []struct {
		name string
		opts Options
	}{
		{"missing input", Options{}},
		{"bad format", Options{Input: fourTips, Format: "nexus"}},
		{"bad ladderize", Options{Input: fourTips, Ladderize: "down"}},
		{"negative tolerance", Options{Input: fourTips, Tolerance: -1}},
		{"negative collapse", Options{Input: fourTips, Collapse: &neg}},
		{"nan collapse", Options{Input: fourTips, Collapse: &nan}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestAnalysisKeyOpts_SeedIgnoredWithoutResolve(t *testing.T) {
	a := Options{Input: fourTips, Seed: 1}
	b := Options{Input: fourTips, Seed: 2}
	keyer := cache.NewDefaultKeyer()
	if keyer.AnalysisKey("h", a.AnalysisKeyOpts()) != keyer.AnalysisKey("h", b.AnalysisKeyOpts()) {
		t.Error("seed changed the key although Resolve is off")
	}
	a.Resolve, b.Resolve = true, true
	if keyer.AnalysisKey("h", a.AnalysisKeyOpts()) == keyer.AnalysisKey("h", b.AnalysisKeyOpts()) {
		t.Error("seed did not change the key with Resolve on")
	}
}

func TestParse(t *testing.T) {
	ctx := context.Background()

	trees, err := Parse(ctx, "(A,B);\n(C,(D,E));", FormatNewick)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(trees) != 2 {
		t.Fatalf("Parse() returned %d trees, want 2", len(trees))
	}

	if _, err := Parse(ctx, "   ", FormatNewick); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Parse(blank) error = %v, want INVALID_INPUT", err)
	}
	if _, err := Parse(ctx, "(A,B", FormatNewick); !errs.Is(err, errs.ErrCodeSyntax) {
		t.Errorf("Parse(truncated) error = %v, want SYNTAX_ERROR", err)
	}
}

func TestEdit_Order(t *testing.T) {
	in, err := newick.Parse("((A:1,B:1,C:1):1,D:2,E:5);")
	if err != nil {
		t.Fatal(err)
	}
	zero := 0.0
	out, err := Edit(context.Background(), in, Options{
		Drop:      []string{"E"},
		Collapse:  &zero,
		Resolve:   true,
		Seed:      3,
		Ladderize: LadderizeRight,
	})
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if out.TipCount() != 4 {
		t.Errorf("TipCount() = %d, want 4", out.TipCount())
	}
	if !out.IsBinary() {
		t.Error("Edit() with Resolve returned a non-binary tree")
	}
}

func TestEdit_UnknownTip(t *testing.T) {
	in, err := newick.Parse(fourTips)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Edit(context.Background(), in, Options{Drop: []string{"Z"}})
	if !errs.Is(err, errs.ErrCodeUnknownTip) {
		t.Errorf("Edit() error = %v, want UNKNOWN_TIP", err)
	}
	if !strings.HasPrefix(err.Error(), "drop: ") {
		t.Errorf("Edit() error = %q, want drop prefix", err)
	}
}

func TestRunner_Analyze(t *testing.T) {
	r := quietRunner(nil)
	res, err := r.Analyze(context.Background(), Options{Input: fourTips, Drop: []string{"C"}})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(res.Trees) != 1 {
		t.Fatalf("len(Trees) = %d, want 1", len(res.Trees))
	}
	tr := res.Trees[0]
	if tr.Newick != "((A:1,B:1):2,D:4);" {
		t.Errorf("Newick = %q, want %q", tr.Newick, "((A:1,B:1):2,D:4);")
	}
	if tr.Summary.TotalLength == nil || *tr.Summary.TotalLength != 8 {
		t.Errorf("TotalLength = %v, want 8", tr.Summary.TotalLength)
	}
	if tr.Summary.Ultrametric == nil || !*tr.Summary.Ultrametric {
		t.Errorf("Ultrametric = %v, want true", tr.Summary.Ultrametric)
	}
	if res.CacheHit {
		t.Error("CacheHit = true on a null cache")
	}
	if res.InputHash == "" {
		t.Error("InputHash is empty")
	}
}

func TestRunner_AnalyzeCaches(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(fc)
	defer r.Close()
	ctx := context.Background()
	opts := Options{Input: fourTips, Resolve: true}

	first, err := r.Analyze(ctx, opts)
	if err != nil {
		t.Fatalf("first Analyze() error = %v", err)
	}
	if first.CacheHit {
		t.Error("first run reported a cache hit")
	}

	second, err := r.Analyze(ctx, opts)
	if err != nil {
		t.Fatalf("second Analyze() error = %v", err)
	}
	if !second.CacheHit {
		t.Error("second run missed the cache")
	}
	if second.Trees[0].Newick != first.Trees[0].Newick {
		t.Errorf("cached Newick = %q, want %q", second.Trees[0].Newick, first.Trees[0].Newick)
	}

	opts.Refresh = true
	third, err := r.Analyze(ctx, opts)
	if err != nil {
		t.Fatalf("refresh Analyze() error = %v", err)
	}
	if third.CacheHit {
		t.Error("Refresh run reported a cache hit")
	}

	// A different option must not share the entry.
	other, err := r.Analyze(ctx, Options{Input: fourTips, Ladderize: LadderizeLeft})
	if err != nil {
		t.Fatal(err)
	}
	if other.CacheHit {
		t.Error("different options hit the same cache entry")
	}
}

func TestRunner_AnalyzeInfiniteCollapse(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(fc)
	defer r.Close()
	ctx := context.Background()
	inf := math.Inf(1)

	if _, err := r.Analyze(ctx, Options{Input: "((A:1,B:1):1,C:2);", Collapse: &inf}); err != nil {
		t.Fatalf("first Analyze() error = %v", err)
	}
	res, err := r.Analyze(ctx, Options{Input: "((X:5,Y:5):5,(Z:1,W:1):9);", Collapse: &inf})
	if err != nil {
		t.Fatalf("second Analyze() error = %v", err)
	}
	if res.CacheHit {
		t.Error("a different input hit the cache")
	}
	if got := res.Trees[0].Summary.Tips; got != 4 {
		t.Errorf("Tips = %d, want 4", got)
	}
	if got, want := res.Trees[0].Newick, "(X:10,Y:10,Z:10,W:10);"; got != want {
		t.Errorf("Newick = %q, want %q", got, want)
	}
}

func TestRunner_AnalyzeJSON(t *testing.T) {
	src, err := newick.Parse(fourTips)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := treeio.WriteJSON(src, &buf); err != nil {
		t.Fatal(err)
	}

	res, err := quietRunner(nil).Analyze(context.Background(), Options{Input: buf.String(), Format: FormatJSON})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got := res.Trees[0].Summary.Tips; got != 4 {
		t.Errorf("Tips = %d, want 4", got)
	}
	if res.Trees[0].Newick != fourTips {
		t.Errorf("Newick = %q, want %q", res.Trees[0].Newick, fourTips)
	}
}

func TestRunner_AnalyzeMultipleTrees(t *testing.T) {
	res, err := quietRunner(nil).Analyze(context.Background(), Options{
		Input:   "(A,B,C);\n((A,B),C);",
		Workers: 2,
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(res.Trees) != 2 {
		t.Fatalf("len(Trees) = %d, want 2", len(res.Trees))
	}
	if res.Trees[0].Summary.Binary || !res.Trees[1].Summary.Binary {
		t.Errorf("Binary = %v, %v, want false, true", res.Trees[0].Summary.Binary, res.Trees[1].Summary.Binary)
	}
	if res.Trees[0].Summary.TotalLength != nil {
		t.Error("TotalLength set for a tree without lengths")
	}
}

func TestRunner_AnalyzeErrorNamesTree(t *testing.T) {
	_, err := quietRunner(nil).Analyze(context.Background(), Options{
		Input: "(A,B);\n(C,D);",
		Drop:  []string{"A"},
	})
	if !errs.Is(err, errs.ErrCodeUnknownTip) {
		t.Fatalf("Analyze() error = %v, want UNKNOWN_TIP", err)
	}
	if !strings.Contains(err.Error(), "tree 2") {
		t.Errorf("error %q does not name tree 2", err)
	}
}
