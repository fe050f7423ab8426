package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/phylo/pkg/cache"
	"github.com/matzehuels/phylo/pkg/newick"
	"github.com/matzehuels/phylo/pkg/observability"
	"github.com/matzehuels/phylo/pkg/tree"
	"github.com/matzehuels/phylo/pkg/tree/metrics"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long results stay cached; zero means TTLAnalysis.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Analyze runs the complete parse → edit → analyze pipeline with caching.
//
// Cache failures are logged and otherwise ignored: a broken cache makes
// the run slower, never wrong.
func (r *Runner) Analyze(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	inputHash := cache.Hash([]byte(opts.Format + "\x00" + opts.Input))
	key := r.Keyer.AnalysisKey(inputHash, opts.AnalysisKeyOpts())

	if !opts.Refresh {
		if res, ok := r.cached(ctx, key); ok {
			r.Logger.Debug("analysis cache hit", "key", key)
			return res, nil
		}
	}

	result := &Result{InputHash: inputHash}

	// Stage 1: Parse
	parseStart := time.Now()
	trees, err := Parse(ctx, opts.Input, opts.Format)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Stats.ParseTime = time.Since(parseStart)
	r.Logger.Info("parsed trees",
		"trees", len(trees),
		"format", opts.Format,
		"duration", result.Stats.ParseTime)

	// Stage 2: Edit
	editStart := time.Now()
	edited := make([]*tree.Tree, len(trees))
	for i, t := range trees {
		if edited[i], err = Edit(ctx, t, opts); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i+1, err)
		}
	}
	result.Stats.EditTime = time.Since(editStart)
	r.Logger.Debug("edited trees", "duration", result.Stats.EditTime)

	// Stage 3: Analyze
	analyzeStart := time.Now()
	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, len(edited))
	summaries, err := metrics.SummarizeAll(ctx, edited, opts.Tolerance, opts.Workers)
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	hooks.OnAnalyzeComplete(ctx, len(edited), result.Stats.AnalyzeTime, err)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	for i, t := range edited {
		result.Trees = append(result.Trees, TreeResult{
			Newick:  newick.Format(t),
			Summary: summaries[i],
		})
	}
	r.Logger.Info("analyzed trees",
		"trees", len(edited),
		"duration", result.Stats.AnalyzeTime)

	r.store(ctx, key, result)
	return result, nil
}

func (r *Runner) cached(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "analysis")
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		observability.Cache().OnCacheMiss(ctx, "analysis")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "analysis")
	res.CacheHit = true
	return &res, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl <= 0 {
		ttl = TTLAnalysis
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "analysis", len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
