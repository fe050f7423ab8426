// Package pipeline provides the tree analysis pipeline shared by the CLI and
// the API server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: read every tree from Newick or JSON input
//  2. Edit: drop tips, collapse short edges, resolve polytomies, ladderize
//  3. Analyze: compute a [metrics.Summary] for each edited tree
//
// Edits are applied in that fixed order. The whole result is cached under a
// key derived from the input hash and every option that changes the result.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Analyze(ctx, pipeline.Options{
//	    Input:   "((A:1,B:1):1,C:2);",
//	    Drop:    []string{"C"},
//	    Resolve: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(*result.Trees[0].Summary.TotalLength)
package pipeline

import (
	"math"
	"time"

	"github.com/matzehuels/phylo/pkg/cache"
	errs "github.com/matzehuels/phylo/pkg/errors"
	"github.com/matzehuels/phylo/pkg/tree/metrics"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTolerance is the ultrametricity tolerance.
	DefaultTolerance = 1e-8

	// DefaultSeed is the default polytomy resolution seed.
	DefaultSeed = uint64(42)

	// TTLAnalysis is how long analysis results stay cached.
	TTLAnalysis = 7 * 24 * time.Hour
)

// Input formats.
const (
	FormatNewick = "newick"
	FormatJSON   = "json"
)

// Ladderize directions.
const (
	LadderizeRight = "right"
	LadderizeLeft  = "left"
)

// ValidFormats is the set of supported input formats.
var ValidFormats = map[string]bool{
	FormatNewick: true,
	FormatJSON:   true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for an analysis run.
// This struct supports JSON serialization for API requests.
//
// Zero means the default for Tolerance ([DefaultTolerance]) and, when
// Resolve is set, for Seed ([DefaultSeed]). Seed 0 therefore resolves
// exactly like seed 42.
type Options struct {
	// Parse options
	Input  string `json:"input"`
	Format string `json:"format,omitempty"` // "newick" (default) or "json"

	// Edit options, applied in field order
	Drop      []string `json:"drop,omitempty"`
	Collapse  *float64 `json:"collapse,omitempty"` // collapse internal edges at most this long
	Resolve   bool     `json:"resolve,omitempty"`
	Seed      uint64   `json:"seed,omitempty"`
	Ladderize string   `json:"ladderize,omitempty"` // "", "right" or "left"

	// Analyze options
	Tolerance float64 `json:"tolerance,omitempty"`
	Workers   int     `json:"workers,omitempty"`

	// Refresh bypasses the cache read; the result is still written.
	Refresh bool `json:"refresh,omitempty"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// InputHash is the SHA-256 of the raw input.
	InputHash string `json:"input_hash"`

	// Trees holds one entry per input tree, in input order.
	Trees []TreeResult `json:"trees"`

	// Stats contains timing information. It describes the run that
	// computed the result, so it is stale on a cache hit.
	Stats Stats `json:"stats"`

	// CacheHit reports whether the result came from the cache.
	CacheHit bool `json:"cache_hit"`
}

// TreeResult is the analysis of one tree.
type TreeResult struct {
	Newick  string          `json:"newick"` // the tree after edits
	Summary metrics.Summary `json:"summary"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ParseTime   time.Duration `json:"parse_time"`
	EditTime    time.Duration `json:"edit_time"`
	AnalyzeTime time.Duration `json:"analyze_time"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that an input format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidInput, "invalid format: %q (must be one of: newick, json)", format)
	}
	return nil
}

// ValidateLadderize checks a ladderize direction. The empty string means no
// ladderizing.
func ValidateLadderize(dir string) error {
	switch dir {
	case "", LadderizeRight, LadderizeLeft:
		return nil
	}
	return errs.New(errs.ErrCodeInvalidInput, "invalid ladderize direction: %q (must be one of: right, left)", dir)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		return errs.New(errs.ErrCodeInvalidInput, "input is required")
	}
	if o.Format == "" {
		o.Format = FormatNewick
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if err := ValidateLadderize(o.Ladderize); err != nil {
		return err
	}
	if o.Tolerance < 0 || math.IsNaN(o.Tolerance) {
		return errs.New(errs.ErrCodeInvalidInput, "tolerance must not be negative, got %v", o.Tolerance)
	}
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.Collapse != nil && (*o.Collapse < 0 || math.IsNaN(*o.Collapse)) {
		return errs.New(errs.ErrCodeInvalidInput, "collapse threshold must not be negative, got %v", *o.Collapse)
	}
	if o.Resolve && o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	o.validated = true
	return nil
}

// AnalysisKeyOpts returns cache key options for the analysis.
func (o *Options) AnalysisKeyOpts() cache.AnalysisKeyOpts {
	k := cache.AnalysisKeyOpts{
		Drop:      o.Drop,
		Collapse:  o.Collapse,
		Resolve:   o.Resolve,
		Ladderize: o.Ladderize,
		Tolerance: o.Tolerance,
	}
	if o.Resolve {
		k.Seed = o.Seed
	}
	return k
}
