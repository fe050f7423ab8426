package cache

import "strconv"

// AnalysisKeyOpts lists every option that changes an analysis result.
type AnalysisKeyOpts struct {
	Drop      []string `json:"drop,omitempty"`
	Collapse  *float64 `json:"collapse,omitempty"`
	Resolve   bool     `json:"resolve,omitempty"`
	Seed      uint64   `json:"seed,omitempty"`
	Ladderize string   `json:"ladderize,omitempty"`
	Tolerance float64  `json:"tolerance"`
}

// Keyer builds cache keys.
type Keyer interface {
	// AnalysisKey returns the key for the analysis of input with the given
	// hash under opts.
	AnalysisKey(inputHash string, opts AnalysisKeyOpts) string
}

// DefaultKeyer produces unscoped keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// AnalysisKey implements Keyer.
func (DefaultKeyer) AnalysisKey(inputHash string, opts AnalysisKeyOpts) string {
	return hashKey("analysis", inputHash, opts.encode())
}

// analysisKeyFields is AnalysisKeyOpts with floats rendered as strings,
// since JSON has no encoding for infinities or NaN.
type analysisKeyFields struct {
	Drop      []string `json:"drop,omitempty"`
	Collapse  *string  `json:"collapse,omitempty"`
	Resolve   bool     `json:"resolve,omitempty"`
	Seed      uint64   `json:"seed,omitempty"`
	Ladderize string   `json:"ladderize,omitempty"`
	Tolerance string   `json:"tolerance"`
}

func (o AnalysisKeyOpts) encode() analysisKeyFields {
	f := analysisKeyFields{
		Drop:      o.Drop,
		Resolve:   o.Resolve,
		Seed:      o.Seed,
		Ladderize: o.Ladderize,
		Tolerance: formatFloat(o.Tolerance),
	}
	if o.Collapse != nil {
		c := formatFloat(*o.Collapse)
		f.Collapse = &c
	}
	return f
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
