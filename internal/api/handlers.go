package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/phylo/pkg/buildinfo"
	errs "github.com/matzehuels/phylo/pkg/errors"
	"github.com/matzehuels/phylo/pkg/httputil"
	"github.com/matzehuels/phylo/pkg/newick"
	"github.com/matzehuels/phylo/pkg/pipeline"
	"github.com/matzehuels/phylo/pkg/storage"
	"github.com/matzehuels/phylo/pkg/traits"
	"github.com/matzehuels/phylo/pkg/tree"
	"github.com/matzehuels/phylo/pkg/tree/edit"
)

// =============================================================================
// Request and Response Types
// =============================================================================

// DropRequest removes Tips from the tree, or keeps only them when Keep is set.
type DropRequest struct {
	Newick string   `json:"newick"`
	Tips   []string `json:"tips"`
	Keep   bool     `json:"keep,omitempty"`
}

// TreeResponse is a tree returned by an edit.
type TreeResponse struct {
	Newick string `json:"newick"`
	Tips   int    `json:"tips"`
}

// MatchRequest matches trait row labels to the tips of a tree.
type MatchRequest struct {
	Newick string   `json:"newick"`
	Labels []string `json:"labels"`
}

// MatchResponse lists tip labels in tip order next to the matching row
// index, or -1.
type MatchResponse struct {
	TipLabels []string      `json:"tip_labels"`
	Rows      []int         `json:"rows"`
	Report    traits.Report `json:"report"`
}

// MRCARequest asks for the most recent common ancestor of tips.
type MRCARequest struct {
	Newick string   `json:"newick"`
	Tips   []string `json:"tips"`
}

// MRCAResponse describes the ancestor and its clade.
type MRCAResponse struct {
	Node   tree.NodeID `json:"node"`
	Label  string      `json:"label,omitempty"`
	Tips   []string    `json:"tips"`
	Newick string      `json:"newick"`
}

// PutTreeRequest archives a tree under a name.
type PutTreeRequest struct {
	Name   string `json:"name"`
	Newick string `json:"newick"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := httputil.DecodeJSON(r, &opts); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	res, err := s.runner.Analyze(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req DropRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if err := errs.ValidateLabels(req.Tips); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	t, err := parseOne(req.Newick)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if req.Keep {
		t, err = edit.KeepTips(t, req.Tips...)
	} else {
		t, err = edit.DropTips(t, req.Tips...)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TreeResponse{Newick: newick.Format(t), Tips: t.TipCount()})
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	t, err := parseOne(req.Newick)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	tips := t.TipLabels()
	rows, err := traits.MatchLabels(tips, req.Labels)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MatchResponse{
		TipLabels: tips,
		Rows:      rows,
		Report:    traits.Check(tips, req.Labels),
	})
}

func (s *Server) handleMRCA(w http.ResponseWriter, r *http.Request) {
	var req MRCARequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	t, err := parseOne(req.Newick)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	id, err := t.MRCAOfLabels(req.Tips...)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	clade, err := t.Subtree(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MRCAResponse{
		Node:   id,
		Label:  t.Label(id),
		Tips:   clade.TipLabels(),
		Newick: newick.Format(clade),
	})
}

func (s *Server) handlePutTree(w http.ResponseWriter, r *http.Request) {
	var req PutTreeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httputil.WriteError(w, r, errs.New(errs.ErrCodeInvalidInput, "name is required"))
		return
	}
	t, err := parseOne(req.Newick)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	rec := storage.NewRecord(req.Name, t)
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/trees/"+rec.ID)
	httputil.WriteJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListTrees(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if recs == nil {
		recs = []storage.Record{}
	}
	httputil.WriteJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteTree(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

// parseOne parses exactly one Newick tree.
func parseOne(text string) (*tree.Tree, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errs.New(errs.ErrCodeInvalidInput, "newick is required")
	}
	trees, err := newick.NewReader(strings.NewReader(text)).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(trees) != 1 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "expected one tree, got %d", len(trees))
	}
	return trees[0], nil
}

// fail logs server-side failures before writing the error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if httputil.StatusFor(err) >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", httputil.RequestID(r.Context()))
	}
	httputil.WriteError(w, r, err)
}
