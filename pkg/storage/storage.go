// Package storage archives named trees so they can be fetched again later.
//
// Each archived tree is a [Record] holding the Newick text and the JSON edge
// table of the tree. Three backends implement [Store]:
//   - MemoryStore: in-process storage for tests and the API server default
//   - FileStore: one JSON file per record, used by the CLI
//   - MongoStore: a MongoDB collection, for shared deployments
//
// # Usage
//
//	store, err := storage.NewMongoStore(ctx, "mongodb://localhost:27017", "phylo")
//	if err != nil {
//	    return err
//	}
//	defer store.Close(ctx)
//
//	rec := storage.NewRecord("primates", t)
//	if err := store.Put(ctx, rec); err != nil {
//	    return err
//	}
//	got, err := store.Get(ctx, rec.ID)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // no such record
//	}
package storage

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	errs "github.com/matzehuels/phylo/pkg/errors"
	"github.com/matzehuels/phylo/pkg/newick"
	"github.com/matzehuels/phylo/pkg/tree"
	"github.com/matzehuels/phylo/pkg/treeio"
)

// Record is one archived tree.
type Record struct {
	ID        string          `json:"id" bson:"_id"`
	Name      string          `json:"name" bson:"name"`
	Newick    string          `json:"newick" bson:"newick"`
	Tree      treeio.Document `json:"tree" bson:"tree"`
	Tips      int             `json:"tips" bson:"tips"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
}

// NewRecord returns a record for t with a fresh random ID.
func NewRecord(name string, t *tree.Tree) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Name:      name,
		Newick:    newick.Format(t),
		Tree:      treeio.FromTree(t),
		Tips:      t.TipCount(),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

// Decode rebuilds the archived tree from its edge table, keeping node ids.
func (r *Record) Decode() (*tree.Tree, error) {
	return r.Tree.Tree()
}

// Store is the interface for tree archive backends.
type Store interface {
	// Put inserts rec, replacing any record with the same ID.
	Put(ctx context.Context, rec *Record) error

	// Get returns the record with the given ID, or an
	// [errs.ErrCodeNotFound] error.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns all records, newest first.
	List(ctx context.Context) ([]Record, error)

	// Delete removes a record. Deleting a missing record fails with
	// [errs.ErrCodeNotFound].
	Delete(ctx context.Context, id string) error

	// Close releases the backend's resources.
	Close(ctx context.Context) error
}

func validateRecord(rec *Record) error {
	if rec == nil || rec.ID == "" {
		return errs.New(errs.ErrCodeInvalidInput, "record needs an id")
	}
	if _, err := uuid.Parse(rec.ID); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "record id %q", rec.ID)
	}
	return nil
}

func notFound(id string) error {
	return errs.New(errs.ErrCodeNotFound, "no archived tree %q", id)
}

func sortNewestFirst(recs []Record) {
	slices.SortStableFunc(recs, func(a, b Record) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
