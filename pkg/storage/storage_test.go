package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/phylo/pkg/errors"
	"github.com/matzehuels/phylo/pkg/newick"
	"github.com/matzehuels/phylo/pkg/tree"
)

func mustParse(t *testing.T, s string) *tree.Tree {
	t.Helper()
	tr, err := newick.Parse(s)
	require.NoError(t, err)
	return tr
}

// exerciseStore runs the behavior every backend must share.
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	older := NewRecord("first", mustParse(t, "((A:1,B:1):1,C:2);"))
	older.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := NewRecord("second", mustParse(t, "(A,(B,(C,D)));"))
	newer.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Put(ctx, older))
	require.NoError(t, s.Put(ctx, newer))

	got, err := s.Get(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)
	assert.Equal(t, "((A:1,B:1):1,C:2);", got.Newick)
	assert.Equal(t, 3, got.Tips)

	decoded, err := got.Decode()
	require.NoError(t, err)
	assert.True(t, tree.Equal(decoded, mustParse(t, older.Newick), 1e-9))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	// Put replaces
	older.Name = "renamed"
	require.NoError(t, s.Put(ctx, older))
	got, err = s.Get(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)

	require.NoError(t, s.Delete(ctx, older.ID))
	_, err = s.Get(ctx, older.ID)
	assert.True(t, errs.Is(err, errs.ErrCodeNotFound), "Get after Delete: %v", err)
	assert.True(t, errs.Is(s.Delete(ctx, older.ID), errs.ErrCodeNotFound))

	assert.True(t, errs.Is(s.Put(ctx, &Record{ID: "not-a-uuid"}), errs.ErrCodeInvalidInput))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "archive"))
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStore_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), []byte("{not json"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("hi"), 0600))

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = s.Get(context.Background(), "../notes")
	assert.True(t, errs.Is(err, errs.ErrCodeNotFound))
}

func TestNewRecord(t *testing.T) {
	r1 := NewRecord("x", tree.Leaf("A"))
	r2 := NewRecord("x", tree.Leaf("A"))
	assert.NotEqual(t, r1.ID, r2.ID)
	assert.Equal(t, "A;", r1.Newick)
	assert.Equal(t, 1, r1.Tips)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("PHYLO_MONGO_URI")
	if uri == "" {
		t.Skip("PHYLO_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, uri, "phylo_test_"+time.Now().Format("20060102150405"))
	require.NoError(t, err)
	defer func() {
		_ = s.coll.Database().Drop(ctx)
		_ = s.Close(ctx)
	}()
	exerciseStore(t, s)
}
