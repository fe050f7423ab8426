package cache

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "phylo"))
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = hit %v, err %v; want miss", hit, err)
	}

	if err := c.Set(ctx, "k", []byte(`{"tips":4}`), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != `{"tips":4}` {
		t.Errorf("Get(k) = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of a missing key error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry = hit %v, err %v; want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get after Clear should miss")
	}
	if c.Dir() == "" {
		t.Error("Dir() is empty")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	in := Hash([]byte("(A,B);"))

	base := k.AnalysisKey(in, AnalysisKeyOpts{Tolerance: 1e-9})
	if !strings.HasPrefix(base, "analysis:") {
		t.Errorf("AnalysisKey unexpected: %s", base)
	}
	if base != k.AnalysisKey(in, AnalysisKeyOpts{Tolerance: 1e-9}) {
		t.Error("AnalysisKey should be deterministic")
	}

	variants := []AnalysisKeyOpts{
		{Tolerance: 1e-6},
		{Tolerance: 1e-9, Drop: []string{"A"}},
		{Tolerance: 1e-9, Resolve: true, Seed: 1},
		{Tolerance: 1e-9, Resolve: true, Seed: 2},
		{Tolerance: 1e-9, Ladderize: "right"},
	}
	seen := map[string]bool{base: true}
	for _, opts := range variants {
		key := k.AnalysisKey(in, opts)
		if seen[key] {
			t.Errorf("AnalysisKey(%+v) collides with another option set", opts)
		}
		seen[key] = true
	}
}

func TestDefaultKeyerNonFiniteFloats(t *testing.T) {
	k := NewDefaultKeyer()
	inf := math.Inf(1)
	a := Hash([]byte("((A:1,B:1):1,C:2);"))
	b := Hash([]byte("((X:5,Y:5):5,(Z:1,W:1):9);"))

	tests := []struct {
		name string
		opts AnalysisKeyOpts
	}{
		{"collapse", AnalysisKeyOpts{Collapse: &inf, Tolerance: 1e-8}},
		{"tolerance", AnalysisKeyOpts{Tolerance: inf}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if k.AnalysisKey(a, tt.opts) == k.AnalysisKey(b, tt.opts) {
				t.Error("different inputs share a key")
			}
			if k.AnalysisKey(a, tt.opts) == k.AnalysisKey(a, AnalysisKeyOpts{Tolerance: 1e-8}) {
				t.Error("infinite option shares a key with the finite default")
			}
		})
	}
}

func TestHashKeyUnmarshallable(t *testing.T) {
	if hashKey("x", func() {}) == hashKey("x", 1) {
		t.Error("unmarshallable part should not hash like other parts")
	}
	if hashKey("x", math.NaN(), "a") == hashKey("x", math.NaN(), "b") {
		t.Error("parts after an unmarshallable value were ignored")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "user:123:")
	key := scoped.AnalysisKey("abc", AnalysisKeyOpts{})
	if !strings.HasPrefix(key, "user:123:analysis:") {
		t.Errorf("ScopedKeyer AnalysisKey should be prefixed: %s", key)
	}

	nilInner := NewScopedKeyer(nil, "prefix:")
	if got, want := nilInner.AnalysisKey("abc", AnalysisKeyOpts{}), "prefix:"+key[len("user:123:"):]; got != want {
		t.Errorf("nil inner key = %s, want %s", got, want)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("wrapped error should unwrap to ErrUnavailable")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	defer func(d time.Duration) { retryBaseDelay = d }(retryBaseDelay)
	retryBaseDelay = time.Millisecond
	ctx := context.Background()

	calls := 0
	if err := RetryWithBackoff(ctx, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: err %v, calls %d", err, calls)
	}

	calls = 0
	plain := errors.New("bad input")
	if err := RetryWithBackoff(ctx, func() error { calls++; return plain }); err != plain || calls != 1 {
		t.Errorf("non-retryable: err %v, calls %d", err, calls)
	}

	calls = 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry then succeed: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error { calls++; return Retryable(ErrUnavailable) })
	if !errors.Is(err, ErrUnavailable) || calls != 3 {
		t.Errorf("exhausted: err %v, calls %d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("PHYLO_REDIS_ADDR")
	if addr == "" {
		t.Skip("PHYLO_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, addr)
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()

	key := "phylo-test:" + Hash([]byte(t.Name()))
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("Get before Set = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
}
