package fontindex

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"fontmux/internal/logging"
	"fontmux/internal/testsupport"
)

func openTestCache(t *testing.T) (*Cache, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache", "fonts.db")
	cache, err := OpenCache(context.Background(), path, logging.NewNop())
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return cache, path
}

func TestCacheStoreLookup(t *testing.T) {
	ctx := context.Background()
	cache, _ := openTestCache(t)
	mod := time.Unix(1700000000, 123)
	faces := []Face{
		{Index: 0, Names: []string{"Alpha", "Alpha Regular"}},
		{Index: 1},
		{Index: 2, Names: []string{"Gamma"}},
	}
	if err := cache.Store(ctx, "/fonts/a.ttc", 42, mod, faces); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, ok, err := cache.Lookup(ctx, "/fonts/a.ttc", 42, mod)
	if err != nil || !ok {
		t.Fatalf("Lookup: ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(faces, got); diff != "" {
		t.Fatalf("faces mismatch (-want +got):\n%s", diff)
	}

	if _, ok, _ := cache.Lookup(ctx, "/fonts/a.ttc", 43, mod); ok {
		t.Fatal("size change should invalidate entry")
	}
	if _, ok, _ := cache.Lookup(ctx, "/fonts/a.ttc", 42, mod.Add(time.Second)); ok {
		t.Fatal("mtime change should invalidate entry")
	}
	if _, ok, _ := cache.Lookup(ctx, "/fonts/other.ttf", 42, mod); ok {
		t.Fatal("unknown path should miss")
	}

	replacement := []Face{{Index: 0, Names: []string{"Renamed"}}}
	if err := cache.Store(ctx, "/fonts/a.ttc", 50, mod, replacement); err != nil {
		t.Fatalf("Store replacement: %v", err)
	}
	got, ok, err = cache.Lookup(ctx, "/fonts/a.ttc", 50, mod)
	if err != nil || !ok {
		t.Fatalf("Lookup replacement: ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(replacement, got); diff != "" {
		t.Fatalf("replacement mismatch (-want +got):\n%s", diff)
	}
}

func TestCachePrune(t *testing.T) {
	ctx := context.Background()
	cache, _ := openTestCache(t)
	dir := t.TempDir()
	kept := testsupport.WriteFont(t, dir, "kept.ttf", "Kept")
	now := time.Now()
	if err := cache.Store(ctx, kept, 1, now, []Face{{Index: 0, Names: []string{"Kept"}}}); err != nil {
		t.Fatalf("Store kept: %v", err)
	}
	if err := cache.Store(ctx, filepath.Join(dir, "gone.ttf"), 1, now, []Face{{Index: 0, Names: []string{"Gone"}}}); err != nil {
		t.Fatalf("Store gone: %v", err)
	}

	removed, err := cache.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, ok, _ := cache.Lookup(ctx, kept, 1, now); !ok {
		t.Fatal("existing file should survive prune")
	}
}

func TestCacheRebuildsOnSchemaMismatch(t *testing.T) {
	ctx := context.Background()
	cache, path := openTestCache(t)
	mod := time.Unix(1, 0)
	if err := cache.Store(ctx, "/a.ttf", 1, mod, []Face{{Index: 0, Names: []string{"A"}}}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if _, err := cache.db.ExecContext(ctx, "UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenCache(ctx, path, logging.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, ok, _ := reopened.Lookup(ctx, "/a.ttf", 1, mod); ok {
		t.Fatal("entries should be dropped after schema mismatch")
	}
	var version int
	if err := reopened.db.QueryRowContext(ctx, "SELECT version FROM schema_version").Scan(&version); err != nil && err != sql.ErrNoRows {
		t.Fatalf("read version: %v", err)
	}
	if version != schemaVersion {
		t.Fatalf("version = %d, want %d", version, schemaVersion)
	}
}

func TestBuilderUsesCache(t *testing.T) {
	ctx := context.Background()
	cache, _ := openTestCache(t)
	dir := t.TempDir()
	path := testsupport.WriteFont(t, dir, "cached.ttf", "Cached Face")

	b := NewBuilder(logging.NewNop(), Options{}, cache)
	idx, err := b.Build(ctx, []string{dir})
	if err != nil {
		t.Fatalf("first Build: %v", err)
	}
	if idx.Stats().Cached != 0 {
		t.Fatalf("first build should not hit cache: %+v", idx.Stats())
	}

	idx, err = b.Build(ctx, []string{dir})
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if idx.Stats().Cached != 1 {
		t.Fatalf("second build should hit cache: %+v", idx.Stats())
	}
	if res, ok := idx.Lookup("cached face"); !ok || res.Record.Path != path {
		t.Fatalf("cached lookup failed: %+v", res)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := b.Build(ctx, []string{dir}); err != nil {
		t.Fatalf("third Build: %v", err)
	}
	var count int
	if err := cache.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM font_files WHERE path = ?", path).Scan(&count); err != nil {
		t.Fatalf("count cached rows: %v", err)
	}
	if count != 0 {
		t.Fatal("removed font should be pruned")
	}
}
