package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatcher_NewFilePublished(t *testing.T) {
	dir := t.TempDir()
	db := newMemStore()
	p, holder := newTestPipeline(t, dir, db, false, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = Watch(ctx, p, dir, discardLogger()) }()

	time.Sleep(100 * time.Millisecond)

	writeContent(t, dir, "new.md", "---\ntitle: New\n---\nbody\n")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, ok := holder.Load().Get("new")
		return ok
	}, "new file not published by watcher")
}

func TestWatcher_BurstDebouncedToOneSnapshot(t *testing.T) {
	dir := t.TempDir()
	db := newMemStore()
	p, holder := newTestPipeline(t, dir, db, false, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = Watch(ctx, p, dir, discardLogger()) }()

	time.Sleep(100 * time.Millisecond)

	// Three writes well inside one debounce window.
	writeContent(t, dir, "a.md", "# A\n")
	writeContent(t, dir, "b.md", "# B\n")
	writeContent(t, dir, "c.md", "# C\n")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return holder.Load().Len() == 3
	}, "burst not published")

	// All three landed in the same batch.
	if rev := holder.Load().Revision(); rev != 1 {
		t.Errorf("revision = %d, want 1 for a debounced burst", rev)
	}
}

func TestWatcher_DeleteDropsArticle(t *testing.T) {
	dir := t.TempDir()
	writeContent(t, dir, "del.md", "# Delete Me\n")
	db := newMemStore()
	p, holder := newTestPipeline(t, dir, db, false, false)

	if err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, ok := holder.Load().Get("del"); !ok {
		t.Fatal("precondition: article should be published")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = Watch(ctx, p, dir, discardLogger()) }()
	time.Sleep(100 * time.Millisecond)

	if err := os.Remove(filepath.Join(dir, "del.md")); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, ok := holder.Load().Get("del")
		return !ok
	}, "deleted file still published")
}

func TestWatcher_NewDirWatched(t *testing.T) {
	dir := t.TempDir()
	db := newMemStore()
	p, holder := newTestPipeline(t, dir, db, false, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = Watch(ctx, p, dir, discardLogger()) }()

	time.Sleep(100 * time.Millisecond)

	writeContent(t, dir, "posts/deep.md", "# Deep\n")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, ok := holder.Load().Get("posts/deep")
		return ok
	}, "file in new subdir not published by watcher")
}

func TestWatcher_BadFileKeepsPreviousSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeContent(t, dir, "good.md", "# Good\n")
	db := newMemStore()
	p, holder := newTestPipeline(t, dir, db, false, false)

	if err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := holder.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = Watch(ctx, p, dir, discardLogger()) }()
	time.Sleep(100 * time.Millisecond)

	writeContent(t, dir, "bad.md", "---\ntitle: Bad\nunterminated frontmatter\n")

	// Give the debounced batch time to run and fail.
	time.Sleep(debounceWindow + 500*time.Millisecond)

	if holder.Load() != first {
		t.Error("failed batch replaced the snapshot")
	}
	if _, ok := holder.Load().Get("good"); !ok {
		t.Error("previous article no longer served")
	}
}
