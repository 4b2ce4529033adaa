package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"emphasize/internal/apperr"
	"emphasize/internal/models"
)

// stubStore counts calls and can fail selected slugs.
type stubStore struct {
	t        *testing.T
	failPuts map[string]error
	gets     int
	puts     int
	lists    int
	records  map[string]Record
	onTouch  func() // optional, fails the test when the store must stay idle
}

func newStubStore(t *testing.T) *stubStore {
	return &stubStore{t: t, records: map[string]Record{}, failPuts: map[string]error{}}
}

func (s *stubStore) Put(_ context.Context, rec Record) error {
	if s.onTouch != nil {
		s.onTouch()
	}
	s.puts++
	if err, ok := s.failPuts[rec.Slug]; ok {
		return err
	}
	rec.Version++
	s.records[rec.Slug] = rec
	return nil
}

func (s *stubStore) Get(_ context.Context, slug string) (*Record, error) {
	if s.onTouch != nil {
		s.onTouch()
	}
	s.gets++
	rec, ok := s.records[slug]
	if !ok {
		return nil, fmt.Errorf("stub: get %s: %w", slug, apperr.ErrNotFound)
	}
	return &rec, nil
}

func (s *stubStore) List(_ context.Context, includeDrafts bool) ([]Record, error) {
	if s.onTouch != nil {
		s.onTouch()
	}
	s.lists++
	var out []Record
	for _, rec := range s.records {
		if !includeDrafts && rec.Status == models.StatusDraft {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *stubStore) Close() error { return nil }

func TestDisabledGateNeverTouchesStore(t *testing.T) {
	stub := newStubStore(t)
	stub.onTouch = func() { t.Fatal("store invoked while persistence is disabled") }
	gate := NewGate(stub, false, time.Second)

	for i := 0; i < 3; i++ {
		rec := Record{Slug: fmt.Sprintf("posts/%d", i), Status: models.StatusPublished}
		if err := gate.MaybePersist(context.Background(), rec); err != nil {
			t.Fatalf("MaybePersist: %v", err)
		}
	}
	if stub.puts != 0 || stub.gets != 0 {
		t.Errorf("calls = %d gets, %d puts, want zero", stub.gets, stub.puts)
	}
}

func TestEnabledGateDelegates(t *testing.T) {
	stub := newStubStore(t)
	gate := NewGate(stub, true, time.Second)

	rec := Record{Slug: "posts/a", Status: models.StatusPublished, UpdatedAt: time.Now()}
	if err := gate.MaybePersist(context.Background(), rec); err != nil {
		t.Fatalf("MaybePersist: %v", err)
	}
	if stub.puts != 1 {
		t.Errorf("puts = %d, want 1", stub.puts)
	}
	if stored, ok := stub.records["posts/a"]; !ok || stored.Version != 1 {
		t.Errorf("stored = %+v", stub.records)
	}
}

func TestGateCarriesStoredVersion(t *testing.T) {
	stub := newStubStore(t)
	gate := NewGate(stub, true, time.Second)

	rec := Record{Slug: "posts/a", Status: models.StatusPublished}
	if err := gate.MaybePersist(context.Background(), rec); err != nil {
		t.Fatalf("first persist: %v", err)
	}
	rec.Content = "updated"
	if err := gate.MaybePersist(context.Background(), rec); err != nil {
		t.Fatalf("second persist: %v", err)
	}
	if stored := stub.records["posts/a"]; stored.Version != 2 {
		t.Errorf("version = %d, want 2 after re-persist", stored.Version)
	}
}

func TestGatePropagatesStoreError(t *testing.T) {
	stub := newStubStore(t)
	stub.failPuts["posts/a"] = fmt.Errorf("stub: %w", apperr.ErrUnavailable)
	gate := NewGate(stub, true, time.Second)

	err := gate.MaybePersist(context.Background(), Record{Slug: "posts/a"})
	if !errors.Is(err, apperr.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
