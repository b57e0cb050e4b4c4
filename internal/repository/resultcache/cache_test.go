package resultcache

import (
	"testing"
	"time"

	"github.com/promptdex/promptdex/internal/domain"
	"github.com/promptdex/promptdex/internal/domain/search/result"
)

func testResults(id string) []result.Scored {
	p := domain.ReconstructPrompt(id, "name", "", "", nil, nil, time.Time{}, time.Time{})
	return []result.Scored{result.New(p, 80, 0.8, result.SourceSemantic, nil)}
}

func TestGetSet(t *testing.T) {
	c := New(time.Hour)
	defer c.Close()

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set("k", testResults("a"), time.Minute)
	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit")
	}
	if len(got) != 1 {
		t.Fatalf("unexpected cached results: %v", got)
	}
	if p := got[0].Prompt(); p.ID() != "a" {
		t.Errorf("unexpected cached results: %v", got)
	}
}

func TestGet_LazyExpiry(t *testing.T) {
	c := New(time.Hour)
	defer c.Close()

	c.Set("k", testResults("a"), 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if s := c.Stats(); s.Entries != 0 {
		t.Errorf("expected lazy removal, entries=%d", s.Entries)
	}
}

func TestStats(t *testing.T) {
	c := New(time.Hour)
	defer c.Close()

	c.Set("a", testResults("a"), time.Minute)
	c.Set("b", testResults("b"), time.Minute)
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	s := c.Stats()
	if s.Entries != 2 {
		t.Errorf("expected 2 entries, got %d", s.Entries)
	}
	if s.Hits != 2 {
		t.Errorf("expected 2 hits, got %d", s.Hits)
	}
}

func TestSweep_RemovesStaleOnly(t *testing.T) {
	c := New(time.Hour)
	defer c.Close()

	c.Set("fresh", testResults("a"), time.Minute)
	c.Set("stale", testResults("b"), time.Minute)

	// Age the stale entry past 3x its TTL.
	c.mu.Lock()
	c.entries["stale"].createdAt = time.Now().Add(-4 * time.Minute)
	c.mu.Unlock()

	c.sweep(time.Now())

	s := c.Stats()
	if s.Entries != 1 {
		t.Errorf("expected 1 entry after sweep, got %d", s.Entries)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("expected fresh entry to survive sweep")
	}
}

func TestClose_Idempotent(t *testing.T) {
	c := New(time.Millisecond)
	c.Close()
	c.Close()
}
