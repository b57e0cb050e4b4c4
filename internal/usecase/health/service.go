// Package health reports process liveness and dependency status.
package health

import (
	"context"
	"time"

	"github.com/promptdex/promptdex/internal/repository/resultcache"
	"github.com/promptdex/promptdex/internal/version"
)

// pingTimeout bounds the dependency probe.
const pingTimeout = 2 * time.Second

// Pinger probes the backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Counter reports how many prompts the library holds.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// CacheStats exposes result cache accounting.
type CacheStats interface {
	Stats() resultcache.Stats
}

// Status is the health report.
type Status struct {
	Healthy      bool   `json:"healthy"`
	Version      string `json:"version"`
	Database     string `json:"database"`
	Prompts      int64  `json:"prompts"`
	CacheEntries int    `json:"cache_entries"`
	CacheHits    int64  `json:"cache_hits"`
}

// Service aggregates dependency health.
type Service struct {
	db      Pinger
	prompts Counter
	cache   CacheStats
}

// NewService creates the health service.
func NewService(db Pinger, prompts Counter, cache CacheStats) *Service {
	return &Service{db: db, prompts: prompts, cache: cache}
}

// Check probes the store and snapshots cache stats. It never fails; an
// unreachable store is reported in the status.
func (s *Service) Check(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	st := Status{Healthy: true, Version: version.Version, Database: "up"}
	if err := s.db.Ping(ctx); err != nil {
		st.Healthy = false
		st.Database = "down: " + err.Error()
	}

	// Prompt count is informational; a failed count does not flip health.
	if n, err := s.prompts.Count(ctx); err == nil {
		st.Prompts = n
	}

	stats := s.cache.Stats()
	st.CacheEntries = stats.Entries
	st.CacheHits = stats.Hits
	return st
}
