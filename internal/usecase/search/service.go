package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/promptdex/promptdex/internal/domain/search/intent"
	"github.com/promptdex/promptdex/internal/domain/search/query"
	"github.com/promptdex/promptdex/internal/domain/search/result"
	"github.com/promptdex/promptdex/internal/logger"
	"github.com/promptdex/promptdex/internal/metrics"
)

// DefaultCacheTTL is how long computed result sets stay servable.
const DefaultCacheTTL = 5 * time.Minute

// Response is the caller-facing search outcome. Search always returns a
// structurally valid Response; Degraded marks an internal failure that was
// absorbed into an empty result set.
type Response struct {
	Results    []result.Scored
	TotalFound int
	FromCache  bool
	TookMs     int64
	Degraded   bool
}

// Service is the search facade: cache lookup, intent classification,
// concurrent retrieval, scoring, deduplication and finalization.
type Service struct {
	repo  Repository
	cache ResultCache

	cacheTTL         time.Duration
	strategyTimeout  time.Duration
	fanoutLimit      int
	expandedPageSize int
	expandedFloor    int
}

// Option customizes a Service.
type Option func(*Service)

// WithCacheTTL overrides the result cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithStrategyTimeout overrides the per-retrieval-call timeout.
func WithStrategyTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.strategyTimeout = d
		}
	}
}

// WithFanoutLimit overrides the maximum number of concurrent retrieval calls.
func WithFanoutLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fanoutLimit = n
		}
	}
}

// WithExpandedPage overrides the bounded fallback scan page size and the
// result-count floor that triggers it.
func WithExpandedPage(pageSize, floor int) Option {
	return func(s *Service) {
		if pageSize > 0 {
			s.expandedPageSize = pageSize
		}
		if floor > 0 {
			s.expandedFloor = floor
		}
	}
}

// NewService creates the search facade.
func NewService(repo Repository, cache ResultCache, opts ...Option) *Service {
	s := &Service{
		repo:             repo,
		cache:            cache,
		cacheTTL:         DefaultCacheTTL,
		strategyTimeout:  DefaultStrategyTimeout,
		fanoutLimit:      DefaultFanoutLimit,
		expandedPageSize: DefaultExpandedPageSize,
		expandedFloor:    DefaultExpandedFloor,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs the full pipeline for a validated query. It never returns an
// error: an unexpected internal failure yields an empty, degraded Response.
func (s *Service) Search(ctx context.Context, q *query.Query) Response {
	started := time.Now()
	alg := string(q.Algorithm())

	key := q.CacheKey()
	if q.EnableCache() {
		if cached, ok := s.cache.Get(key); ok {
			metrics.ResultCacheTotal.WithLabelValues("hit").Inc()
			metrics.SearchesTotal.WithLabelValues(alg, "ok").Inc()
			metrics.SearchDuration.WithLabelValues(alg).Observe(time.Since(started).Seconds())
			return Response{
				Results:    cached,
				TotalFound: len(cached),
				FromCache:  true,
				TookMs:     time.Since(started).Milliseconds(),
			}
		}
		metrics.ResultCacheTotal.WithLabelValues("miss").Inc()
	}

	resp := s.run(ctx, q, key)
	resp.TookMs = time.Since(started).Milliseconds()

	outcome := "ok"
	if resp.Degraded {
		outcome = "degraded"
	}
	metrics.SearchesTotal.WithLabelValues(alg, outcome).Inc()
	metrics.SearchDuration.WithLabelValues(alg).Observe(time.Since(started).Seconds())

	logger.FromContext(ctx).Debug("search completed",
		zap.String("algorithm", alg),
		zap.Int("total_found", resp.TotalFound),
		zap.Int("returned", len(resp.Results)),
		zap.Bool("degraded", resp.Degraded),
		zap.Int64("took_ms", resp.TookMs))

	return resp
}

// run executes the miss path. A panic anywhere in the pipeline is absorbed
// into an empty degraded response so the search stays answerable.
func (s *Service) run(ctx context.Context, q *query.Query, key string) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error("search pipeline failure",
				zap.Any("panic", r))
			resp = Response{Results: []result.Scored{}, Degraded: true}
		}
	}()

	prof := intent.Classify(q.Text())

	sightings := s.retrieve(ctx, q, &prof)
	scored := scoreAll(sightings, q, &prof)
	deduped := dedupe(scored)
	final, total := finalize(deduped, q)

	if q.EnableCache() && len(final) > 0 {
		s.cache.Set(key, final, s.cacheTTL)
	}

	return Response{
		Results:    final,
		TotalFound: total,
	}
}
