package search

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/promptdex/promptdex/internal/domain"
	"github.com/promptdex/promptdex/internal/domain/search/algorithm"
	"github.com/promptdex/promptdex/internal/domain/search/intent"
	"github.com/promptdex/promptdex/internal/domain/search/query"
	"github.com/promptdex/promptdex/internal/domain/search/result"
	"github.com/promptdex/promptdex/internal/logger"
	"github.com/promptdex/promptdex/internal/metrics"
)

// Retrieval defaults. All are overridable via Service options.
const (
	DefaultStrategyTimeout  = 5 * time.Second
	DefaultFanoutLimit      = 8
	DefaultExpandedPageSize = 50
	DefaultExpandedFloor    = 3

	// maxKeywordCalls bounds the per-keyword search fan-out on the smart path.
	maxKeywordCalls = 6
)

// requestMarkers flag natural-language phrasing, bilingual.
var requestMarkers = []string{
	"please", "help", "how to", "i want", "i need", "can you",
	"我", "请", "帮", "如何", "怎么", "给我",
}

// retrievalCall is one independent storage call. Failures are absorbed as
// zero candidates.
type retrievalCall struct {
	strategy string
	source   result.Source
	run      func(ctx context.Context) ([]domain.Prompt, error)
}

// retrieve fans out the retrieval calls selected for the query's algorithm,
// joins them, and returns every sighting in call order. It never fails: a
// strategy error or timeout only degrades recall.
func (s *Service) retrieve(ctx context.Context, q *query.Query, prof *intent.Profile) []sighting {
	calls := s.planCalls(q, prof)
	sightings := s.runCalls(ctx, calls)

	// Last-resort bounded scan when the primary strategies under-deliver.
	if q.Algorithm() == algorithm.Smart && countDistinct(sightings) < s.expandedFloor {
		expanded := s.runCalls(ctx, []retrievalCall{{
			strategy: "expanded",
			source:   result.SourceExpanded,
			run: func(ctx context.Context) ([]domain.Prompt, error) {
				return s.repo.ListByFilter(ctx, nil, s.expandedPageSize)
			},
		}})
		sightings = append(sightings, expanded...)
	}
	return sightings
}

// planCalls selects the base strategy calls for the algorithm and appends the
// intent-driven and user-filter calls every search issues.
func (s *Service) planCalls(q *query.Query, prof *intent.Profile) []retrievalCall {
	var calls []retrievalCall

	text := q.Text()
	switch q.Algorithm() {
	case algorithm.Keyword:
		calls = append(calls, s.textCall("keyword", result.SourceKeyword, text))
	case algorithm.Semantic:
		calls = append(calls, s.textCall("semantic", result.SourceSemantic, text))
	case algorithm.Hybrid:
		calls = append(calls,
			s.textCall("keyword", result.SourceKeyword, text),
			s.textCall("semantic", result.SourceSemantic, text))
	default: // smart
		calls = append(calls, s.smartCalls(q, prof)...)
	}

	for _, cat := range prof.Categories() {
		calls = append(calls, s.categoryCall("category", result.SourceCategory, cat))
	}
	if tags := prof.Tags(); len(tags) > 0 {
		calls = append(calls, s.tagCall("tag", result.SourceTag, tags))
	}
	if cat := q.Category(); cat != "" {
		calls = append(calls, s.categoryCall("filter", result.SourceFilter, cat))
	}
	if tags := q.Tags(); len(tags) > 0 {
		calls = append(calls, s.tagCall("filter", result.SourceFilter, tags))
	}
	return calls
}

// smartCalls picks retrieval breadth from the query shape: natural-language
// queries take the semantic path, queries with keyword-like tokens also fan
// out one bounded text search per semantic keyword.
func (s *Service) smartCalls(q *query.Query, prof *intent.Profile) []retrievalCall {
	var calls []retrievalCall
	text := q.Text()
	tokens := intent.Tokenize(text)

	if looksNaturalLanguage(q.Normalized(), len(tokens)) {
		calls = append(calls, s.textCall("semantic", result.SourceSemantic, text))
	}
	if len(tokens) > 0 {
		calls = append(calls, s.textCall("keyword", result.SourceKeyword, text))
		kws := prof.Keywords()
		if len(kws) > maxKeywordCalls {
			kws = kws[:maxKeywordCalls]
		}
		for _, kw := range kws {
			if strings.EqualFold(kw, text) {
				continue
			}
			calls = append(calls, s.textCall("keyword", result.SourceKeyword, kw))
		}
	}
	if len(calls) == 0 {
		calls = append(calls, s.textCall("semantic", result.SourceSemantic, text))
	}
	return calls
}

func looksNaturalLanguage(normalized string, tokenCount int) bool {
	if tokenCount > 3 {
		return true
	}
	for _, m := range requestMarkers {
		if strings.Contains(normalized, m) {
			return true
		}
	}
	return false
}

func (s *Service) textCall(strategy string, src result.Source, text string) retrievalCall {
	return retrievalCall{strategy: strategy, source: src, run: func(ctx context.Context) ([]domain.Prompt, error) {
		return s.repo.SearchText(ctx, text)
	}}
}

func (s *Service) categoryCall(strategy string, src result.Source, category string) retrievalCall {
	return retrievalCall{strategy: strategy, source: src, run: func(ctx context.Context) ([]domain.Prompt, error) {
		return s.repo.ListByCategory(ctx, category)
	}}
}

func (s *Service) tagCall(strategy string, src result.Source, tags []string) retrievalCall {
	return retrievalCall{strategy: strategy, source: src, run: func(ctx context.Context) ([]domain.Prompt, error) {
		return s.repo.ListByFilter(ctx, tags, s.expandedPageSize)
	}}
}

// runCalls executes the calls concurrently with a bounded fan-out and a
// per-call timeout, then concatenates per-call results in call order.
func (s *Service) runCalls(ctx context.Context, calls []retrievalCall) []sighting {
	if len(calls) == 0 {
		return nil
	}

	slots := make([][]sighting, len(calls))
	g := &errgroup.Group{}
	g.SetLimit(s.fanoutLimit)

	for i, call := range calls {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, s.strategyTimeout)
			defer cancel()

			prompts, err := call.run(cctx)
			if err != nil {
				logger.FromContext(ctx).Warn("retrieval strategy failed",
					zap.String("strategy", call.strategy),
					zap.Error(err))
				metrics.StrategyFailuresTotal.WithLabelValues(call.strategy).Inc()
				return nil
			}
			out := make([]sighting, 0, len(prompts))
			for _, p := range prompts {
				out = append(out, sighting{prompt: p, source: call.source})
			}
			slots[i] = out
			return nil
		})
	}
	_ = g.Wait()

	var all []sighting
	for _, slot := range slots {
		all = append(all, slot...)
	}
	return all
}

func countDistinct(sightings []sighting) int {
	seen := make(map[string]struct{}, len(sightings))
	for i := range sightings {
		p := sightings[i].prompt
		key := p.ID()
		if key == "" {
			key = p.Name()
		}
		if key == "" {
			continue
		}
		seen[key] = struct{}{}
	}
	return len(seen)
}
