package promptdex

import (
	"context"
	"fmt"
	"time"

	"github.com/promptdex/promptdex/internal/domain/search/algorithm"
	"github.com/promptdex/promptdex/internal/domain/search/query"
	"github.com/promptdex/promptdex/internal/domain/search/result"
)

// Algorithm selects the retrieval strategy.
type Algorithm string

// Supported algorithms.
const (
	Smart    Algorithm = "smart"
	Semantic Algorithm = "semantic"
	Keyword  Algorithm = "keyword"
	Hybrid   Algorithm = "hybrid"
)

// SortOrder selects the result ordering.
type SortOrder string

// Supported sort orders.
const (
	ByRelevance SortOrder = "relevance"
	ByName      SortOrder = "name"
	ByCreatedAt SortOrder = "createdAt"
	ByUpdatedAt SortOrder = "updatedAt"
)

// SearchOptions configures a search. The zero value gives smart search with
// the default limits and caching enabled.
type SearchOptions struct {
	Algorithm     Algorithm
	Category      string
	Tags          []string
	MaxResults    int
	MinConfidence float64
	SortBy        SortOrder
	DisableCache  bool
}

// SearchResult is one scored hit.
type SearchResult struct {
	ID           string
	Name         string
	Description  string
	Category     string
	Tags         []string
	Score        float64
	Confidence   float64
	Source       string
	MatchReasons []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SearchResponse is the outcome of one search.
type SearchResponse struct {
	Results    []SearchResult
	TotalFound int
	FromCache  bool
	TookMs     int64
	// Degraded marks an internal failure absorbed into an empty result set.
	Degraded bool
}

// Search runs the search pipeline. It returns an error only for invalid
// input; an answerable search with zero hits is not an error.
func (c *Client) Search(ctx context.Context, text string, opts *SearchOptions) (SearchResponse, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}

	minConfidence := opts.MinConfidence
	if minConfidence == 0 {
		minConfidence = c.minConfidence
	}

	q, err := query.New(
		text,
		algorithm.Algorithm(opts.Algorithm),
		opts.Category,
		opts.Tags,
		opts.MaxResults,
		minConfidence,
		query.Order(opts.SortBy),
		!opts.DisableCache,
	)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search: %w", err)
	}

	resp := c.searchSvc.Search(ctx, &q)
	return SearchResponse{
		Results:    fromScored(resp.Results),
		TotalFound: resp.TotalFound,
		FromCache:  resp.FromCache,
		TookMs:     resp.TookMs,
		Degraded:   resp.Degraded,
	}, nil
}

func fromScored(in []result.Scored) []SearchResult {
	out := make([]SearchResult, 0, len(in))
	for i := range in {
		r := &in[i]
		p := r.Prompt()
		out = append(out, SearchResult{
			ID:           p.ID(),
			Name:         p.Name(),
			Description:  p.Description(),
			Category:     p.Category(),
			Tags:         p.Tags(),
			Score:        r.Score(),
			Confidence:   r.Confidence(),
			Source:       string(r.Source()),
			MatchReasons: r.MatchReasons(),
			CreatedAt:    p.CreatedAt(),
			UpdatedAt:    p.UpdatedAt(),
		})
	}
	return out
}
