package query

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"

	"github.com/promptdex/promptdex/internal/domain"
	"github.com/promptdex/promptdex/internal/domain/search/algorithm"
)

// Search parameter limits.
const (
	// MaxTextLength is the maximum allowed query text length.
	MaxTextLength = 1024
	DefaultMaxResults = 5
	MaxMaxResults     = 20
	// DefaultMinConfidence is the threshold applied when none is given.
	// The source product shipped both 0.3 and 0.6 for its "smart" mode; this
	// engine standardizes on 0.3 (overridable per query and via config).
	DefaultMinConfidence = 0.3
)

// Order is the result sort order.
type Order string

// Sort order constants.
const (
	ByRelevance Order = "relevance"
	ByName      Order = "name"
	ByCreatedAt Order = "createdAt"
	ByUpdatedAt Order = "updatedAt"
)

// IsValid checks if the order is one of the supported values.
func (o Order) IsValid() bool {
	return o == ByRelevance || o == ByName || o == ByCreatedAt || o == ByUpdatedAt
}

// Query is a validated, immutable search query.
type Query struct {
	text          string
	alg           algorithm.Algorithm
	category      string
	tags          []string
	maxResults    int
	minConfidence float64
	sortBy        Order
	enableCache   bool
}

// New validates and normalizes search parameters.
// Defaults: algorithm=smart, maxResults=5 (clamped to [1,20]),
// minConfidence=0.3 when unset, sortBy=relevance, cache enabled.
func New(
	text string,
	alg algorithm.Algorithm,
	category string,
	tags []string,
	maxResults int,
	minConfidence float64,
	sortBy Order,
	enableCache bool,
) (Query, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Query{}, domain.ErrEmptyQuery
	}
	if len(text) > MaxTextLength {
		return Query{}, fmt.Errorf("%w: text too long (max %d chars)", domain.ErrInvalidQuery, MaxTextLength)
	}
	if alg == "" {
		alg = algorithm.Smart
	}
	if !alg.IsValid() {
		return Query{}, fmt.Errorf("%w: unknown algorithm %q", domain.ErrInvalidQuery, alg)
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > MaxMaxResults {
		maxResults = MaxMaxResults
	}
	if minConfidence == 0 {
		minConfidence = DefaultMinConfidence
	}
	if minConfidence < 0 || minConfidence > 1 {
		return Query{}, fmt.Errorf("%w: min_confidence must be between 0 and 1", domain.ErrInvalidQuery)
	}
	if sortBy == "" {
		sortBy = ByRelevance
	}
	if !sortBy.IsValid() {
		return Query{}, fmt.Errorf("%w: unknown sort order %q", domain.ErrInvalidQuery, sortBy)
	}

	return Query{
		text:          text,
		alg:           alg,
		category:      category,
		tags:          cloneSorted(tags),
		maxResults:    maxResults,
		minConfidence: minConfidence,
		sortBy:        sortBy,
		enableCache:   enableCache,
	}, nil
}

// Text returns the raw (trimmed) query text.
func (q *Query) Text() string { return q.text }

// Algorithm returns the retrieval strategy selection.
func (q *Query) Algorithm() algorithm.Algorithm { return q.alg }

// Category returns the user-supplied category filter ("" when unset).
func (q *Query) Category() string { return q.category }

// Tags returns the user-supplied tag filters, sorted.
func (q *Query) Tags() []string { return q.tags }

// MaxResults returns the clamped result limit.
func (q *Query) MaxResults() int { return q.maxResults }

// MinConfidence returns the minimum confidence threshold.
func (q *Query) MinConfidence() float64 { return q.minConfidence }

// SortBy returns the result sort order.
func (q *Query) SortBy() Order { return q.sortBy }

// EnableCache reports whether the result cache may serve this query.
func (q *Query) EnableCache() bool { return q.enableCache }

// Normalized returns the lowercased query text with collapsed whitespace.
func (q *Query) Normalized() string {
	return strings.Join(strings.Fields(strings.ToLower(q.text)), " ")
}

// CacheKey returns a deterministic key over the fields that affect results:
// normalized text, algorithm, category, sorted tags, maxResults, minConfidence.
func (q *Query) CacheKey() string {
	h := fnv.New64a()
	parts := []string{
		q.Normalized(),
		string(q.alg),
		strings.ToLower(q.category),
		strings.ToLower(strings.Join(q.tags, ",")),
		strconv.Itoa(q.maxResults),
		strconv.FormatFloat(q.minConfidence, 'f', 4, 64),
	}
	_, _ = h.Write([]byte(strings.Join(parts, "|")))
	return strconv.FormatUint(h.Sum64(), 16)
}

func cloneSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
