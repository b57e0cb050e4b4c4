package search

import (
	"context"
	"time"

	"github.com/promptdex/promptdex/internal/domain"
	"github.com/promptdex/promptdex/internal/domain/search/result"
)

// Repository defines the storage contract for retrieval calls. All three may
// fail; failures are absorbed per call site as zero candidates.
type Repository interface {
	// SearchText performs a basic lexical search.
	SearchText(ctx context.Context, text string) ([]domain.Prompt, error)

	// ListByCategory returns prompts of a category (exact, case-insensitive).
	ListByCategory(ctx context.Context, category string) ([]domain.Prompt, error)

	// ListByFilter returns up to pageSize prompts carrying any of the tags;
	// with no tags it returns a bounded page of all records.
	ListByFilter(ctx context.Context, tags []string, pageSize int) ([]domain.Prompt, error)
}

// ResultCache stores computed result sets keyed by query cache key.
type ResultCache interface {
	Get(key string) ([]result.Scored, bool)
	Set(key string, results []result.Scored, ttl time.Duration)
}
