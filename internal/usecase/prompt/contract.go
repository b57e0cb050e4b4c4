package prompt

import (
	"context"

	"github.com/promptdex/promptdex/internal/domain"
)

// Repository defines the storage contract for prompt records.
type Repository interface {
	Create(ctx context.Context, p domain.Prompt) (domain.Prompt, error)
	Get(ctx context.Context, id string) (domain.Prompt, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int) ([]domain.Prompt, error)
}
