// Package prompt manages the prompt library records that the search engine
// indexes.
package prompt

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/promptdex/promptdex/internal/domain"
	"github.com/promptdex/promptdex/internal/logger"
)

// DefaultListLimit bounds unpaginated listings.
const DefaultListLimit = 100

// Service exposes prompt record management.
type Service struct {
	repo Repository
}

// NewService creates the prompt service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new prompt record.
func (s *Service) Create(ctx context.Context, name, description, category string, tags []string, messages []domain.Message) (domain.Prompt, error) {
	p, err := domain.NewPrompt(name, description, category, tags, messages)
	if err != nil {
		return domain.Prompt{}, err
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Prompt{}, fmt.Errorf("create prompt: %w", err)
	}

	logger.FromContext(ctx).Info("prompt created",
		zap.String("id", created.ID()),
		zap.String("category", created.Category()))
	return created, nil
}

// Get returns one prompt record by ID.
func (s *Service) Get(ctx context.Context, id string) (domain.Prompt, error) {
	if id == "" {
		return domain.Prompt{}, fmt.Errorf("%w: id is required", domain.ErrInvalidPrompt)
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a prompt record and its index entries.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", domain.ErrInvalidPrompt)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("prompt deleted", zap.String("id", id))
	return nil
}

// List returns up to limit prompt records; limit defaults to DefaultListLimit.
func (s *Service) List(ctx context.Context, limit int) ([]domain.Prompt, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	return s.repo.List(ctx, limit)
}
