package promptdex

import (
	"context"
	"fmt"
	"time"

	"github.com/promptdex/promptdex/internal/domain"
)

// Message is one entry of a prompt template.
type Message struct {
	Role    string
	Content string
}

// Prompt is a stored prompt record.
type Prompt struct {
	ID          string
	Name        string
	Description string
	Category    string
	Tags        []string
	Messages    []Message
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreatePrompt validates and stores a new prompt record.
func (c *Client) CreatePrompt(ctx context.Context, p Prompt) (Prompt, error) {
	created, err := c.promptSvc.Create(ctx, p.Name, p.Description, p.Category, p.Tags, toMessages(p.Messages))
	if err != nil {
		return Prompt{}, fmt.Errorf("create prompt: %w", err)
	}
	return fromPrompt(&created), nil
}

// GetPrompt returns one prompt record by ID.
func (c *Client) GetPrompt(ctx context.Context, id string) (Prompt, error) {
	p, err := c.promptSvc.Get(ctx, id)
	if err != nil {
		return Prompt{}, fmt.Errorf("get prompt: %w", err)
	}
	return fromPrompt(&p), nil
}

// DeletePrompt removes a prompt record.
func (c *Client) DeletePrompt(ctx context.Context, id string) error {
	if err := c.promptSvc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}
	return nil
}

// ListPrompts returns up to limit prompt records.
func (c *Client) ListPrompts(ctx context.Context, limit int) ([]Prompt, error) {
	list, err := c.promptSvc.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	out := make([]Prompt, 0, len(list))
	for i := range list {
		out = append(out, fromPrompt(&list[i]))
	}
	return out, nil
}

func toMessages(in []Message) []domain.Message {
	out := make([]domain.Message, 0, len(in))
	for _, m := range in {
		out = append(out, domain.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

func fromPrompt(p *domain.Prompt) Prompt {
	msgs := make([]Message, 0, len(p.Messages()))
	for _, m := range p.Messages() {
		msgs = append(msgs, Message{Role: m.Role, Content: m.Content})
	}
	return Prompt{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Category:    p.Category(),
		Tags:        p.Tags(),
		Messages:    msgs,
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}
