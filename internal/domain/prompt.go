package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxContentPreview is the maximum length in runes of the flattened content
// projection used for scoring.
const MaxContentPreview = 500

// MaxNameLength is the maximum prompt name length.
const MaxNameLength = 256

// Message is a single entry of a prompt template's message structure.
type Message struct {
	Role    string
	Content string
}

// Prompt is an immutable prompt record (or its read-only search projection).
type Prompt struct {
	id          string
	name        string
	description string
	category    string
	tags        []string
	messages    []Message
	content     string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewPrompt validates and creates a Prompt. The ID and timestamps are
// assigned by the repository on create.
func NewPrompt(name, description, category string, tags []string, messages []Message) (Prompt, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Prompt{}, fmt.Errorf("%w: name is required", ErrInvalidPrompt)
	}
	if len(name) > MaxNameLength {
		return Prompt{}, fmt.Errorf("%w: name too long (max %d)", ErrInvalidPrompt, MaxNameLength)
	}
	if len(messages) == 0 {
		return Prompt{}, fmt.Errorf("%w: at least one message is required", ErrInvalidPrompt)
	}
	for i, m := range messages {
		if m.Content == "" {
			return Prompt{}, fmt.Errorf("%w: message %d has no content", ErrInvalidPrompt, i)
		}
	}

	return Prompt{
		name:        name,
		description: description,
		category:    category,
		tags:        cloneStrings(tags),
		messages:    cloneMessages(messages),
		content:     FlattenMessages(messages),
	}, nil
}

// ReconstructPrompt creates a Prompt without validation (storage hydration).
func ReconstructPrompt(
	id, name, description, category string, tags []string,
	messages []Message, createdAt, updatedAt time.Time,
) Prompt {
	return Prompt{
		id:          id,
		name:        name,
		description: description,
		category:    category,
		tags:        tags,
		messages:    messages,
		content:     FlattenMessages(messages),
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// FlattenMessages joins message contents into a single bounded text preview.
func FlattenMessages(messages []Message) string {
	var b strings.Builder
	for _, m := range messages {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(m.Content)
	}
	runes := []rune(b.String())
	if len(runes) > MaxContentPreview {
		return string(runes[:MaxContentPreview])
	}
	return b.String()
}

// WithIdentity returns a copy with storage-assigned identity and timestamps.
func (p Prompt) WithIdentity(id string, createdAt, updatedAt time.Time) Prompt {
	p.id = id
	p.createdAt = createdAt
	p.updatedAt = updatedAt
	return p
}

// ID returns the record identifier.
func (p *Prompt) ID() string { return p.id }

// Name returns the prompt name.
func (p *Prompt) Name() string { return p.name }

// Description returns the prompt description.
func (p *Prompt) Description() string { return p.description }

// Category returns the prompt category.
func (p *Prompt) Category() string { return p.category }

// Tags returns the prompt tags. Order is not significant.
func (p *Prompt) Tags() []string { return p.tags }

// Messages returns the prompt message structure.
func (p *Prompt) Messages() []Message { return p.messages }

// Content returns the flattened, bounded content preview used for scoring.
func (p *Prompt) Content() string { return p.content }

// CreatedAt returns the creation timestamp (zero when unknown).
func (p *Prompt) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last-update timestamp (zero when unknown).
func (p *Prompt) UpdatedAt() time.Time { return p.updatedAt }

// HasTag reports whether the prompt carries the given tag (case-insensitive).
func (p *Prompt) HasTag(tag string) bool {
	for _, t := range p.tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneMessages(in []Message) []Message {
	if in == nil {
		return nil
	}
	out := make([]Message, len(in))
	copy(out, in)
	return out
}
