package prompt

import (
	"encoding/json"
	"time"

	"github.com/promptdex/promptdex/internal/domain"
)

// Hash field names for a stored prompt record.
const (
	fieldName        = "name"
	fieldDescription = "description"
	fieldCategory    = "category"
	fieldTags        = "tags"
	fieldMessages    = "messages"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"
)

type messageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// buildHashFields converts a domain Prompt into a flat map[string]string for HSET.
func buildHashFields(p *domain.Prompt) (map[string]string, error) {
	tags, err := json.Marshal(p.Tags())
	if err != nil {
		return nil, err
	}

	msgs := make([]messageDTO, len(p.Messages()))
	for i, m := range p.Messages() {
		msgs[i] = messageDTO{Role: m.Role, Content: m.Content}
	}
	messages, err := json.Marshal(msgs)
	if err != nil {
		return nil, err
	}

	return map[string]string{
		fieldName:        p.Name(),
		fieldDescription: p.Description(),
		fieldCategory:    p.Category(),
		fieldTags:        string(tags),
		fieldMessages:    string(messages),
		fieldCreatedAt:   p.CreatedAt().UTC().Format(time.RFC3339),
		fieldUpdatedAt:   p.UpdatedAt().UTC().Format(time.RFC3339),
	}, nil
}

// parseHashFields converts a flat hash map back into a domain Prompt.
// Malformed fields degrade to zero values rather than failing hydration.
func parseHashFields(id string, m map[string]string) domain.Prompt {
	var tags []string
	_ = json.Unmarshal([]byte(m[fieldTags]), &tags)

	var dtos []messageDTO
	_ = json.Unmarshal([]byte(m[fieldMessages]), &dtos)
	messages := make([]domain.Message, len(dtos))
	for i, d := range dtos {
		messages[i] = domain.Message{Role: d.Role, Content: d.Content}
	}

	createdAt, _ := time.Parse(time.RFC3339, m[fieldCreatedAt])
	updatedAt, _ := time.Parse(time.RFC3339, m[fieldUpdatedAt])

	return domain.ReconstructPrompt(
		id, m[fieldName], m[fieldDescription], m[fieldCategory],
		tags, messages, createdAt, updatedAt,
	)
}
