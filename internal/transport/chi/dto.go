package chi

import (
	"time"

	"github.com/promptdex/promptdex/internal/domain"
	"github.com/promptdex/promptdex/internal/domain/search/result"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeEmptyQuery       = "empty_query"
	codeNotFound         = "not_found"
	codeAlreadyExists    = "already_exists"
	codeInternalError    = "internal_error"
)

// SearchRequest is the POST /v1/search body.
type SearchRequest struct {
	Query         string   `json:"query"`
	Algorithm     string   `json:"algorithm,omitempty"`
	Category      string   `json:"category,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	MaxResults    int      `json:"max_results,omitempty"`
	MinConfidence float64  `json:"min_confidence,omitempty"`
	SortBy        string   `json:"sort_by,omitempty"`
	// EnableCache defaults to true when omitted.
	EnableCache *bool `json:"enable_cache,omitempty"`
}

// SearchResultItem is one scored hit on the wire.
type SearchResultItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Score        float64   `json:"score"`
	Confidence   float64   `json:"confidence"`
	Source       string    `json:"source"`
	MatchReasons []string  `json:"match_reasons"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// SearchResponse is the POST /v1/search reply. Success is true whenever the
// search was answerable, including zero-result and degraded outcomes.
type SearchResponse struct {
	Success    bool               `json:"success"`
	Results    []SearchResultItem `json:"results"`
	TotalFound int                `json:"total_found"`
	FromCache  bool               `json:"from_cache"`
	TookMs     int64              `json:"took_ms"`
	Degraded   bool               `json:"degraded,omitempty"`
}

// MessageDTO is one prompt template message on the wire.
type MessageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CreatePromptRequest is the POST /v1/prompts body.
type CreatePromptRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Category    string       `json:"category,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Messages    []MessageDTO `json:"messages"`
}

// PromptResponse is a stored prompt record on the wire.
type PromptResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Category    string       `json:"category,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Messages    []MessageDTO `json:"messages"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// PromptListResponse is the GET /v1/prompts reply.
type PromptListResponse struct {
	Items []PromptResponse `json:"items"`
	Total int              `json:"total"`
}

func resultToDTO(r *result.Scored) SearchResultItem {
	p := r.Prompt()
	return SearchResultItem{
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
	}
}

func promptToDTO(p *domain.Prompt) PromptResponse {
	msgs := make([]MessageDTO, 0, len(p.Messages()))
	for _, m := range p.Messages() {
		msgs = append(msgs, MessageDTO{Role: m.Role, Content: m.Content})
	}
	return PromptResponse{
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

func messagesFromDTO(in []MessageDTO) []domain.Message {
	out := make([]domain.Message, 0, len(in))
	for _, m := range in {
		out = append(out, domain.Message{Role: m.Role, Content: m.Content})
	}
	return out
}
