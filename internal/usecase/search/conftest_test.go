package search

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/promptdex/promptdex/internal/domain"
	"github.com/promptdex/promptdex/internal/domain/search/result"
)

// fakeRepo is an in-memory Repository with the same lexical matching
// semantics as the redis-backed repository. Retrieval calls run concurrently
// but only ever read the fixture slice.
type fakeRepo struct {
	prompts []domain.Prompt

	searchErr     error
	panicOnSearch bool
}

func (f *fakeRepo) SearchText(_ context.Context, text string) ([]domain.Prompt, error) {
	if f.panicOnSearch {
		panic("storage blew up")
	}
	if f.searchErr != nil {
		return nil, f.searchErr
	}

	var out []domain.Prompt
	for _, p := range f.prompts {
		if matchesText(&p, text) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByCategory(_ context.Context, category string) ([]domain.Prompt, error) {
	var out []domain.Prompt
	for _, p := range f.prompts {
		if strings.EqualFold(p.Category(), category) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByFilter(_ context.Context, tags []string, pageSize int) ([]domain.Prompt, error) {
	var out []domain.Prompt
	for _, p := range f.prompts {
		if len(tags) > 0 && !hasAnyTag(&p, tags) {
			continue
		}
		out = append(out, p)
		if pageSize > 0 && len(out) >= pageSize {
			break
		}
	}
	return out, nil
}

func matchesText(p *domain.Prompt, text string) bool {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return false
	}
	hay := strings.ToLower(strings.Join([]string{
		p.Name(), p.Description(), p.Content(), p.Category(), strings.Join(p.Tags(), " "),
	}, " "))
	if strings.Contains(hay, needle) {
		return true
	}
	for _, tok := range strings.FieldsFunc(needle, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if strings.Contains(hay, tok) {
			return true
		}
	}
	return false
}

func hasAnyTag(p *domain.Prompt, tags []string) bool {
	for _, t := range tags {
		if p.HasTag(t) {
			return true
		}
	}
	return false
}

// fakeCache is a plain map cache without expiry or sweeping.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]result.Scored
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]result.Scored)}
}

func (c *fakeCache) Get(key string) ([]result.Scored, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rs, ok := c.entries[key]
	return rs, ok
}

func (c *fakeCache) Set(key string, rs []result.Scored, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = rs
}

func mkPrompt(id, name, desc, category string, tags []string, body string, created, updated time.Time) domain.Prompt {
	return domain.ReconstructPrompt(id, name, desc, category, tags,
		[]domain.Message{{Role: "user", Content: body}}, created, updated)
}

func libraryFixtures() []domain.Prompt {
	return []domain.Prompt{
		mkPrompt("p-biz", "Business Email Writer",
			"Write a professional business email",
			"business", []string{"email", "professional"},
			"Write a professional business email about {{topic}}",
			time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
		mkPrompt("p-code", "Code Review Helper",
			"Review code for bugs and style issues",
			"programming", []string{"code", "detailed"},
			"Review the following code and list issues: {{code}}",
			time.Date(2023, 11, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		mkPrompt("p-blog", "Blog Outline Maker",
			"Draft blog article outlines",
			"writing", []string{"writing", "quick"},
			"Draft an outline for a blog article about {{topic}}",
			time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)),
	}
}

func resultNames(rs []result.Scored) []string {
	out := make([]string, 0, len(rs))
	for i := range rs {
		p := rs[i].Prompt()
		out = append(out, p.Name())
	}
	return out
}
