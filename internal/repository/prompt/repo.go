package prompt

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/promptdex/promptdex/internal/domain"
	"github.com/promptdex/promptdex/internal/domain/search/intent"
)

// store is the consumer interface for prompt records (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SCard(ctx context.Context, key string) (int64, error)
}

// defaultTextPageSize bounds how many records a text search inspects.
const defaultTextPageSize = 200

// Repo implements the prompt storage collaborator: CRUD plus the three
// retrieval calls the search pipeline fans out to.
type Repo struct {
	store        store
	prefix       string
	textPageSize int
}

// New creates a prompt repository.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = "promptdex:"
	}
	return &Repo{store: s, prefix: prefix, textPageSize: defaultTextPageSize}
}

// WithTextPageSize overrides the bounded page inspected by SearchText.
func (r *Repo) WithTextPageSize(n int) *Repo {
	if n > 0 {
		r.textPageSize = n
	}
	return r
}

// Create persists a new prompt and returns it with assigned identity.
// Names are unique (case-insensitive): a second prompt with the same name
// fails with domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, p domain.Prompt) (domain.Prompt, error) {
	nameKey := r.nameKey(p.Name())
	taken, err := r.store.Exists(ctx, nameKey)
	if err != nil {
		return domain.Prompt{}, fmt.Errorf("exists %s: %w", p.Name(), err)
	}
	if taken {
		return domain.Prompt{}, fmt.Errorf("prompt %q: %w", p.Name(), domain.ErrAlreadyExists)
	}

	now := time.Now().UTC()
	p = p.WithIdentity(uuid.NewString(), now, now)

	fields, err := buildHashFields(&p)
	if err != nil {
		return domain.Prompt{}, fmt.Errorf("marshal prompt: %w", err)
	}
	if err := r.store.HSet(ctx, r.promptKey(p.ID()), fields); err != nil {
		return domain.Prompt{}, fmt.Errorf("hset %s: %w", p.ID(), err)
	}
	if err := r.store.HSet(ctx, nameKey, map[string]string{"id": p.ID()}); err != nil {
		return domain.Prompt{}, fmt.Errorf("hset name %s: %w", p.Name(), err)
	}
	if err := r.index(ctx, &p); err != nil {
		return domain.Prompt{}, err
	}
	return p, nil
}

// Get returns a prompt by ID.
func (r *Repo) Get(ctx context.Context, id string) (domain.Prompt, error) {
	m, err := r.store.HGetAll(ctx, r.promptKey(id))
	if err != nil {
		return domain.Prompt{}, fmt.Errorf("hgetall %s: %w", id, err)
	}
	if len(m) == 0 {
		return domain.Prompt{}, domain.ErrNotFound
	}
	return parseHashFields(id, m), nil
}

// Delete removes a prompt and its index entries.
func (r *Repo) Delete(ctx context.Context, id string) error {
	p, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := r.store.Del(ctx, r.promptKey(id)); err != nil {
		return fmt.Errorf("del %s: %w", id, err)
	}
	if err := r.store.Del(ctx, r.nameKey(p.Name())); err != nil {
		return fmt.Errorf("del name %s: %w", p.Name(), err)
	}
	if err := r.store.SRem(ctx, r.allKey(), id); err != nil {
		return fmt.Errorf("srem all: %w", err)
	}
	if c := p.Category(); c != "" {
		if err := r.store.SRem(ctx, r.categoryKey(c), id); err != nil {
			return fmt.Errorf("srem category: %w", err)
		}
	}
	for _, t := range p.Tags() {
		if err := r.store.SRem(ctx, r.tagKey(t), id); err != nil {
			return fmt.Errorf("srem tag %s: %w", t, err)
		}
	}
	return nil
}

// Count returns the number of stored prompts.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	n, err := r.store.SCard(ctx, r.allKey())
	if err != nil {
		return 0, fmt.Errorf("scard all: %w", err)
	}
	return n, nil
}

// List returns up to limit prompts in stable (ID-sorted) order.
func (r *Repo) List(ctx context.Context, limit int) ([]domain.Prompt, error) {
	ids, err := r.store.SMembers(ctx, r.allKey())
	if err != nil {
		return nil, fmt.Errorf("smembers all: %w", err)
	}
	sort.Strings(ids)
	return r.hydrate(ctx, capIDs(ids, limit))
}

// SearchText performs a basic lexical search over a bounded page of records.
// Matching is case-insensitive: the whole normalized query as a substring of
// name/description/content/category, or any query token of length > 1.
func (r *Repo) SearchText(ctx context.Context, text string) ([]domain.Prompt, error) {
	page, err := r.List(ctx, r.textPageSize)
	if err != nil {
		return nil, err
	}

	needle := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	if needle == "" {
		return nil, nil
	}
	tokens := intent.Tokenize(needle)

	var out []domain.Prompt
	for _, p := range page {
		if matchesText(&p, needle, tokens) {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListByCategory returns prompts belonging to a category (exact, case-insensitive).
func (r *Repo) ListByCategory(ctx context.Context, category string) ([]domain.Prompt, error) {
	if category == "" {
		return nil, nil
	}
	ids, err := r.store.SMembers(ctx, r.categoryKey(category))
	if err != nil {
		return nil, fmt.Errorf("smembers category %s: %w", category, err)
	}
	sort.Strings(ids)
	return r.hydrate(ctx, ids)
}

// ListByFilter returns up to pageSize prompts carrying any of the given tags.
// With no tags it returns a bounded page of all records (the expanded
// fallback path).
func (r *Repo) ListByFilter(ctx context.Context, tags []string, pageSize int) ([]domain.Prompt, error) {
	if len(tags) == 0 {
		return r.List(ctx, pageSize)
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, t := range tags {
		members, err := r.store.SMembers(ctx, r.tagKey(t))
		if err != nil {
			return nil, fmt.Errorf("smembers tag %s: %w", t, err)
		}
		for _, id := range members {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return r.hydrate(ctx, capIDs(ids, pageSize))
}

func (r *Repo) index(ctx context.Context, p *domain.Prompt) error {
	if err := r.store.SAdd(ctx, r.allKey(), p.ID()); err != nil {
		return fmt.Errorf("sadd all: %w", err)
	}
	if c := p.Category(); c != "" {
		if err := r.store.SAdd(ctx, r.categoryKey(c), p.ID()); err != nil {
			return fmt.Errorf("sadd category: %w", err)
		}
	}
	for _, t := range p.Tags() {
		if err := r.store.SAdd(ctx, r.tagKey(t), p.ID()); err != nil {
			return fmt.Errorf("sadd tag %s: %w", t, err)
		}
	}
	return nil
}

func (r *Repo) hydrate(ctx context.Context, ids []string) ([]domain.Prompt, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.promptKey(id)
	}
	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi: %w", err)
	}

	out := make([]domain.Prompt, 0, len(ids))
	for i, m := range maps {
		if len(m) == 0 {
			// Index entry without a record; skip.
			continue
		}
		out = append(out, parseHashFields(ids[i], m))
	}
	return out, nil
}

func matchesText(p *domain.Prompt, needle string, tokens []string) bool {
	haystack := strings.ToLower(strings.Join([]string{
		p.Name(), p.Description(), p.Content(), p.Category(), strings.Join(p.Tags(), " "),
	}, " "))

	if strings.Contains(haystack, needle) {
		return true
	}
	for _, t := range tokens {
		if strings.Contains(haystack, t) {
			return true
		}
	}
	return false
}

func capIDs(ids []string, limit int) []string {
	if limit > 0 && len(ids) > limit {
		return ids[:limit]
	}
	return ids
}

func (r *Repo) promptKey(id string) string { return r.prefix + "prompt:" + id }
func (r *Repo) allKey() string             { return r.prefix + "prompts" }
func (r *Repo) categoryKey(c string) string {
	return r.prefix + "category:" + strings.ToLower(c)
}
func (r *Repo) tagKey(t string) string { return r.prefix + "tag:" + strings.ToLower(t) }
func (r *Repo) nameKey(n string) string {
	return r.prefix + "name:" + strings.Join(strings.Fields(strings.ToLower(n)), " ")
}
