// Package promptdex is the embeddable SDK for the promptdex prompt library:
// prompt storage over Redis plus the intent-aware search pipeline, without
// the HTTP server.
package promptdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/promptdex/promptdex/internal/db"
	dbRedis "github.com/promptdex/promptdex/internal/db/redis"
	promptrepo "github.com/promptdex/promptdex/internal/repository/prompt"
	"github.com/promptdex/promptdex/internal/repository/resultcache"
	promptuc "github.com/promptdex/promptdex/internal/usecase/prompt"
	searchuc "github.com/promptdex/promptdex/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	keyPrefix     string
	cacheTTL      time.Duration
	sweepInterval time.Duration
	minConfidence float64
}

// WithRedis sets the Redis addresses to connect to.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) { c.addrs = addrs }
}

// WithAuth sets database credentials.
func WithAuth(username, password string) Option {
	return func(c *clientConfig) {
		c.username = username
		c.password = password
	}
}

// WithDB selects the Redis logical database.
func WithDB(n int) Option {
	return func(c *clientConfig) { c.db = n }
}

// WithKeyPrefix overrides the storage key prefix (default "promptdex:").
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) { c.keyPrefix = prefix }
}

// WithCacheTTL overrides how long computed result sets are served from cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *clientConfig) { c.cacheTTL = ttl }
}

// WithMinConfidence sets the default confidence threshold applied to searches
// that do not specify one.
func WithMinConfidence(v float64) Option {
	return func(c *clientConfig) { c.minConfidence = v }
}

// Client is the promptdex SDK entry point.
type Client struct {
	store     db.Store
	cache     *resultcache.Cache
	searchSvc *searchuc.Service
	promptSvc *promptuc.Service

	minConfidence float64
}

// New creates a promptdex Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("promptdex: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("promptdex: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("promptdex: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	repo := promptrepo.New(store, cfg.keyPrefix)
	cache := resultcache.New(cfg.sweepInterval)

	var searchOpts []searchuc.Option
	if cfg.cacheTTL > 0 {
		searchOpts = append(searchOpts, searchuc.WithCacheTTL(cfg.cacheTTL))
	}

	return &Client{
		store:         store,
		cache:         cache,
		searchSvc:     searchuc.NewService(repo, cache, searchOpts...),
		promptSvc:     promptuc.NewService(repo),
		minConfidence: cfg.minConfidence,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
