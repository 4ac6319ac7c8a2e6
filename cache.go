package gemx

import (
	"context"
	"time"

	"google.golang.org/genai"
)

// CacheConfig describes the cached content to create.
type CacheConfig struct {
	// TTL is how long the cache lives before the service expires it.
	// Defaults to 5 minutes.
	TTL time.Duration

	// Contents is the conversation prefix to cache. Typically large inputs:
	// uploaded file references, long documents, few-shot examples.
	Contents []*genai.Content

	// SystemInstruction to bake into the cache, if any. Sessions generating
	// against the cache inherit it.
	SystemInstruction string

	// DisplayName is an optional human-readable label.
	DisplayName string
}

// CreateCache stores content server-side so later requests can reference it
// by handle instead of resending it. The returned cache's Name is the handle
// to pass via [SessionConfig.CachedContent].
//
// Caching requires an explicit model version; the service rejects bare model
// aliases for cached content.
func (c *Client) CreateCache(ctx context.Context, model string, cfg CacheConfig) (*genai.CachedContent, error) {
	if model == "" {
		model = c.cfg.model()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	create := &genai.CreateCachedContentConfig{
		TTL:         ttl,
		Contents:    cfg.Contents,
		DisplayName: cfg.DisplayName,
	}
	if cfg.SystemInstruction != "" {
		create.SystemInstruction = genai.NewContentFromText(cfg.SystemInstruction, genai.RoleUser)
	}
	cache, err := c.genai.Caches.Create(ctx, model, create)
	if err != nil {
		return nil, mapAPIError(err)
	}
	return cache, nil
}

// GetCache fetches cached content metadata by handle.
func (c *Client) GetCache(ctx context.Context, name string) (*genai.CachedContent, error) {
	cache, err := c.genai.Caches.Get(ctx, name, nil)
	if err != nil {
		return nil, mapAPIError(err)
	}
	return cache, nil
}

// DeleteCache removes cached content before its TTL expires.
func (c *Client) DeleteCache(ctx context.Context, name string) error {
	if _, err := c.genai.Caches.Delete(ctx, name, nil); err != nil {
		return mapAPIError(err)
	}
	return nil
}
