// Package cache implements the read-through, two-tier result cache: a shared
// Redis fast tier that may become unavailable, and an in-process fallback
// tier that never does.
package cache

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrNotFound is returned by a tier when the key is absent or expired.
var ErrNotFound = errors.New("cache: key not found")

// ContentType selects the TTL policy for a cached value. It is also the key
// namespace, so invalidation patterns stay scoped to one payload kind.
type ContentType string

const (
	ContentSearchResults ContentType = "search:results"
	ContentSuggestions   ContentType = "search:suggestions"
)

// keyPrefix namespaces every key this service writes into the shared tier.
const keyPrefix = "buscapro:"

// Tier is a single cache storage location.
type Tier interface {
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
}

// MultiTier layers a best-effort fast tier over an always-available fallback
// tier. Fast-tier failures degrade silently: they are logged and the
// fallback result (or a miss) is returned instead.
type MultiTier struct {
	fast     Tier // may be nil when the fast tier was unreachable at boot
	fallback Tier
	ttls     map[ContentType]time.Duration
	logger   *zap.Logger
}

// NewMultiTier creates the cache. fast may be nil to start in fallback-only
// mode; fallback must not be nil.
func NewMultiTier(fast, fallback Tier, searchTTL, suggestionTTL time.Duration, logger *zap.Logger) *MultiTier {
	return &MultiTier{
		fast:     fast,
		fallback: fallback,
		ttls: map[ContentType]time.Duration{
			ContentSearchResults: searchTTL,
			ContentSuggestions:   suggestionTTL,
		},
		logger: logger,
	}
}

// TTL returns the policy TTL for a content type.
func (c *MultiTier) TTL(ct ContentType) time.Duration {
	return c.ttls[ct]
}

func (c *MultiTier) fullKey(ct ContentType, key string) string {
	return keyPrefix + string(ct) + ":" + key
}

// Get attempts the fast tier first, then the fallback tier. A fallback hit
// is returned as-is; it does not repopulate the fast tier (the next compute
// refreshes both through Set).
func (c *MultiTier) Get(ctx context.Context, key string, ct ContentType) ([]byte, bool) {
	fk := c.fullKey(ct, key)

	if c.fast != nil {
		value, err := c.fast.Get(ctx, fk)
		if err == nil {
			return value, true
		}
		if !errors.Is(err, ErrNotFound) {
			c.logger.Warn("fast cache tier degraded on get", zap.String("key", fk), zap.Error(err))
		}
	}

	value, err := c.fallback.Get(ctx, fk)
	if err != nil {
		return nil, false
	}
	return value, true
}

// Set writes to the fast tier best-effort and always to the fallback tier.
// It never returns an error: a fast-tier write failure is logged and
// swallowed, and the fallback tier cannot fail.
func (c *MultiTier) Set(ctx context.Context, key string, value []byte, ct ContentType) {
	fk := c.fullKey(ct, key)
	ttl := c.ttls[ct]

	if c.fast != nil {
		if err := c.fast.Set(ctx, fk, value, ttl); err != nil {
			c.logger.Warn("fast cache tier degraded on set", zap.String("key", fk), zap.Error(err))
		}
	}
	if err := c.fallback.Set(ctx, fk, value, ttl); err != nil {
		c.logger.Error("fallback cache tier set failed", zap.String("key", fk), zap.Error(err))
	}
}

// Invalidate removes keys matching pattern (glob, e.g. "kw=plumber*") from
// both tiers within the content type's namespace.
func (c *MultiTier) Invalidate(ctx context.Context, pattern string, ct ContentType) {
	fp := c.fullKey(ct, pattern)

	if c.fast != nil {
		if err := c.fast.DeletePattern(ctx, fp); err != nil {
			c.logger.Warn("fast cache tier degraded on invalidate", zap.String("pattern", fp), zap.Error(err))
		}
	}
	if err := c.fallback.DeletePattern(ctx, fp); err != nil {
		c.logger.Error("fallback cache tier invalidate failed", zap.String("pattern", fp), zap.Error(err))
	}
}
