package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"biolink/internal/models"

	"github.com/redis/go-redis/v9"
)

const profileCacheTTL = 10 * time.Minute

// ProfileCache is a read-through cache for public profile lookups. A nil
// client disables it; Redis errors are logged and treated as misses.
type ProfileCache struct {
	rdb    *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

func NewProfileCache(rdb *redis.Client, logger *slog.Logger) *ProfileCache {
	return &ProfileCache{rdb: rdb, logger: logger, ttl: profileCacheTTL}
}

func slugKey(slug string) string {
	return "profile:slug:" + strings.ToLower(slug)
}

func usernameKey(username string) string {
	return "profile:username:" + strings.ToLower(username)
}

func (c *ProfileCache) GetBySlug(ctx context.Context, slug string) (*models.Profile, bool) {
	return c.get(ctx, slugKey(slug))
}

func (c *ProfileCache) GetByUsername(ctx context.Context, username string) (*models.Profile, bool) {
	return c.get(ctx, usernameKey(username))
}

// Store caches p under its username and, once published, its slug.
func (c *ProfileCache) Store(ctx context.Context, p *models.Profile) {
	if c == nil || c.rdb == nil || p == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		c.logger.Error("Failed to encode profile for cache", "id", p.ID, "error", err)
		return
	}

	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, usernameKey(p.Username), data, c.ttl)
	if p.ShareSlug != nil {
		pipe.Set(ctx, slugKey(*p.ShareSlug), data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("Failed to write profile cache", "id", p.ID, "error", err)
	}
}

// Invalidate drops every key p may be cached under.
func (c *ProfileCache) Invalidate(ctx context.Context, p *models.Profile) {
	if c == nil || c.rdb == nil || p == nil {
		return
	}
	keys := []string{usernameKey(p.Username)}
	if p.ShareSlug != nil {
		keys = append(keys, slugKey(*p.ShareSlug))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("Failed to invalidate profile cache", "id", p.ID, "error", err)
	}
}

func (c *ProfileCache) get(ctx context.Context, key string) (*models.Profile, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Profile cache lookup failed", "key", key, "error", err)
		}
		return nil, false
	}
	var p models.Profile
	if err := json.Unmarshal(val, &p); err != nil {
		c.logger.Warn("Discarding undecodable cache entry", "key", key, "error", err)
		return nil, false
	}
	return &p, true
}
