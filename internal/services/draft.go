package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"biolink/internal/models"

	"github.com/redis/go-redis/v9"
)

var ErrDraftCacheDisabled = errors.New("draft cache is not available")

// DraftCache keeps the last-edited, unsaved editor draft per key (a profile id
// or a prospective username). Successful profile writes invalidate it.
type DraftCache struct {
	rdb    *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

func NewDraftCache(rdb *redis.Client, logger *slog.Logger, ttl time.Duration) *DraftCache {
	return &DraftCache{rdb: rdb, logger: logger, ttl: ttl}
}

func draftKey(key string) string {
	return "draft:" + strings.ToLower(strings.TrimSpace(key))
}

func (d *DraftCache) Enabled() bool {
	return d != nil && d.rdb != nil
}

// Save stores the raw draft document; it must be a JSON object.
func (d *DraftCache) Save(ctx context.Context, key string, draft json.RawMessage) error {
	if !d.Enabled() {
		return ErrDraftCacheDisabled
	}
	if strings.TrimSpace(key) == "" {
		return &ValidationError{Field: "key", Message: "is required"}
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(draft, &parsed); err != nil {
		return &ValidationError{Field: "draft", Message: "must be a JSON object"}
	}
	if err := d.rdb.Set(ctx, draftKey(key), []byte(draft), d.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// Load returns (nil, nil) on a miss or when the cache is disabled.
func (d *DraftCache) Load(ctx context.Context, key string) (json.RawMessage, error) {
	if !d.Enabled() {
		return nil, nil
	}
	val, err := d.rdb.Get(ctx, draftKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	return json.RawMessage(val), nil
}

func (d *DraftCache) Clear(ctx context.Context, key string) error {
	if !d.Enabled() {
		return nil
	}
	if err := d.rdb.Del(ctx, draftKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}

// Invalidate drops drafts keyed by the profile's id or username.
func (d *DraftCache) Invalidate(ctx context.Context, p *models.Profile) {
	if !d.Enabled() || p == nil {
		return
	}
	if err := d.rdb.Del(ctx, draftKey(p.ID), draftKey(p.Username)).Err(); err != nil {
		d.logger.Warn("Failed to invalidate draft", "id", p.ID, "error", err)
	}
}
