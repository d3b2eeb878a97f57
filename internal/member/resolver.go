// Package member resolves guild member display names through the transport,
// with an optional Valkey TTL cache in front of it.
package member

import (
	"context"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	apperrors "github.com/kapu/guild-jobs-bot/pkg/errors"
)

// Fetcher resolves a display name directly from the transport.
type Fetcher interface {
	FetchDisplayName(ctx context.Context, guildID, userID string) (string, error)
}

type cachedName struct {
	DisplayName string    `json:"display_name"`
	ResolvedAt  time.Time `json:"resolved_at"`
}

// Resolver: cached display-name resolution. The cache is best effort; any
// cache failure falls back to a direct fetch. client may be nil (cache
// disabled).
type Resolver struct {
	fetch  Fetcher
	client valkey.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewResolver creates a Resolver. Pass a nil client to disable caching.
func NewResolver(fetch Fetcher, client valkey.Client, ttl time.Duration, logger *slog.Logger) *Resolver {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Resolver{fetch: fetch, client: client, ttl: ttl, logger: logger}
}

// DisplayName resolves the member's display name, serving from cache when
// possible. A transport failure surfaces as a ResolutionError.
func (r *Resolver) DisplayName(ctx context.Context, guildID, userID string) (string, error) {
	key := cacheKey(guildID, userID)

	if r.client != nil {
		if name, ok := r.cached(ctx, key); ok {
			return name, nil
		}
	}

	name, err := r.fetch.FetchDisplayName(ctx, guildID, userID)
	if err != nil {
		return "", apperrors.ResolutionError{Kind: "member", ID: userID, Err: err}
	}

	if r.client != nil {
		r.store(ctx, key, name)
	}
	return name, nil
}

func (r *Resolver) cached(ctx context.Context, key string) (string, bool) {
	resp := r.client.Do(ctx, r.client.B().Get().Key(key).Build())
	if valkey.IsValkeyNil(resp.Error()) {
		return "", false
	}
	if resp.Error() != nil {
		r.logger.Debug("member_cache_get_failed", "key", key, "err", resp.Error())
		return "", false
	}

	raw, err := resp.AsBytes()
	if err != nil {
		r.logger.Debug("member_cache_decode_failed", "key", key, "err", err)
		return "", false
	}

	var entry cachedName
	if err := json.Unmarshal(raw, &entry); err != nil {
		r.logger.Debug("member_cache_decode_failed", "key", key, "err", err)
		return "", false
	}
	return entry.DisplayName, true
}

func (r *Resolver) store(ctx context.Context, key, name string) {
	payload, err := json.Marshal(cachedName{DisplayName: name, ResolvedAt: time.Now()})
	if err != nil {
		return
	}

	cmd := r.client.B().Set().Key(key).Value(string(payload)).Ex(r.ttl).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		r.logger.Debug("member_cache_set_failed", "err", apperrors.CacheError{Operation: "set", Key: key, Err: err})
	}
}

func cacheKey(guildID, userID string) string {
	return "metiers:member:" + guildID + ":" + userID
}
