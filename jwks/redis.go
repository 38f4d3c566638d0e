package jwks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisKey = "authgate:jwks"
	defaultRedisTTL = 24 * time.Hour
)

// RedisFetcher decorates an upstream Fetcher with a last-known-good copy
// of the key set kept in Redis and shared by every replica.
//
// Every successful upstream fetch overwrites the stored copy. When the
// upstream fetch fails the stored copy is served instead. The upstream is
// called exactly once per FetchKeySet.
type RedisFetcher struct {
	upstream Fetcher
	client   redis.Cmdable
	key      string
	ttl      time.Duration
	logger   Logger
}

// NewRedisFetcher wraps upstream with a Redis-backed fallback.
func NewRedisFetcher(upstream Fetcher, client redis.Cmdable, opts ...RedisOption) (*RedisFetcher, error) {
	if upstream == nil {
		return nil, fmt.Errorf("upstream fetcher cannot be nil")
	}
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}

	f := &RedisFetcher{
		upstream: upstream,
		client:   client,
		key:      defaultRedisKey,
		ttl:      defaultRedisTTL,
	}

	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	return f, nil
}

// FetchKeySet fetches from upstream, falling back to the stored copy.
func (f *RedisFetcher) FetchKeySet(ctx context.Context) (jwk.Set, error) {
	set, err := f.upstream.FetchKeySet(ctx)
	if err == nil {
		f.store(ctx, set)
		return set, nil
	}

	stored, loadErr := f.load(ctx)
	if loadErr != nil {
		return nil, errors.Join(err, loadErr)
	}

	if f.logger != nil {
		f.logger.Warn("upstream key set fetch failed, serving last-known-good copy from redis",
			"error", err,
			"key", f.key)
	}

	return stored, nil
}

func (f *RedisFetcher) store(ctx context.Context, set jwk.Set) {
	data, err := json.Marshal(set)
	if err != nil {
		if f.logger != nil {
			f.logger.Warn("failed to marshal key set for redis", "error", err)
		}
		return
	}

	if err := f.client.Set(ctx, f.key, data, f.ttl).Err(); err != nil && f.logger != nil {
		f.logger.Warn("failed to store key set in redis", "error", err, "key", f.key)
	}
}

func (f *RedisFetcher) load(ctx context.Context) (jwk.Set, error) {
	data, err := f.client.Get(ctx, f.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("no stored key set under %q", f.key)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	set, err := jwk.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored JWKS: %w", err)
	}

	return set, nil
}
