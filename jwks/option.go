package jwks

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ============================================================================
// Resolver Options
// ============================================================================

// ResolverOption is how options for the Resolver are set up.
type ResolverOption func(*Resolver) error

// WithLogger sets an optional logger for the Resolver.
func WithLogger(logger Logger) ResolverOption {
	return func(r *Resolver) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		r.logger = logger
		return nil
	}
}

// WithFetchObserver registers a callback invoked after every fetch with
// its result. It is meant for metrics.
func WithFetchObserver(observe func(err error)) ResolverOption {
	return func(r *Resolver) error {
		if observe == nil {
			return fmt.Errorf("fetch observer cannot be nil")
		}
		r.observe = observe
		return nil
	}
}

// ============================================================================
// HTTPFetcher Options
// ============================================================================

// FetcherOption is how options for the HTTPFetcher are set up.
type FetcherOption func(*HTTPFetcher) error

// WithHTTPClient sets a custom HTTP client. The client must carry a
// timeout; a zero timeout is rejected.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) error {
		if c == nil {
			return fmt.Errorf("HTTP client cannot be nil")
		}
		if c.Timeout <= 0 {
			return fmt.Errorf("HTTP client must have a positive timeout")
		}
		f.client = c
		return nil
	}
}

// WithTimeout sets the timeout of the default HTTP client.
//
// Default: 10 seconds
func WithTimeout(timeout time.Duration) FetcherOption {
	return func(f *HTTPFetcher) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive")
		}
		f.client = &http.Client{Timeout: timeout, Transport: f.client.Transport}
		return nil
	}
}

// WithIssuerDiscovery makes the fetcher look up jwks_uri from the
// issuer's /.well-known/openid-configuration document instead of using
// a fixed URL. The discovered URL is kept after the first successful
// discovery, even if the key set GET that follows fails; a failed
// discovery is retried on the next fetch.
func WithIssuerDiscovery(issuerURL *url.URL) FetcherOption {
	return func(f *HTTPFetcher) error {
		if issuerURL == nil {
			return fmt.Errorf("issuer URL cannot be nil")
		}
		f.issuerURL = issuerURL
		return nil
	}
}

// ============================================================================
// RedisFetcher Options
// ============================================================================

// RedisOption is how options for the RedisFetcher are set up.
type RedisOption func(*RedisFetcher) error

// WithRedisKey sets the key the last-known-good document is stored under.
//
// Default: "authgate:jwks"
func WithRedisKey(key string) RedisOption {
	return func(f *RedisFetcher) error {
		if key == "" {
			return fmt.Errorf("redis key cannot be empty")
		}
		f.key = key
		return nil
	}
}

// WithRedisTTL sets how long the stored document stays usable.
//
// Default: 24 hours
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(f *RedisFetcher) error {
		if ttl <= 0 {
			return fmt.Errorf("redis TTL must be positive")
		}
		f.ttl = ttl
		return nil
	}
}

// WithRedisLogger sets an optional logger for the RedisFetcher.
func WithRedisLogger(logger Logger) RedisOption {
	return func(f *RedisFetcher) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		f.logger = logger
		return nil
	}
}
