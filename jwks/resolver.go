package jwks

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"

	"github.com/coffeeshop/authgate/core"
)

// Resolver owns the identity provider's key set and resolves key
// identifiers against it.
//
// The set is fetched lazily and refreshed only when a requested kid is
// missing, so a rotated key is picked up by the first token that uses
// it. Concurrent misses may each fetch; the last completed fetch wins.
type Resolver struct {
	fetcher Fetcher
	set     atomic.Pointer[jwk.Set]
	logger  Logger
	observe func(error)
}

// Logger defines an optional logging interface compatible with log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NewResolver builds a Resolver around fetcher.
//
// Example:
//
//	resolver, err := jwks.NewResolver(
//	    fetcher, // e.g. jwks.NewHTTPFetcher(jwks.WellKnownURL("example.eu.auth0.com"))
//	    jwks.WithLogger(logger),
//	)
func NewResolver(fetcher Fetcher, opts ...ResolverOption) (*Resolver, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required but was nil")
	}

	r := &Resolver{fetcher: fetcher}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	return r, nil
}

// ResolveTokenKey reads the kid from the token's unverified header and
// resolves it.
func (r *Resolver) ResolveTokenKey(ctx context.Context, token string) (jwk.Key, error) {
	kid, err := KeyIDFromToken(token)
	if err != nil {
		return nil, err
	}
	return r.ResolveKey(ctx, kid)
}

// ResolveKey returns the key for kid. A cold cache or a miss triggers
// exactly one fetch of the full set before giving up.
func (r *Resolver) ResolveKey(ctx context.Context, kid string) (jwk.Key, error) {
	if set := r.set.Load(); set != nil {
		if key, ok := (*set).LookupKeyID(kid); ok {
			return key, nil
		}
		if r.logger != nil {
			r.logger.Debug("kid not in cached key set, refreshing", "kid", kid)
		}
	}

	set, err := r.refresh(ctx)
	if err != nil {
		return nil, core.Unauthorized(core.ErrorCodeInvalidHeader, core.DescriptionKeySetUnavailable, err)
	}

	key, ok := set.LookupKeyID(kid)
	if !ok {
		return nil, core.Unauthorized(
			core.ErrorCodeInvalidHeader,
			core.DescriptionKeyNotFound,
			fmt.Errorf("kid %q not present in key set", kid),
		)
	}

	return key, nil
}

// KeySet returns the currently cached set, or nil before the first fetch.
func (r *Resolver) KeySet() jwk.Set {
	if set := r.set.Load(); set != nil {
		return *set
	}
	return nil
}

func (r *Resolver) refresh(ctx context.Context) (jwk.Set, error) {
	set, err := r.fetcher.FetchKeySet(ctx)
	if r.observe != nil {
		r.observe(err)
	}
	if err != nil {
		if r.logger != nil {
			r.logger.Error("failed to fetch key set", "error", err)
		}
		return nil, err
	}

	r.set.Store(&set)

	if r.logger != nil {
		r.logger.Info("key set refreshed", "keys", set.Len())
	}

	return set, nil
}

// KeyIDFromToken parses the unverified protected header of a compact JWS
// and returns its kid.
func KeyIDFromToken(token string) (string, error) {
	msg, err := jws.ParseString(token)
	if err != nil {
		return "", core.Unauthorized(core.ErrorCodeInvalidHeader, core.DescriptionUnparseable, err)
	}

	sigs := msg.Signatures()
	if len(sigs) == 0 {
		return "", core.Unauthorized(core.ErrorCodeInvalidHeader, core.DescriptionUnparseable, fmt.Errorf("token carries no signature"))
	}

	kid := sigs[0].ProtectedHeaders().KeyID()
	if kid == "" {
		return "", core.Unauthorized(core.ErrorCodeInvalidHeader, core.DescriptionMalformed, fmt.Errorf("token header has no kid"))
	}

	return kid, nil
}
