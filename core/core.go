package core

import (
	"context"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// KeyResolver resolves the key that must verify a token, usually by the
// kid found in the token's unverified header.
type KeyResolver interface {
	ResolveTokenKey(ctx context.Context, token string) (jwk.Key, error)
}

// TokenVerifier validates a token's signature and registered claims with
// an already resolved key.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string, key jwk.Key) (*ClaimSet, error)
}

// Logger defines an optional logging interface for the core pipeline.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Core is the framework-agnostic authorization engine.
type Core struct {
	resolver KeyResolver
	verifier TokenVerifier
	logger   Logger
}

// Authorize runs resolve key → verify → check permission and returns the
// decoded claims. The first failure is returned unchanged; every error
// is an *AuthError.
func (c *Core) Authorize(ctx context.Context, token, permission string) (*ClaimSet, error) {
	if token == "" {
		return nil, Unauthorized(ErrorCodeHeaderMissing, DescriptionHeaderMissing, nil)
	}

	start := time.Now()

	key, err := c.resolver.ResolveTokenKey(ctx, token)
	if err != nil {
		c.logFailure("could not resolve verification key", err)
		return nil, asAuthError(err)
	}

	claims, err := c.verifier.VerifyToken(ctx, token, key)
	if err != nil {
		c.logFailure("token verification failed", err)
		return nil, asAuthError(err)
	}

	if err := RequirePermission(permission, claims); err != nil {
		if c.logger != nil {
			c.logger.Warn("permission check failed",
				"subject", claims.RegisteredClaims.Subject,
				"permission", permission,
				"error", err)
		}
		return nil, err
	}

	if c.logger != nil {
		c.logger.Debug("token authorized",
			"subject", claims.RegisteredClaims.Subject,
			"permission", permission,
			"duration", time.Since(start))
	}

	return claims, nil
}

func (c *Core) logFailure(msg string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Warn(msg, "error", err)
}

// asAuthError keeps AuthErrors intact and hides anything else behind a
// generic invalid_header so internals never reach the caller.
func asAuthError(err error) error {
	if _, ok := AsAuthError(err); ok {
		return err
	}
	return Unauthorized(ErrorCodeInvalidHeader, DescriptionUnparseable, err)
}
