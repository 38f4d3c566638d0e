// Package authgin adapts an authgate.AuthGate to the Gin framework.
package authgin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coffeeshop/authgate"
	"github.com/coffeeshop/authgate/core"
)

// DefaultClaimsKey is the gin.Context key the ClaimSet is stored under.
const DefaultClaimsKey = "claims"

var (
	ErrMissingClaims = errors.New("no claims found in gin context")
	ErrInvalidClaims = errors.New("invalid claims type in gin context")
)

type config struct {
	contextKey string
}

// Option configures the Gin middleware.
type Option func(*config)

// WithContextKey sets the gin.Context key used to store the ClaimSet.
func WithContextKey(key string) Option {
	return func(c *config) {
		if key != "" {
			c.contextKey = key
		}
	}
}

// Guard returns a Gin middleware that requires permission. Rejected
// requests are rendered by the gate's ErrorHandler and the chain is
// aborted. On success the ClaimSet is stored both in the gin.Context and
// in the request context.
func Guard(gate *authgate.AuthGate, permission string, opts ...Option) gin.HandlerFunc {
	cfg := &config{contextKey: DefaultClaimsKey}
	for _, opt := range opts {
		opt(cfg)
	}

	guard := gate.Guard(permission)

	return func(c *gin.Context) {
		encounteredError := true
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			encounteredError = false
			c.Request = r

			if claims, err := core.GetClaims(r.Context()); err == nil {
				c.Set(cfg.contextKey, claims)
			}

			c.Next()
		}

		guard(handler).ServeHTTP(c.Writer, c.Request)

		if encounteredError {
			c.Abort()
		}
	}
}

// GetClaims returns the ClaimSet stored by Guard. An empty contextKey
// means DefaultClaimsKey.
func GetClaims(c *gin.Context, contextKey string) (*core.ClaimSet, error) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}
	claims, exists := c.Get(contextKey)
	if !exists {
		return nil, ErrMissingClaims
	}

	claimSet, ok := claims.(*core.ClaimSet)
	if !ok {
		return nil, ErrInvalidClaims
	}

	return claimSet, nil
}
