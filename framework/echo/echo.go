// Package authecho adapts an authgate.AuthGate to the Echo framework.
package authecho

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coffeeshop/authgate"
	"github.com/coffeeshop/authgate/core"
)

// DefaultClaimsKey is the echo.Context key the ClaimSet is stored under.
const DefaultClaimsKey = "claims"

type config struct {
	contextKey string
}

// Option configures the Echo middleware.
type Option func(*config)

// WithContextKey sets a custom context key to store claims
func WithContextKey(key string) Option {
	return func(c *config) {
		if key != "" {
			c.contextKey = key
		}
	}
}

// Guard returns an Echo middleware that requires permission.
func Guard(gate *authgate.AuthGate, permission string, opts ...Option) echo.MiddlewareFunc {
	cfg := &config{contextKey: DefaultClaimsKey}
	for _, opt := range opts {
		opt(cfg)
	}

	guard := gate.Guard(permission)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var nextErr error
			var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
				c.SetRequest(r)

				if claims, err := core.GetClaims(r.Context()); err == nil {
					c.Set(cfg.contextKey, claims)
				}

				nextErr = next(c)
			}

			// Rejections are already written by the gate's ErrorHandler.
			guard(handler).ServeHTTP(c.Response(), c.Request())

			return nextErr
		}
	}
}

// GetClaims extracts the ClaimSet from the Echo context
func GetClaims(c echo.Context, contextKey string) (*core.ClaimSet, bool) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}
	claims, ok := c.Get(contextKey).(*core.ClaimSet)
	return claims, ok
}
