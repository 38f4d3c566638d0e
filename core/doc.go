/*
Package core provides the transport-agnostic authorization pipeline that
every adapter in this module shares.

A request is authorized in three steps, and the first failure wins:

	resolve key (KeyResolver) → verify token (TokenVerifier) → RequirePermission

The Core type holds no per-request state and is safe for concurrent use.

# Architecture

	┌──────────────────────────────────────────────┐
	│  Transport adapters                          │
	│  (net/http, Gin, Echo, gRPC)                 │
	│  extract the bearer token                    │
	└────────────────┬─────────────────────────────┘
	                 │
	                 ▼
	┌──────────────────────────────────────────────┐
	│  Core (THIS PACKAGE)                         │
	│  • AuthError taxonomy                        │
	│  • permission check                          │
	│  • ClaimSet context helpers                  │
	└────────────────┬─────────────────────────────┘
	                 │
	                 ▼
	┌──────────────────────────────────────────────┐
	│  jwks.Resolver + validator.Validator         │
	└──────────────────────────────────────────────┘

# Basic Usage

	c, err := core.New(
	    core.WithKeyResolver(resolver),
	    core.WithTokenVerifier(v),
	)
	if err != nil {
	    log.Fatal(err)
	}

	claims, err := c.Authorize(ctx, token, "get:drinks-detail")
	if err != nil {
	    authErr, _ := core.AsAuthError(err)
	    // authErr.Status is 401 or 403
	}

# Errors

Every failure is a *AuthError with a stable Code, a caller-facing
Description and the HTTP Status to answer with. The internal cause is
kept in Err for logging and never serialized. Sentinels compare by code
and status:

	if errors.Is(err, core.ErrTokenExpired) {
	    // ask the client to refresh
	}

	| Code                         | Status | Raised by                    |
	|------------------------------|--------|------------------------------|
	| authorization_header_missing | 401    | extractor, empty token       |
	| invalid_header               | 401    | extractor, resolver, verifier|
	| token_expired                | 401    | verifier                     |
	| invalid_claims               | 401    | verifier                     |
	| invalid_header               | 403    | RequirePermission            |
	| not_permitted                | 403    | RequirePermission            |

# Permissions

RequirePermission needs the token to carry a "permissions" claim. An empty
permission string only asks for an authenticated token; the claim must
still be present.
*/
package core
