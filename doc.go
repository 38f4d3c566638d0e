/*
Package authgate guards HTTP handlers with bearer token authentication
and a per-route permission check.

A request passes the gate when its Authorization header carries a
signed JWT that was issued by the configured tenant for the configured
audience, and whose "permissions" claim grants the permission the route
requires. Everything else is rejected with a JSON body of the form
{"code": ..., "description": ...} and a 401 or 403 status.

# Quick Start

	import (
	    "github.com/coffeeshop/authgate"
	    "github.com/coffeeshop/authgate/jwks"
	    "github.com/coffeeshop/authgate/validator"
	)

	func main() {
	    fetcher, err := jwks.NewHTTPFetcher(jwks.WellKnownURL("coffee.eu.auth0.com"))
	    if err != nil {
	        log.Fatal(err)
	    }
	    resolver, err := jwks.NewResolver(fetcher)
	    if err != nil {
	        log.Fatal(err)
	    }

	    v, err := validator.New(
	        validator.WithIssuer("https://coffee.eu.auth0.com/"),
	        validator.WithAudience("coffee"),
	    )
	    if err != nil {
	        log.Fatal(err)
	    }

	    gate, err := authgate.New(
	        authgate.WithKeyResolver(resolver),
	        authgate.WithTokenVerifier(v),
	    )
	    if err != nil {
	        log.Fatal(err)
	    }

	    http.Handle("/drinks-detail", gate.Guard("get:drinks-detail")(detailHandler))
	    http.ListenAndServe(":8080", nil)
	}

# Accessing Claims

	func detailHandler(w http.ResponseWriter, r *http.Request) {
	    claims := authgate.MustGetClaims(r.Context())
	    fmt.Fprintln(w, claims.RegisteredClaims.Subject)
	}

The handler behind Guard runs at most once per request and only after
the permission check succeeded.

# Permissions

Guard("") only requires a valid token. Any other permission is matched
exactly and case-sensitively against the token's "permissions" array.
A token without that claim is rejected with 401 invalid_claims, while a
token whose array lacks the permission gets 403 not_permitted.

# Error Responses

DefaultErrorHandler writes the status carried by the *core.AuthError.
Use WithErrorHandler to render errors differently, and ErrorResponseFor
to keep the same status and body mapping:

	authgate.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
	    status, body := authgate.ErrorResponseFor(err)
	    w.WriteHeader(status)
	    fmt.Fprintf(w, "%s: %s", body.Code, body.Description)
	})

# Observability

Every decision opens an "authgate.authorize" span on the configured
OpenTelemetry tracer and is reported to Metrics. NewPrometheusMetrics
provides counters for outcomes and key set fetches plus a latency
histogram. Logging goes through the Logger interface; NewLogrusLogger
adapts a logrus logger, which is also the default.

# Frameworks

The framework/gin, framework/echo and framework/grpc packages adapt the
gate to those stacks. They share extraction, error mapping and metrics
with Guard.
*/
package authgate
