/*
Package jwks resolves the keys that verify access tokens.

A Resolver holds the identity provider's published JSON Web Key Set and
looks keys up by the kid in a token's unverified header. The set is
fetched on first use and again whenever a kid is missing, which is how a
rotated signing key is picked up. There is no background refresh and no
retry: one miss costs at most one fetch, and a failed fetch fails the
current request.

# Fetchers

A Fetcher produces the complete key set. HTTPFetcher downloads it from a
fixed URL, usually WellKnownURL(domain):

	fetcher, err := jwks.NewHTTPFetcher(
	    jwks.WellKnownURL("example.eu.auth0.com"),
	    jwks.WithTimeout(5*time.Second),
	)

or discovers the URL through OpenID Connect metadata:

	fetcher, err := jwks.NewHTTPFetcher("", jwks.WithIssuerDiscovery(issuerURL))

RedisFetcher wraps another Fetcher and keeps the last document it saw in
Redis, so replicas keep verifying tokens through a short provider outage:

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	fetcher, err := jwks.NewRedisFetcher(httpFetcher, client)

Tests inject keys with FetcherFunc:

	resolver, _ := jwks.NewResolver(jwks.FetcherFunc(func(context.Context) (jwk.Set, error) {
	    return set, nil
	}))

# Errors

Every failure is a *core.AuthError with code invalid_header and status
401. Fetch errors are logged and kept as the AuthError's cause.
*/
package jwks
