/*
Package validator verifies access tokens against a resolved public key.

The Validator checks, in order:

  - the token is a compact JWS of reasonable size
  - the header alg is in the allow-list (RS256, RS384, RS512 only)
  - the signature, using the key handed in by the caller
  - exp (required, not in the past), nbf and iat, within the configured skew
  - iss equals the configured issuer exactly
  - aud contains the configured audience

and returns a *core.ClaimSet carrying the registered claims, the
permissions claim and every raw claim.

	v, err := validator.New(
	    validator.WithIssuer("https://example.eu.auth0.com/"),
	    validator.WithAudience("https://coffee-shop.test"),
	    validator.WithAllowedClockSkew(30*time.Second),
	)

	claims, err := v.VerifyToken(ctx, token, key)

Failures are *core.AuthError values with status 401:

	invalid_header   bad format, disallowed alg, bad signature, undecodable claims
	token_expired    exp in the past
	invalid_claims   issuer, audience or other registered claim mismatch

The underlying cause is attached to the AuthError and logged through the
optional Logger; it is never part of the description sent to callers.

Symmetric algorithms cannot be configured.
*/
package validator
