/*
Package oidc provides OIDC (OpenID Connect) discovery of the JWKS location.

OIDC providers expose a discovery document at a well-known URL:

	https://issuer.example.com/.well-known/openid-configuration

Only two fields are read from it: issuer, which must match the issuer the
caller expects, and jwks_uri, where the signing keys are published.

# Usage

	issuerURL, _ := url.Parse("https://coffee.us.auth0.com/")
	client := &http.Client{Timeout: 10 * time.Second}

	endpoints, err := oidc.GetWellKnownEndpointsFromIssuerURL(ctx, client, *issuerURL, issuerURL.String())
	if err != nil {
	    return err
	}
	fmt.Println(endpoints.JWKSURI)

Responses other than 200, bodies larger than 64 KiB, issuer mismatches
and documents without jwks_uri are errors.
*/
package oidc
