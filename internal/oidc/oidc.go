package oidc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// maxDiscoverySize bounds the discovery document.
const maxDiscoverySize = 64 << 10

// WellKnownEndpoints holds the well known OIDC endpoints.
type WellKnownEndpoints struct {
	Issuer  string `json:"issuer"`
	JWKSURI string `json:"jwks_uri"`
}

// GetWellKnownEndpointsFromIssuerURL gets the well known endpoints for the
// passed in issuer url. The document's issuer must equal expectedIssuer
// (trailing slashes ignored) so a misrouted discovery cannot point the
// caller at foreign keys.
func GetWellKnownEndpointsFromIssuerURL(
	ctx context.Context,
	client *http.Client,
	issuerURL url.URL,
	expectedIssuer string,
) (*WellKnownEndpoints, error) {
	issuerURL.Path = path.Join(issuerURL.Path, ".well-known/openid-configuration")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, issuerURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not build request to get well known endpoints: %w", err)
	}

	r, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not get well known endpoints from url %s: %w", issuerURL.String(), err)
	}
	defer r.Body.Close()

	if r.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("well known endpoints returned status %d", r.StatusCode)
	}

	var wkEndpoints WellKnownEndpoints
	if err := json.NewDecoder(io.LimitReader(r.Body, maxDiscoverySize)).Decode(&wkEndpoints); err != nil {
		return nil, fmt.Errorf("could not decode json body when getting well known endpoints: %w", err)
	}

	if strings.TrimSuffix(wkEndpoints.Issuer, "/") != strings.TrimSuffix(expectedIssuer, "/") {
		return nil, fmt.Errorf("issuer mismatch: discovery document names %q, expected %q", wkEndpoints.Issuer, expectedIssuer)
	}

	if wkEndpoints.JWKSURI == "" {
		return nil, fmt.Errorf("discovery document has no jwks_uri")
	}

	return &wkEndpoints, nil
}
