package jwks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/coffeeshop/authgate/internal/oidc"
)

// maxKeySetSize bounds the JWKS response body. Real documents are a few KB.
const maxKeySetSize = 1 << 20

// DefaultFetchTimeout bounds a single key set fetch.
const DefaultFetchTimeout = 10 * time.Second

// Fetcher retrieves the identity provider's complete key set.
type Fetcher interface {
	FetchKeySet(ctx context.Context) (jwk.Set, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context) (jwk.Set, error)

// FetchKeySet calls f(ctx).
func (f FetcherFunc) FetchKeySet(ctx context.Context) (jwk.Set, error) {
	return f(ctx)
}

// WellKnownURL returns the JWKS location published by an Auth0-style
// issuer domain.
func WellKnownURL(domain string) string {
	domain = strings.TrimSuffix(strings.TrimPrefix(domain, "https://"), "/")
	return "https://" + domain + "/.well-known/jwks.json"
}

// HTTPFetcher downloads a JWKS document over HTTP.
type HTTPFetcher struct {
	jwksURL   string
	issuerURL *url.URL
	client    *http.Client

	discoverMu sync.Mutex
	discovered string
}

// NewHTTPFetcher builds an HTTPFetcher for jwksURL. When
// WithIssuerDiscovery is passed, jwksURL may be empty.
func NewHTTPFetcher(jwksURL string, opts ...FetcherOption) (*HTTPFetcher, error) {
	f := &HTTPFetcher{
		jwksURL: jwksURL,
		client:  &http.Client{Timeout: DefaultFetchTimeout},
	}

	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if f.jwksURL == "" && f.issuerURL == nil {
		return nil, fmt.Errorf("JWKS URL is required (or use WithIssuerDiscovery)")
	}
	if f.jwksURL != "" {
		if _, err := url.Parse(f.jwksURL); err != nil {
			return nil, fmt.Errorf("invalid JWKS URL: %w", err)
		}
	}

	return f, nil
}

// FetchKeySet performs one GET of the JWKS document. It does not retry.
func (f *HTTPFetcher) FetchKeySet(ctx context.Context) (jwk.Set, error) {
	jwksURL, err := f.url(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request returned status %d, expected 200", resp.StatusCode)
	}

	set, err := jwk.ParseReader(io.LimitReader(resp.Body, maxKeySetSize))
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWKS: %w", err)
	}

	return set, nil
}

func (f *HTTPFetcher) url(ctx context.Context) (string, error) {
	if f.issuerURL == nil {
		return f.jwksURL, nil
	}

	f.discoverMu.Lock()
	defer f.discoverMu.Unlock()

	if f.discovered != "" {
		return f.discovered, nil
	}

	endpoints, err := oidc.GetWellKnownEndpointsFromIssuerURL(ctx, f.client, *f.issuerURL, f.issuerURL.String())
	if err != nil {
		return "", fmt.Errorf("failed to discover JWKS URI: %w", err)
	}

	f.discovered = endpoints.JWKSURI
	return f.discovered, nil
}
