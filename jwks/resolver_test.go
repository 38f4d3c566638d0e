package jwks

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffeeshop/authgate/core"
	"github.com/coffeeshop/authgate/internal/authtest"
)

func newTestResolver(t *testing.T, srv *authtest.JWKSServer, opts ...ResolverOption) *Resolver {
	t.Helper()

	fetcher, err := NewHTTPFetcher(srv.JWKSURL())
	require.NoError(t, err)

	r, err := NewResolver(fetcher, opts...)
	require.NoError(t, err)
	return r
}

func Test_Resolver(t *testing.T) {
	current := authtest.NewSigner(t, "key-1")
	rotated := authtest.NewSigner(t, "key-2")

	t.Run("It fetches once on a cold cache and serves from cache afterwards", func(t *testing.T) {
		srv := authtest.NewJWKSServer(t, current)
		r := newTestResolver(t, srv)
		assert.Nil(t, r.KeySet())

		token := current.Sign(t, authtest.DefaultClaims())

		key, err := r.ResolveTokenKey(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "key-1", key.KeyID())
		assert.Equal(t, 1, srv.Hits())

		_, err = r.ResolveTokenKey(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, 1, srv.Hits(), "warm cache must not fetch")
		assert.Equal(t, 1, r.KeySet().Len())
	})

	t.Run("It fetches exactly once when the kid is unknown", func(t *testing.T) {
		srv := authtest.NewJWKSServer(t, current)
		r := newTestResolver(t, srv)

		_, err := r.ResolveKey(context.Background(), "key-1")
		require.NoError(t, err)
		require.Equal(t, 1, srv.Hits())

		_, err = r.ResolveTokenKey(context.Background(), rotated.Sign(t, authtest.DefaultClaims()))
		require.Error(t, err)
		assert.Equal(t, 2, srv.Hits())

		authErr, ok := core.AsAuthError(err)
		require.True(t, ok)
		assert.Equal(t, core.ErrorCodeInvalidHeader, authErr.Code)
		assert.Equal(t, core.DescriptionKeyNotFound, authErr.Description)
		assert.Equal(t, http.StatusUnauthorized, authErr.Status)
	})

	t.Run("It picks up a rotated key", func(t *testing.T) {
		srv := authtest.NewJWKSServer(t, current)
		r := newTestResolver(t, srv)

		_, err := r.ResolveKey(context.Background(), "key-1")
		require.NoError(t, err)

		srv.SetKeys(t, current, rotated)

		key, err := r.ResolveKey(context.Background(), "key-2")
		require.NoError(t, err)
		assert.Equal(t, "key-2", key.KeyID())
		assert.Equal(t, 2, srv.Hits())

		_, err = r.ResolveKey(context.Background(), "key-1")
		require.NoError(t, err)
		assert.Equal(t, 2, srv.Hits())
	})

	t.Run("It reports an unavailable key set and keeps the old one", func(t *testing.T) {
		srv := authtest.NewJWKSServer(t, current)
		var observed []error
		r := newTestResolver(t, srv, WithFetchObserver(func(err error) { observed = append(observed, err) }))

		_, err := r.ResolveKey(context.Background(), "key-1")
		require.NoError(t, err)

		srv.SetFailing(true)
		_, err = r.ResolveKey(context.Background(), "key-2")
		require.Error(t, err)

		authErr, ok := core.AsAuthError(err)
		require.True(t, ok)
		assert.Equal(t, core.ErrorCodeInvalidHeader, authErr.Code)
		assert.Equal(t, core.DescriptionKeySetUnavailable, authErr.Description)
		assert.Contains(t, authErr.Err.Error(), "status 503")

		_, err = r.ResolveKey(context.Background(), "key-1")
		assert.NoError(t, err, "cached keys stay usable while the provider is down")

		require.Len(t, observed, 2)
		assert.NoError(t, observed[0])
		assert.Error(t, observed[1])
	})

	t.Run("It is safe for concurrent use", func(t *testing.T) {
		srv := authtest.NewJWKSServer(t, current, rotated)
		r := newTestResolver(t, srv)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				kid := "key-1"
				if i%2 == 0 {
					kid = "key-2"
				}
				_, err := r.ResolveKey(context.Background(), kid)
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		assert.GreaterOrEqual(t, srv.Hits(), 1)
		assert.LessOrEqual(t, srv.Hits(), 20)
	})

	t.Run("It hides fetcher errors behind an AuthError", func(t *testing.T) {
		r, err := NewResolver(FetcherFunc(func(context.Context) (jwk.Set, error) {
			return nil, errors.New("dns failure")
		}))
		require.NoError(t, err)

		_, err = r.ResolveKey(context.Background(), "key-1")
		assert.ErrorIs(t, err, core.ErrInvalidHeader)
	})
}

func Test_NewResolver(t *testing.T) {
	_, err := NewResolver(nil)
	assert.Error(t, err)

	fetcher := FetcherFunc(func(context.Context) (jwk.Set, error) { return jwk.NewSet(), nil })

	_, err = NewResolver(fetcher, WithLogger(nil))
	assert.Error(t, err)

	_, err = NewResolver(fetcher, WithFetchObserver(nil))
	assert.Error(t, err)
}

func Test_KeyIDFromToken(t *testing.T) {
	withKID := authtest.NewSigner(t, "key-1")
	withoutKID := authtest.NewSigner(t, "")

	tests := []struct {
		name            string
		token           string
		wantKID         string
		wantDescription string
	}{
		{
			name:    "kid present",
			token:   withKID.Sign(t, authtest.DefaultClaims()),
			wantKID: "key-1",
		},
		{
			name:            "kid absent",
			token:           withoutKID.Sign(t, authtest.DefaultClaims()),
			wantDescription: core.DescriptionMalformed,
		},
		{
			name:            "garbage",
			token:           "not-a-token",
			wantDescription: core.DescriptionUnparseable,
		},
		{
			name:            "bad base64 header",
			token:           "!!!.e30.sig",
			wantDescription: core.DescriptionUnparseable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			kid, err := KeyIDFromToken(tc.token)
			if tc.wantDescription == "" {
				require.NoError(t, err)
				assert.Equal(t, tc.wantKID, kid)
				return
			}

			authErr, ok := core.AsAuthError(err)
			require.True(t, ok)
			assert.Equal(t, core.ErrorCodeInvalidHeader, authErr.Code)
			assert.Equal(t, tc.wantDescription, authErr.Description)
			assert.Equal(t, http.StatusUnauthorized, authErr.Status)
		})
	}
}
