package authgin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffeeshop/authgate"
	"github.com/coffeeshop/authgate/internal/authtest"
	"github.com/coffeeshop/authgate/jwks"
	"github.com/coffeeshop/authgate/validator"
)

func newGate(t *testing.T, signer *authtest.Signer) *authgate.AuthGate {
	t.Helper()

	srv := authtest.NewJWKSServer(t, signer)
	fetcher, err := jwks.NewHTTPFetcher(srv.JWKSURL())
	require.NoError(t, err)
	resolver, err := jwks.NewResolver(fetcher)
	require.NoError(t, err)
	v, err := validator.New(validator.WithIssuer(authtest.Issuer), validator.WithAudience(authtest.Audience))
	require.NoError(t, err)

	gate, err := authgate.New(authgate.WithKeyResolver(resolver), authgate.WithTokenVerifier(v))
	require.NoError(t, err)
	return gate
}

func TestGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	signer := authtest.NewSigner(t, "key-1")
	gate := newGate(t, signer)

	testCases := []struct {
		name          string
		permissions   []string
		authorization bool
		contextKey    string
		wantStatus    int
		wantCode      string
	}{
		{
			name:          "granted",
			permissions:   []string{"post:drinks"},
			authorization: true,
			wantStatus:    http.StatusOK,
		},
		{
			name:          "granted with custom context key",
			permissions:   []string{"post:drinks"},
			authorization: true,
			contextKey:    "user",
			wantStatus:    http.StatusOK,
		},
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "authorization_header_missing",
		},
		{
			name:          "not permitted",
			permissions:   []string{"get:drinks-detail"},
			authorization: true,
			wantStatus:    http.StatusForbidden,
			wantCode:      "not_permitted",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handlerCalled := false
			afterGuard := false

			router := gin.New()
			router.POST("/drinks",
				Guard(gate, "post:drinks", WithContextKey(tc.contextKey)),
				func(c *gin.Context) {
					afterGuard = true
					c.Next()
				},
				func(c *gin.Context) {
					handlerCalled = true
					claims, err := GetClaims(c, tc.contextKey)
					require.NoError(t, err)
					c.String(http.StatusOK, claims.RegisteredClaims.Subject)
				},
			)

			r := httptest.NewRequest(http.MethodPost, "/drinks", nil)
			if tc.authorization {
				r.Header.Set("Authorization", "Bearer "+signer.Sign(t, authtest.DefaultClaims(tc.permissions...)))
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, r)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantCode == "" {
				assert.True(t, handlerCalled)
				assert.Equal(t, authtest.Subject, w.Body.String())
				return
			}

			assert.False(t, afterGuard, "chain must be aborted")
			assert.False(t, handlerCalled)
			var body authgate.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantCode, body.Code)
		})
	}
}

func TestGetClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := GetClaims(c, "")
	assert.ErrorIs(t, err, ErrMissingClaims)

	c.Set(DefaultClaimsKey, "not claims")
	_, err = GetClaims(c, "")
	assert.ErrorIs(t, err, ErrInvalidClaims)
}
