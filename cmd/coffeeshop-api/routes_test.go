package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffeeshop/authgate"
	"github.com/coffeeshop/authgate/internal/authtest"
	"github.com/coffeeshop/authgate/jwks"
	"github.com/coffeeshop/authgate/validator"
)

func newTestRouter(t *testing.T, signer *authtest.Signer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := authtest.NewJWKSServer(t, signer)
	fetcher, err := jwks.NewHTTPFetcher(srv.JWKSURL())
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics, err := authgate.NewPrometheusMetrics(reg)
	require.NoError(t, err)

	resolver, err := jwks.NewResolver(fetcher, jwks.WithFetchObserver(metrics.ObserveKeySetFetch))
	require.NoError(t, err)
	v, err := validator.New(validator.WithIssuer(authtest.Issuer), validator.WithAudience(authtest.Audience))
	require.NoError(t, err)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	gate, err := authgate.New(
		authgate.WithKeyResolver(resolver),
		authgate.WithTokenVerifier(v),
		authgate.WithMetrics(metrics),
		authgate.WithLogger(authgate.NewLogrusLogger(log)),
	)
	require.NoError(t, err)

	return newRouter(gate, reg)
}

func TestRoutes(t *testing.T) {
	signer := authtest.NewSigner(t, "key-1")
	router := newTestRouter(t, signer)

	bearer := func(permissions ...string) string {
		return "Bearer " + signer.Sign(t, authtest.DefaultClaims(permissions...))
	}

	tests := []struct {
		name           string
		method         string
		path           string
		authorization  string
		expectedStatus int
		expectedCode   string
	}{
		{name: "public drinks", method: http.MethodGet, path: "/drinks", expectedStatus: http.StatusOK},
		{name: "detail without header", method: http.MethodGet, path: "/drinks-detail", expectedStatus: http.StatusUnauthorized, expectedCode: "authorization_header_missing"},
		{name: "detail granted", method: http.MethodGet, path: "/drinks-detail", authorization: bearer(PermissionGetDrinksDetail), expectedStatus: http.StatusOK},
		{name: "post with detail permission only", method: http.MethodPost, path: "/drinks", authorization: bearer(PermissionGetDrinksDetail), expectedStatus: http.StatusForbidden, expectedCode: "not_permitted"},
		{name: "patch granted", method: http.MethodPatch, path: "/drinks/7", authorization: bearer(PermissionPatchDrinks), expectedStatus: http.StatusOK},
		{name: "delete granted", method: http.MethodDelete, path: "/drinks/7", authorization: bearer(PermissionDeleteDrinks), expectedStatus: http.StatusOK},
		{name: "me without permissions", method: http.MethodGet, path: "/me", authorization: bearer(), expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedCode != "" {
				var body authgate.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedCode, body.Code)
			}
		})
	}
}

func TestRoutes_EchoesClaims(t *testing.T) {
	signer := authtest.NewSigner(t, "key-1")
	router := newTestRouter(t, signer)

	req := httptest.NewRequest(http.MethodPatch, "/drinks/42", nil)
	req.Header.Set("Authorization", "Bearer "+signer.Sign(t, authtest.DefaultClaims(PermissionPatchDrinks)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success     bool     `json:"success"`
		Subject     string   `json:"subject"`
		Permissions []string `json:"permissions"`
		ID          string   `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, authtest.Subject, body.Subject)
	assert.Equal(t, []string{PermissionPatchDrinks}, body.Permissions)
	assert.Equal(t, "42", body.ID)
}

func TestRoutes_Metrics(t *testing.T) {
	signer := authtest.NewSigner(t, "key-1")
	router := newTestRouter(t, signer)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/drinks-detail", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `authgate_authorizations_total{outcome="authorization_header_missing",permission="get:drinks-detail",status="401"} 1`)
}
