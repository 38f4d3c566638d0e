// Package authtest mints RSA keys, signed tokens and JWKS servers for the
// module's tests.
package authtest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Issuer and Audience used by DefaultClaims.
const (
	Issuer   = "https://coffee.test.auth0.com/"
	Audience = "coffee"
	Subject  = "auth0|barista"
)

// Signer is an RSA key pair. The public half carries the same kid.
type Signer struct {
	KeyID   string
	Private jwk.Key
	Public  jwk.Key
}

// NewSigner generates a 2048-bit RSA key. An empty kid leaves the kid
// header out of signed tokens.
func NewSigner(t testing.TB, kid string) *Signer {
	t.Helper()

	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating rsa key: %v", err)
	}

	priv, err := jwk.FromRaw(raw)
	if err != nil {
		t.Fatalf("wrapping rsa key: %v", err)
	}
	if kid != "" {
		if err := priv.Set(jwk.KeyIDKey, kid); err != nil {
			t.Fatalf("setting kid: %v", err)
		}
	}

	pub, err := jwk.PublicKeyOf(priv)
	if err != nil {
		t.Fatalf("deriving public key: %v", err)
	}

	return &Signer{KeyID: kid, Private: priv, Public: pub}
}

// DefaultClaims returns a valid payload for Issuer and Audience that
// expires in an hour and grants permissions.
func DefaultClaims(permissions ...string) map[string]any {
	now := time.Now()
	if permissions == nil {
		permissions = []string{}
	}
	return map[string]any{
		jwt.IssuerKey:     Issuer,
		jwt.AudienceKey:   []string{Audience},
		jwt.SubjectKey:    Subject,
		jwt.IssuedAtKey:   now,
		jwt.ExpirationKey: now.Add(time.Hour),
		jwt.JwtIDKey:      uuid.NewString(),
		"permissions":     permissions,
	}
}

// Sign signs claims with RS256.
func (s *Signer) Sign(t testing.TB, claims map[string]any) string {
	t.Helper()
	return s.SignWith(t, jwa.RS256, claims)
}

// SignWith signs claims with alg using the private key.
func (s *Signer) SignWith(t testing.TB, alg jwa.SignatureAlgorithm, claims map[string]any) string {
	t.Helper()

	tok := jwt.New()
	for k, v := range claims {
		if err := tok.Set(k, v); err != nil {
			t.Fatalf("setting claim %q: %v", k, err)
		}
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(alg, s.Private))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return string(signed)
}

// KeySet returns a set holding the public keys of signers.
func KeySet(t testing.TB, signers ...*Signer) jwk.Set {
	t.Helper()

	set := jwk.NewSet()
	for _, s := range signers {
		if err := set.AddKey(s.Public); err != nil {
			t.Fatalf("adding key: %v", err)
		}
	}
	return set
}

// JWKSServer serves a key set and counts requests to it.
type JWKSServer struct {
	*httptest.Server

	hits    atomic.Int32
	failing atomic.Bool
	body    atomic.Pointer[[]byte]
}

// NewJWKSServer starts a server publishing the public keys of signers at
// /.well-known/jwks.json. It is closed when the test ends.
func NewJWKSServer(t testing.TB, signers ...*Signer) *JWKSServer {
	t.Helper()

	s := &JWKSServer{}
	s.SetKeys(t, signers...)

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/jwks.json" {
			http.NotFound(w, r)
			return
		}
		s.hits.Add(1)
		if s.failing.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(*s.body.Load())
	}))
	t.Cleanup(s.Close)

	return s
}

// SetKeys replaces the published keys.
func (s *JWKSServer) SetKeys(t testing.TB, signers ...*Signer) {
	t.Helper()

	b, err := json.Marshal(KeySet(t, signers...))
	if err != nil {
		t.Fatalf("marshaling key set: %v", err)
	}
	s.body.Store(&b)
}

// SetFailing makes the server answer 503 while failing is true.
func (s *JWKSServer) SetFailing(failing bool) {
	s.failing.Store(failing)
}

// Hits returns how many key set requests were served.
func (s *JWKSServer) Hits() int {
	return int(s.hits.Load())
}

// JWKSURL is the key set location.
func (s *JWKSServer) JWKSURL() string {
	return s.URL + "/.well-known/jwks.json"
}
