package validator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/coffeeshop/authgate/core"
)

// Signature algorithms accepted by the Validator. Only asymmetric RSA
// PKCS#1 v1.5 algorithms may verify tokens; symmetric and "none" are
// never accepted.
const (
	RS256 = SignatureAlgorithm("RS256") // RSASSA-PKCS-v1.5 using SHA-256
	RS384 = SignatureAlgorithm("RS384") // RSASSA-PKCS-v1.5 using SHA-384
	RS512 = SignatureAlgorithm("RS512") // RSASSA-PKCS-v1.5 using SHA-512
)

// MaxClockSkew is the largest clock skew WithAllowedClockSkew accepts.
const MaxClockSkew = 5 * time.Minute

// SignatureAlgorithm is a signature algorithm.
type SignatureAlgorithm string

var allowedSigningAlgorithms = map[SignatureAlgorithm]jwa.SignatureAlgorithm{
	RS256: jwa.RS256,
	RS384: jwa.RS384,
	RS512: jwa.RS512,
}

// Validator verifies a token's signature and registered claims with a
// resolved key.
type Validator struct {
	issuer           string               // Required.
	audience         string               // Required.
	algorithms       []jwa.SignatureAlgorithm
	allowedClockSkew time.Duration
	clock            func() time.Time
	logger           Logger
}

// Logger defines an optional logging interface compatible with log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// New sets up a new Validator.
//
// WithIssuer and WithAudience are required. Algorithms default to RS256.
//
// Example:
//
//	v, err := validator.New(
//	    validator.WithIssuer("https://example.eu.auth0.com/"),
//	    validator.WithAudience("https://coffee-shop.test"),
//	    validator.WithAlgorithms(validator.RS256),
//	)
func New(opts ...Option) (*Validator, error) {
	v := &Validator{
		algorithms: []jwa.SignatureAlgorithm{jwa.RS256},
		clock:      time.Now,
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if v.issuer == "" {
		return nil, errors.New("issuer is required (use WithIssuer)")
	}
	if v.audience == "" {
		return nil, errors.New("audience is required (use WithAudience)")
	}

	return v, nil
}

// VerifyToken validates tokenString with key and returns its claims.
//
// Every failure is a *core.AuthError with status 401: invalid_header for
// signature, algorithm and decode problems, token_expired for a past
// exp, invalid_claims for any other registered claim mismatch.
func (v *Validator) VerifyToken(ctx context.Context, tokenString string, key jwk.Key) (*core.ClaimSet, error) {
	if err := validateTokenFormat(tokenString); err != nil {
		return nil, v.unparseable("token rejected before parsing", err)
	}

	alg, err := v.signingAlgorithm(tokenString)
	if err != nil {
		return nil, v.unparseable("signing method is invalid", err)
	}

	if key == nil || key.KeyType() != jwa.RSA {
		return nil, v.unparseable("verification key is not an RSA key", fmt.Errorf("unexpected key %v", key))
	}

	token, err := jwt.ParseString(tokenString,
		jwt.WithKey(alg, key),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithRequiredClaim(jwt.ExpirationKey),
		jwt.WithAcceptableSkew(v.allowedClockSkew),
		jwt.WithClock(jwt.ClockFunc(v.clock)),
	)
	if err != nil {
		return nil, v.classify(err)
	}

	claims, err := claimSetFromToken(ctx, token)
	if err != nil {
		return nil, v.unparseable("could not decode token claims", err)
	}

	return claims, nil
}

// signingAlgorithm reads alg from the unverified header and checks it
// against the allow-list before any key is used.
func (v *Validator) signingAlgorithm(tokenString string) (jwa.SignatureAlgorithm, error) {
	msg, err := jws.ParseString(tokenString)
	if err != nil {
		return "", fmt.Errorf("could not parse the token: %w", err)
	}

	sigs := msg.Signatures()
	if len(sigs) != 1 {
		return "", fmt.Errorf("expected exactly one signature, got %d", len(sigs))
	}

	alg := sigs[0].ProtectedHeaders().Algorithm()
	if !slices.Contains(v.algorithms, alg) {
		return "", fmt.Errorf("token specified %q which is not an allowed signing algorithm %v", alg, v.algorithms)
	}

	return alg, nil
}

func (v *Validator) classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired()):
		v.log("token expired", err)
		return core.Unauthorized(core.ErrorCodeTokenExpired, core.DescriptionTokenExpired, err)
	case jwt.IsValidationError(err),
		errors.Is(err, jwt.ErrInvalidIssuer()),
		errors.Is(err, jwt.ErrInvalidAudience()):
		v.log("expected claims not validated", err)
		return core.Unauthorized(core.ErrorCodeInvalidClaims, core.DescriptionInvalidClaims, err)
	default:
		return v.unparseable("could not verify the token", err)
	}
}

func (v *Validator) unparseable(msg string, err error) error {
	v.log(msg, err)
	return core.Unauthorized(core.ErrorCodeInvalidHeader, core.DescriptionUnparseable, err)
}

func (v *Validator) log(msg string, err error) {
	if v.logger != nil {
		v.logger.Warn(msg, "error", err)
	}
}
