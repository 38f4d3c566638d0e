package validator

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
)

// Option is how options for the Validator are set up.
// Options return errors to enable validation during construction.
type Option func(*Validator) error

// WithIssuer sets the expected issuer claim (iss) for token validation.
// This is a required option. The comparison is exact, trailing slash
// included.
func WithIssuer(issuerURL string) Option {
	return func(v *Validator) error {
		if issuerURL == "" {
			return errors.New("issuer cannot be empty")
		}
		if _, err := url.Parse(issuerURL); err != nil {
			return fmt.Errorf("invalid issuer URL: %w", err)
		}
		v.issuer = issuerURL
		return nil
	}
}

// WithAudience sets the audience the aud claim must contain.
// This is a required option.
func WithAudience(audience string) Option {
	return func(v *Validator) error {
		if audience == "" {
			return errors.New("audience cannot be empty")
		}
		v.audience = audience
		return nil
	}
}

// WithAlgorithms replaces the signing algorithm allow-list.
//
// Only RS256, RS384 and RS512 are supported. Default: RS256.
func WithAlgorithms(algorithms ...SignatureAlgorithm) Option {
	return func(v *Validator) error {
		if len(algorithms) == 0 {
			return errors.New("algorithms cannot be empty")
		}
		allowed := make([]jwa.SignatureAlgorithm, 0, len(algorithms))
		for _, alg := range algorithms {
			jwxAlg, ok := allowedSigningAlgorithms[alg]
			if !ok {
				return fmt.Errorf("unsupported signature algorithm: %s", alg)
			}
			allowed = append(allowed, jwxAlg)
		}
		v.algorithms = allowed
		return nil
	}
}

// WithAllowedClockSkew sets the tolerance applied to exp, nbf and iat.
//
// Default: 0. The skew must be between 0 and MaxClockSkew.
func WithAllowedClockSkew(skew time.Duration) Option {
	return func(v *Validator) error {
		if skew < 0 {
			return errors.New("clock skew cannot be negative")
		}
		if skew > MaxClockSkew {
			return fmt.Errorf("clock skew cannot exceed %s", MaxClockSkew)
		}
		v.allowedClockSkew = skew
		return nil
	}
}

// WithClock overrides the time source used for exp, nbf and iat.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		v.clock = now
		return nil
	}
}

// WithLogger sets an optional logger. Rejection causes are logged here
// and never returned to the caller.
func WithLogger(logger Logger) Option {
	return func(v *Validator) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		v.logger = logger
		return nil
	}
}
