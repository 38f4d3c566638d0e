package authgate

import (
	"errors"

	"go.opentelemetry.io/otel/trace"

	"github.com/coffeeshop/authgate/core"
)

// Option configures the AuthGate.
// Returns error for validation failures.
type Option func(*AuthGate) error

// WithKeyResolver sets the resolver for verification keys (REQUIRED).
// It is usually a *jwks.Resolver.
func WithKeyResolver(r core.KeyResolver) Option {
	return func(g *AuthGate) error {
		if r == nil {
			return ErrKeyResolverNil
		}
		g.resolver = r
		return nil
	}
}

// WithTokenVerifier sets the token verifier (REQUIRED).
// It is usually a *validator.Validator.
func WithTokenVerifier(v core.TokenVerifier) Option {
	return func(g *AuthGate) error {
		if v == nil {
			return ErrTokenVerifierNil
		}
		g.verifier = v
		return nil
	}
}

// WithErrorHandler sets the handler called when authorization fails.
// See the ErrorHandler type for more information.
//
// Default: DefaultErrorHandler
func WithErrorHandler(h ErrorHandler) Option {
	return func(g *AuthGate) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		g.errorHandler = h
		return nil
	}
}

// WithTokenExtractor sets the function to extract the token from the request.
//
// Default: AuthHeaderTokenExtractor
func WithTokenExtractor(e TokenExtractor) Option {
	return func(g *AuthGate) error {
		if e == nil {
			return ErrTokenExtractorNil
		}
		g.tokenExtractor = e
		return nil
	}
}

// WithValidateOnOptions sets whether OPTIONS requests are authorized.
// Disable it when CORS preflight requests reach the guarded handler.
//
// Default: true (OPTIONS requests are authorized)
func WithValidateOnOptions(value bool) Option {
	return func(g *AuthGate) error {
		g.validateOnOptions = value
		return nil
	}
}

// WithLogger sets the logger used by the gate and its core.
//
// Default: logrus standard logger
func WithLogger(logger Logger) Option {
	return func(g *AuthGate) error {
		if logger == nil {
			return ErrLoggerNil
		}
		g.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink.
//
// Default: NoopMetrics
func WithMetrics(m Metrics) Option {
	return func(g *AuthGate) error {
		if m == nil {
			return ErrMetricsNil
		}
		g.metrics = m
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer used for authorization spans.
//
// Default: a no-op tracer
func WithTracer(t trace.Tracer) Option {
	return func(g *AuthGate) error {
		if t == nil {
			return ErrTracerNil
		}
		g.tracer = t
		return nil
	}
}

// Sentinel errors for configuration validation
var (
	ErrKeyResolverNil    = errors.New("key resolver is required (use WithKeyResolver)")
	ErrTokenVerifierNil  = errors.New("token verifier is required (use WithTokenVerifier)")
	ErrErrorHandlerNil   = errors.New("errorHandler cannot be nil")
	ErrTokenExtractorNil = errors.New("tokenExtractor cannot be nil")
	ErrLoggerNil         = errors.New("logger cannot be nil")
	ErrMetricsNil        = errors.New("metrics cannot be nil")
	ErrTracerNil         = errors.New("tracer cannot be nil")
)
