package authgate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/coffeeshop/authgate/core"
)

// AuthGate guards HTTP handlers with token verification and a
// permission check.
type AuthGate struct {
	core              *core.Core
	errorHandler      ErrorHandler
	tokenExtractor    TokenExtractor
	validateOnOptions bool
	logger            Logger
	metrics           Metrics
	tracer            trace.Tracer

	// Temporary fields used during construction
	resolver core.KeyResolver
	verifier core.TokenVerifier
}

// New constructs a new AuthGate instance with the supplied options.
//
// Example:
//
//	gate, err := authgate.New(
//	    authgate.WithKeyResolver(resolver),
//	    authgate.WithTokenVerifier(v),
//	)
//	if err != nil {
//	    log.Fatalf("failed to set up the auth gate: %v", err)
//	}
//
//	mux.Handle("/drinks-detail", gate.Guard("get:drinks-detail")(handler))
func New(opts ...Option) (*AuthGate, error) {
	g := &AuthGate{
		validateOnOptions: true,
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	g.applyDefaults()

	if err := g.validate(); err != nil {
		return nil, fmt.Errorf("invalid auth gate configuration: %w", err)
	}

	c, err := core.New(
		core.WithKeyResolver(g.resolver),
		core.WithTokenVerifier(g.verifier),
		core.WithLogger(g.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid auth gate configuration: %w", err)
	}
	g.core = c

	return g, nil
}

func (g *AuthGate) validate() error {
	if g.resolver == nil {
		return ErrKeyResolverNil
	}
	if g.verifier == nil {
		return ErrTokenVerifierNil
	}
	return nil
}

func (g *AuthGate) applyDefaults() {
	if g.errorHandler == nil {
		g.errorHandler = DefaultErrorHandler
	}
	if g.tokenExtractor == nil {
		g.tokenExtractor = AuthHeaderTokenExtractor
	}
	if g.logger == nil {
		g.logger = defaultLogger()
	}
	if g.metrics == nil {
		g.metrics = NoopMetrics{}
	}
	if g.tracer == nil {
		g.tracer = defaultTracer()
	}
}

// Guard returns middleware that lets a request through only when it
// carries a valid token granting permission. An empty permission only
// requires authentication.
//
// The wrapped handler runs at most once per request, with the ClaimSet
// available through GetClaims.
func (g *AuthGate) Guard(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.validateOnOptions && r.Method == http.MethodOptions {
				g.logger.Debug("skipping authorization for OPTIONS request", "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			claims, err := g.AuthorizeRequest(r, permission)
			if err != nil {
				g.errorHandler(w, r, err)
				return
			}

			next.ServeHTTP(w, r.Clone(core.SetClaims(r.Context(), claims)))
		})
	}
}

// GuardFunc is Guard for a plain handler function.
func (g *AuthGate) GuardFunc(permission string, next http.HandlerFunc) http.Handler {
	return g.Guard(permission)(next)
}

// AuthorizeRequest runs the pipeline on r using the configured
// TokenExtractor. It does not consult the OPTIONS setting.
func (g *AuthGate) AuthorizeRequest(r *http.Request, permission string) (*core.ClaimSet, error) {
	return g.AuthorizeFrom(r.Context(), permission, func() (string, error) {
		return g.tokenExtractor(r)
	})
}

// Authorize runs the pipeline on an already extracted token.
func (g *AuthGate) Authorize(ctx context.Context, token, permission string) (*core.ClaimSet, error) {
	return g.AuthorizeFrom(ctx, permission, func() (string, error) {
		return token, nil
	})
}

// AuthorizeFrom runs the pipeline with a caller supplied extraction step.
// Transports other than net/http, such as gRPC, use it so that extraction
// failures are traced and counted like any other outcome.
func (g *AuthGate) AuthorizeFrom(ctx context.Context, permission string, extract func() (string, error)) (*core.ClaimSet, error) {
	ctx, span := g.tracer.Start(ctx, "authgate.authorize",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("authgate.permission", permission)),
	)
	defer span.End()

	start := time.Now()
	claims, err := g.run(ctx, permission, extract)
	duration := time.Since(start)

	outcome, status := OutcomeAuthorized, http.StatusOK
	if err != nil {
		outcome, status = outcomeOf(err)
		span.SetStatus(codes.Error, outcome)
	} else {
		span.SetAttributes(attribute.String("authgate.subject", claims.RegisteredClaims.Subject))
	}
	span.SetAttributes(
		attribute.String("authgate.outcome", outcome),
		attribute.Int("authgate.status", status),
	)
	g.metrics.ObserveAuthorization(permission, outcome, status, duration)

	return claims, err
}

func (g *AuthGate) run(ctx context.Context, permission string, extract func() (string, error)) (*core.ClaimSet, error) {
	token, err := extract()
	if err != nil {
		if _, ok := core.AsAuthError(err); !ok {
			g.logger.Error("token extractor failed", "error", err)
			err = core.Unauthorized(core.ErrorCodeInvalidHeader, core.DescriptionUnparseable, err)
		}
		g.logger.Debug("could not extract token", "error", err)
		return nil, err
	}

	return g.core.Authorize(ctx, token, permission)
}

func outcomeOf(err error) (string, int) {
	if authErr, ok := core.AsAuthError(err); ok {
		return authErr.Code, authErr.Status
	}
	return "internal_error", http.StatusInternalServerError
}

// GetClaims retrieves the ClaimSet placed in the context by the gate.
//
// Example:
//
//	claims, err := authgate.GetClaims(r.Context())
//	if err != nil {
//	    http.Error(w, "failed to get claims", http.StatusInternalServerError)
//	    return
//	}
//	fmt.Println(claims.RegisteredClaims.Subject)
func GetClaims(ctx context.Context) (*core.ClaimSet, error) {
	return core.GetClaims(ctx)
}

// MustGetClaims retrieves claims from the context or panics.
// Use only behind Guard.
func MustGetClaims(ctx context.Context) *core.ClaimSet {
	claims, err := core.GetClaims(ctx)
	if err != nil {
		panic(err)
	}
	return claims
}

// HasClaims checks if claims exist in the context.
func HasClaims(ctx context.Context) bool {
	return core.HasClaims(ctx)
}
