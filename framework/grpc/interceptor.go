// Package authgrpc provides gRPC server interceptors backed by an
// authgate.AuthGate.
//
// Each method is mapped to a required permission. Failures are returned
// as gRPC status errors: 401 outcomes become codes.Unauthenticated and
// 403 outcomes become codes.PermissionDenied.
package authgrpc

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/coffeeshop/authgate"
	"github.com/coffeeshop/authgate/core"
)

// Interceptor authorizes unary and streaming calls.
type Interceptor struct {
	gate              *authgate.AuthGate
	tokenExtractor    TokenExtractor
	permissions       map[string]string
	defaultPermission string
	excluded          map[string]struct{}
}

// New creates a new Interceptor with the given options.
func New(gate *authgate.AuthGate, opts ...Option) (*Interceptor, error) {
	if gate == nil {
		return nil, ErrGateNil
	}

	i := &Interceptor{
		gate:           gate,
		tokenExtractor: MetadataTokenExtractor,
		permissions:    map[string]string{},
		excluded:       map[string]struct{}{},
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	return i, nil
}

// PermissionFor returns the permission required by fullMethod.
func (i *Interceptor) PermissionFor(fullMethod string) string {
	if p, ok := i.permissions[fullMethod]; ok {
		return p
	}
	return i.defaultPermission
}

func (i *Interceptor) authenticate(ctx context.Context, method string) (context.Context, error) {
	if _, ok := i.excluded[method]; ok {
		return ctx, nil
	}

	claims, err := i.gate.AuthorizeFrom(ctx, i.PermissionFor(method), func() (string, error) {
		return i.tokenExtractor(ctx)
	})
	if err != nil {
		return nil, StatusFromError(err)
	}

	return core.SetClaims(ctx, claims), nil
}

// UnaryServerInterceptor returns a gRPC unary server interceptor.
func (i *Interceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		authCtx, err := i.authenticate(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}
		return handler(authCtx, req)
	}
}

// StreamServerInterceptor returns a gRPC stream server interceptor.
func (i *Interceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		authCtx, err := i.authenticate(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}
		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: authCtx})
	}
}

// wrappedServerStream wraps a grpc.ServerStream to override the context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the wrapped context.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}

// StatusFromError converts an authorization failure into a gRPC status
// error carrying "code: description".
func StatusFromError(err error) error {
	httpStatus, body := authgate.ErrorResponseFor(err)

	code := codes.Internal
	switch httpStatus {
	case http.StatusUnauthorized:
		code = codes.Unauthenticated
	case http.StatusForbidden:
		code = codes.PermissionDenied
	}
	return status.Error(code, fmt.Sprintf("%s: %s", body.Code, body.Description))
}

// GetClaims retrieves the ClaimSet placed in the context by the interceptor.
func GetClaims(ctx context.Context) (*core.ClaimSet, error) {
	return core.GetClaims(ctx)
}
