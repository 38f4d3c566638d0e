package authgrpc

import (
	"context"

	"google.golang.org/grpc/metadata"

	"github.com/coffeeshop/authgate"
	"github.com/coffeeshop/authgate/core"
)

// TokenExtractor defines a function that extracts a token from gRPC metadata.
type TokenExtractor func(ctx context.Context) (string, error)

// MetadataTokenExtractor reads the "authorization" metadata field and
// applies the same bearer rules as the HTTP Authorization header. A
// missing field is reported as authorization_header_missing.
func MetadataTokenExtractor(ctx context.Context) (string, error) {
	return authgate.ParseAuthorizationHeader(firstValue(ctx, "authorization"))
}

// MetadataFieldTokenExtractor extracts a raw token from a specified
// metadata field, without a scheme prefix.
func MetadataFieldTokenExtractor(field string) TokenExtractor {
	return func(ctx context.Context) (string, error) {
		token := firstValue(ctx, field)
		if token == "" {
			return "", core.Unauthorized(core.ErrorCodeHeaderMissing, core.DescriptionHeaderMissing, nil)
		}
		return token, nil
	}
}

func firstValue(ctx context.Context, field string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(field)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
