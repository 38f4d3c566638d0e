package authgate

import (
	"net/http"
	"strings"

	"github.com/coffeeshop/authgate/core"
)

// TokenExtractor pulls the raw bearer token out of a request. Failures
// must be *core.AuthError values so the error handler can render them.
type TokenExtractor func(r *http.Request) (string, error)

// AuthHeaderTokenExtractor is a TokenExtractor that takes a request
// and extracts the token from the Authorization header.
func AuthHeaderTokenExtractor(r *http.Request) (string, error) {
	return ParseAuthorizationHeader(r.Header.Get("Authorization"))
}

// ParseAuthorizationHeader applies the bearer rules to a raw header
// value. It is shared with transports that carry the header elsewhere,
// such as gRPC metadata.
//
// The value must be exactly "Bearer <token>" with the scheme matched
// case-insensitively; the token is returned verbatim.
func ParseAuthorizationHeader(value string) (string, error) {
	if value == "" {
		return "", core.Unauthorized(core.ErrorCodeHeaderMissing, core.DescriptionHeaderMissing, nil)
	}

	parts := strings.Fields(value)
	switch {
	case len(parts) == 0, len(parts) > 2 || !strings.EqualFold(parts[0], "bearer"):
		return "", core.Unauthorized(core.ErrorCodeInvalidHeader, core.DescriptionNotBearer, nil)
	case len(parts) == 1:
		return "", core.Unauthorized(core.ErrorCodeInvalidHeader, core.DescriptionTokenNotFound, nil)
	}

	return parts[1], nil
}
