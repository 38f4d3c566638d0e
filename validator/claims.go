package validator

import (
	"context"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/coffeeshop/authgate/core"
)

// claimSetFromToken copies a verified token into a core.ClaimSet.
func claimSetFromToken(ctx context.Context, token jwt.Token) (*core.ClaimSet, error) {
	raw, err := token.AsMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not read token claims: %w", err)
	}

	claims := &core.ClaimSet{
		RegisteredClaims: core.RegisteredClaims{
			Issuer:    token.Issuer(),
			Subject:   token.Subject(),
			Audience:  token.Audience(),
			ID:        token.JwtID(),
			Expiry:    unixTime(token.Expiration()),
			NotBefore: unixTime(token.NotBefore()),
			IssuedAt:  unixTime(token.IssuedAt()),
		},
		Raw: raw,
	}

	value, ok := token.Get(core.PermissionsClaim)
	if !ok {
		return claims, nil
	}

	permissions, err := permissionList(value)
	if err != nil {
		return nil, err
	}
	claims.Permissions = permissions
	claims.PermissionsDefined = true

	return claims, nil
}

// permissionList accepts the JSON array form of the permissions claim.
func permissionList(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("permissions[%d] is %T, expected string", i, item)
			}
			out = append(out, s)
		}
		return out, nil
	case nil:
		return []string{}, nil
	default:
		return nil, fmt.Errorf("permissions claim is %T, expected an array of strings", value)
	}
}

func unixTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
