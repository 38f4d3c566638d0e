package core

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	claimsKey contextKey = iota
)

// GetClaims retrieves the ClaimSet stored by the gate.
//
// Example usage:
//
//	claims, err := core.GetClaims(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(claims.RegisteredClaims.Subject)
func GetClaims(ctx context.Context) (*ClaimSet, error) {
	claims, ok := ctx.Value(claimsKey).(*ClaimSet)
	if !ok || claims == nil {
		return nil, ErrClaimsNotFound
	}
	return claims, nil
}

// SetClaims stores claims in the context.
// Transport adapters call it after a successful authorization.
func SetClaims(ctx context.Context, claims *ClaimSet) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// HasClaims checks if claims exist in the context without retrieving them.
func HasClaims(ctx context.Context) bool {
	claims, ok := ctx.Value(claimsKey).(*ClaimSet)
	return ok && claims != nil
}
