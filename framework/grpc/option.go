package authgrpc

import "errors"

// Option configures the Interceptor.
// Returns error for validation failures.
type Option func(*Interceptor) error

// Sentinel errors for configuration validation
var (
	ErrGateNil           = errors.New("auth gate cannot be nil")
	ErrTokenExtractorNil = errors.New("tokenExtractor cannot be nil")
)

// WithMethodPermission requires permission for the fully qualified
// method, e.g. "/coffeeshop.v1.Drinks/CreateDrink".
func WithMethodPermission(fullMethod, permission string) Option {
	return func(i *Interceptor) error {
		i.permissions[fullMethod] = permission
		return nil
	}
}

// WithDefaultPermission sets the permission for methods without an
// explicit entry. The default is "", which only requires a valid token.
func WithDefaultPermission(permission string) Option {
	return func(i *Interceptor) error {
		i.defaultPermission = permission
		return nil
	}
}

// WithExcludedMethods lists methods that skip authorization entirely,
// e.g. health checks.
func WithExcludedMethods(methods ...string) Option {
	return func(i *Interceptor) error {
		for _, m := range methods {
			i.excluded[m] = struct{}{}
		}
		return nil
	}
}

// WithTokenExtractor sets a custom token extractor.
//
// Default: MetadataTokenExtractor
func WithTokenExtractor(extractor TokenExtractor) Option {
	return func(i *Interceptor) error {
		if extractor == nil {
			return ErrTokenExtractorNil
		}
		i.tokenExtractor = extractor
		return nil
	}
}
