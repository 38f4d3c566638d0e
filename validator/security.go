package validator

import (
	"errors"
	"strings"
)

var (
	// ErrExcessiveTokenDots is returned when a token is not a three part
	// compact JWS.
	ErrExcessiveTokenDots = errors.New("token must be a compact JWS with exactly three parts")

	// ErrTokenTooLarge is returned for tokens above maxTokenSize.
	ErrTokenTooLarge = errors.New("token exceeds maximum size")
)

// maxTokenSize rejects oversized input before any decoding happens.
// Access tokens are a few KB at most.
const maxTokenSize = 64 << 10

// validateTokenFormat performs cheap structural checks on the raw token
// before it reaches the JOSE parser.
func validateTokenFormat(tokenString string) error {
	if tokenString == "" {
		return errors.New("token is empty")
	}

	if len(tokenString) > maxTokenSize {
		return ErrTokenTooLarge
	}

	if strings.Count(tokenString, ".") != 2 {
		return ErrExcessiveTokenDots
	}

	return nil
}
