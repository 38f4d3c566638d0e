package core

import (
	"errors"
	"net/http"
)

// Error codes carried by AuthError. They are part of the response body
// contract and must not change.
const (
	ErrorCodeHeaderMissing = "authorization_header_missing"
	ErrorCodeInvalidHeader = "invalid_header"
	ErrorCodeTokenExpired  = "token_expired"
	ErrorCodeInvalidClaims = "invalid_claims"
	ErrorCodeNotPermitted  = "not_permitted"
)

// Descriptions returned to callers. Internal causes never appear here.
const (
	DescriptionHeaderMissing      = "Authorization header is expected."
	DescriptionNotBearer          = "Authorization header must be bearer token."
	DescriptionTokenNotFound      = "Token not found."
	DescriptionMalformed          = "Authorization is malformed."
	DescriptionKeyNotFound        = "Unable to find the appropriate key."
	DescriptionKeySetUnavailable  = "Unable to fetch the verification keys."
	DescriptionUnparseable        = "Unable to parse authentication token."
	DescriptionTokenExpired       = "Token Expired"
	DescriptionInvalidClaims      = "Incorrect claims. Please, check the audience and issuer."
	DescriptionPermissionsMissing = "Permissions are not defined in token."
	DescriptionNotPermitted       = "You don't have sufficient permission to perform this action."
)

// Sentinel values for use with errors.Is. An AuthError matches a sentinel
// when code and status are equal.
var (
	ErrHeaderMissing      = &AuthError{Code: ErrorCodeHeaderMissing, Status: http.StatusUnauthorized}
	ErrInvalidHeader      = &AuthError{Code: ErrorCodeInvalidHeader, Status: http.StatusUnauthorized}
	ErrTokenExpired       = &AuthError{Code: ErrorCodeTokenExpired, Status: http.StatusUnauthorized}
	ErrInvalidClaims      = &AuthError{Code: ErrorCodeInvalidClaims, Status: http.StatusUnauthorized}
	ErrPermissionsMissing = &AuthError{Code: ErrorCodeInvalidHeader, Status: http.StatusForbidden}
	ErrNotPermitted       = &AuthError{Code: ErrorCodeNotPermitted, Status: http.StatusForbidden}

	// ErrClaimsNotFound is returned when claims cannot be retrieved from context.
	ErrClaimsNotFound = errors.New("claims not found in context")
)

// AuthError is the single error type that leaves the authorization
// pipeline. Status is 401 for authentication failures and 403 for
// authorization failures.
type AuthError struct {
	// Code is the machine-readable error code.
	Code string `json:"code"`

	// Description is the human-readable message sent to the caller.
	Description string `json:"description"`

	// Status is the HTTP status the transport should respond with.
	Status int `json:"-"`

	// Err is the internal cause. It is logged, never serialized.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Description + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Description
}

// Unwrap returns the internal cause.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AuthError with the same code and status.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Status == t.Status
}

// Unauthorized builds a 401 AuthError.
func Unauthorized(code, description string, cause error) *AuthError {
	return &AuthError{Code: code, Description: description, Status: http.StatusUnauthorized, Err: cause}
}

// Forbidden builds a 403 AuthError.
func Forbidden(code, description string, cause error) *AuthError {
	return &AuthError{Code: code, Description: description, Status: http.StatusForbidden, Err: cause}
}

// AsAuthError extracts an AuthError from err. Errors of any other kind
// are reported as ok == false.
func AsAuthError(err error) (*AuthError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}
