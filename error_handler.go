package authgate

import (
	"encoding/json"
	"net/http"

	"github.com/coffeeshop/authgate/core"
)

// ErrorHandler renders an authorization failure. err is a *core.AuthError
// for every failure the gate produces; a custom handler MUST respect its
// Status or the distinction between 401 and 403 is lost.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// ErrorResponse is the JSON body written by DefaultErrorHandler.
type ErrorResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// DefaultErrorHandler is the default error handler implementation for the
// AuthGate. It writes the AuthError's status and a {code, description}
// body. Any other error becomes a 500.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	status, body := ErrorResponseFor(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ErrorResponseFor maps err to the status and body every transport
// adapter should use.
func ErrorResponseFor(err error) (int, ErrorResponse) {
	if authErr, ok := core.AsAuthError(err); ok {
		return authErr.Status, ErrorResponse{Code: authErr.Code, Description: authErr.Description}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Code:        "internal_error",
		Description: "Something went wrong while checking the token.",
	}
}
