package core

import "slices"

// PermissionsClaim is the name of the claim holding granted permissions.
const PermissionsClaim = "permissions"

// ClaimSet is the decoded payload of a verified token. It is built once
// per successful verification and handed to the protected handler;
// callers must treat it as read-only.
type ClaimSet struct {
	RegisteredClaims RegisteredClaims

	// Permissions lists the granted permission strings.
	Permissions []string

	// PermissionsDefined is false when the token carried no permissions
	// claim at all, as opposed to an empty one.
	PermissionsDefined bool

	// Raw holds every claim of the payload keyed by name.
	Raw map[string]any
}

// RegisteredClaims represents public claim values (as specified in RFC 7519).
type RegisteredClaims struct {
	Issuer    string   `json:"iss,omitempty"`
	Subject   string   `json:"sub,omitempty"`
	Audience  []string `json:"aud,omitempty"`
	Expiry    int64    `json:"exp,omitempty"`
	NotBefore int64    `json:"nbf,omitempty"`
	IssuedAt  int64    `json:"iat,omitempty"`
	ID        string   `json:"jti,omitempty"`
}

// HasPermission reports whether permission was granted.
func (c *ClaimSet) HasPermission(permission string) bool {
	return slices.Contains(c.Permissions, permission)
}

// Claim returns a raw claim by name.
func (c *ClaimSet) Claim(name string) (any, bool) {
	v, ok := c.Raw[name]
	return v, ok
}
