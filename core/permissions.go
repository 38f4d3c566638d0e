package core

// RequirePermission checks that claims grant permission.
//
// A token without a permissions claim fails with a 403 invalid_header
// error: the token is authentic but the provider did not attach
// permissions to it. An empty permission skips the membership check and
// only requires the claim to be present.
func RequirePermission(permission string, claims *ClaimSet) error {
	if claims == nil || !claims.PermissionsDefined {
		return Forbidden(ErrorCodeInvalidHeader, DescriptionPermissionsMissing, nil)
	}

	if permission == "" {
		return nil
	}

	if !claims.HasPermission(permission) {
		return Forbidden(ErrorCodeNotPermitted, DescriptionNotPermitted, nil)
	}

	return nil
}
