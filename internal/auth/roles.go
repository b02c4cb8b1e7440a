package auth

// IsAuthorizedAdmin reports whether the caller holds the admin flag. No owner
// bypass exists for admin-only operations.
func IsAuthorizedAdmin(claims *Claims) bool {
	return claims != nil && claims.IsAdmin
}

// IsAuthorizedOwner reports whether the caller owns the resource or is an
// admin. ownerID must come from the resource's current stored state, not from
// anything the caller supplied.
func IsAuthorizedOwner(claims *Claims, ownerID string) bool {
	if claims == nil {
		return false
	}
	return claims.IsAdmin || claims.Subject == ownerID
}
