// Package identity provides the authenticated user principal.
package identity

// Identity represents a signed-in user. A nil *Identity is an anonymous
// session; its presence or absence is the sole driver of persistence
// behavior.
type Identity struct {
	UserID      string // Unique user ID at the identity provider
	DisplayName string // Display name
}

// New creates a new identity.
func New(userID, displayName string) *Identity {
	return &Identity{
		UserID:      userID,
		DisplayName: displayName,
	}
}

// Same reports whether two identities refer to the same user.
// Either side may be nil.
func Same(a, b *Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.UserID == b.UserID
}
