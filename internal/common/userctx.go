package common

import "context"

// UserContext holds the authenticated identity attached to a request by the
// bearer-token middleware. Absent (nil) when the request is anonymous.
type UserContext struct {
	UserID string
	Email  string
	Role   string
}

// RoleAdmin is the role claim that unlocks the admin surface.
const RoleAdmin = "admin"

// IsAdmin reports whether the context carries the admin role.
func (uc *UserContext) IsAdmin() bool {
	return uc != nil && uc.Role == RoleAdmin
}

type contextKey int

const userContextKey contextKey = iota

// WithUserContext stores a UserContext in the request context.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, uc)
}

// UserContextFromContext retrieves the UserContext from context, or nil if absent.
func UserContextFromContext(ctx context.Context) *UserContext {
	uc, _ := ctx.Value(userContextKey).(*UserContext)
	return uc
}

// ResolveUserID returns the UserID from context, or empty string when the
// request is anonymous.
func ResolveUserID(ctx context.Context) string {
	if uc := UserContextFromContext(ctx); uc != nil {
		return uc.UserID
	}
	return ""
}
