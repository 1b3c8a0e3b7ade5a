package tenant

import "github.com/google/uuid"

// Context identifies the tenant and acting user for a single request.
// It is built by the auth middleware from JWT claims and passed explicitly
// to every service and repository call, so the tenant scope of each data
// access is visible at the call site.
type Context struct {
	OwnerID   uuid.UUID
	UserID    string
	UserName  string
	UserEmail string
}

// Actor returns a display name for audit trails.
func (c Context) Actor() string {
	if c.UserName != "" {
		return c.UserName
	}
	return "system"
}
