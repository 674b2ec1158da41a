package model

// Role is the closed set of roles a user can hold. Admins get tenant-wide
// document visibility and delete rights; members see tenant-level documents
// and their own private ones.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember:
		return true
	}
	return false
}

// User is an authenticated identity. Users are loaded once at startup and
// never mutated; the bearer token is a static long-lived credential and is
// never serialized in API responses.
type User struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Role     Role   `json:"role"`
	Token    string `json:"-"`
}
