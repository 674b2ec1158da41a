// Package policy holds the pure access-control decisions for documents.
// It never returns errors or touches storage; callers translate a negative
// decision into their own outcome (the document service deliberately reports
// "not found" for invisible documents so existence never leaks).
package policy

import "tenanthub/internal/model"

// Visible reports whether the user may see the document. Cross-tenant
// isolation is absolute and cannot be overridden by role; within a tenant,
// admins see everything, members see tenant-level documents and their own
// private uploads.
func Visible(user model.User, doc model.Document) bool {
	if doc.TenantID != user.TenantID {
		return false
	}
	switch user.Role {
	case model.RoleAdmin:
		return true
	case model.RoleMember:
		if doc.AccessLevel == model.AccessTenant {
			return true
		}
		return doc.AccessLevel == model.AccessPrivate && doc.UploadedBy == user.ID
	}
	return false
}

// CanDelete reports whether the user may delete the document: admins only,
// and only within their own tenant.
func CanDelete(user model.User, doc model.Document) bool {
	return user.Role == model.RoleAdmin && Visible(user, doc)
}
