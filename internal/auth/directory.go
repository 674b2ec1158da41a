package auth

import (
	"encoding/json"
	"fmt"
	"os"

	"tenanthub/internal/model"
)

// DirectoryEntry is the on-disk form of a user record in a users file.
type DirectoryEntry struct {
	ID       string     `json:"id"`
	TenantID string     `json:"tenant_id"`
	Role     model.Role `json:"role"`
	Token    string     `json:"token"`
}

// Directory is an immutable token-to-user lookup table built once at process
// start. It replaces any ambient global user registry: construct it and pass
// it by reference to the resolver.
type Directory struct {
	byToken map[string]model.User
}

// NewDirectory builds a Directory from the given entries. Entries without a
// token, an id, a tenant or with an unknown role are rejected.
func NewDirectory(entries []DirectoryEntry) (*Directory, error) {
	byToken := make(map[string]model.User, len(entries))
	for _, e := range entries {
		if e.Token == "" || e.ID == "" || e.TenantID == "" {
			return nil, fmt.Errorf("user %q: token, id and tenant_id are required", e.ID)
		}
		if !e.Role.Valid() {
			return nil, fmt.Errorf("user %q: unknown role %q", e.ID, e.Role)
		}
		if _, dup := byToken[e.Token]; dup {
			return nil, fmt.Errorf("user %q: duplicate token", e.ID)
		}
		byToken[e.Token] = model.User{
			ID:       e.ID,
			TenantID: e.TenantID,
			Role:     e.Role,
			Token:    e.Token,
		}
	}
	return &Directory{byToken: byToken}, nil
}

// LoadDirectory reads a JSON array of directory entries from path.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	var entries []DirectoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse users file %s: %w", path, err)
	}
	return NewDirectory(entries)
}

// DefaultDirectory returns the built-in demo identities used when no users
// file is configured.
func DefaultDirectory() *Directory {
	dir, err := NewDirectory([]DirectoryEntry{
		{ID: "admin_a", TenantID: "company_a", Role: model.RoleAdmin, Token: "token_admin_a"},
		{ID: "user_a", TenantID: "company_a", Role: model.RoleMember, Token: "token_user_a"},
		{ID: "admin_b", TenantID: "company_b", Role: model.RoleAdmin, Token: "token_admin_b"},
	})
	if err != nil {
		panic(err)
	}
	return dir
}

// FindByToken looks up the user owning the given token.
func (d *Directory) FindByToken(token string) (model.User, bool) {
	u, ok := d.byToken[token]
	return u, ok
}

// Len returns the number of registered users.
func (d *Directory) Len() int {
	return len(d.byToken)
}
