package model

import (
	"time"

	"github.com/google/uuid"

	"backoffice/internal/permission"
)

// SuperAdminSlug is the reserved slug identifying the role that bypasses
// all permission checks. Super-admin identity is carried by the slug, not
// a separate flag column.
const SuperAdminSlug = "super-admin"

// Role aggregates permissions and is assigned to users
type Role struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Slug        string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description string       `gorm:"type:text" json:"description"`
	IsDefault   bool         `gorm:"default:false" json:"is_default"` // Assigned to new users without an explicit role
	Permissions []Permission `gorm:"many2many:role_permission;constraint:OnDelete:CASCADE" json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// IsSuperAdmin reports whether this is the reserved super-admin role.
func (r *Role) IsSuperAdmin() bool {
	return r.Slug == SuperAdminSlug
}

// HasPermission reports whether the role holds the given permission key.
// Permissions must already be loaded; no query is issued here.
func (r *Role) HasPermission(key permission.Key) bool {
	for _, p := range r.Permissions {
		if p.Name == string(key) {
			return true
		}
	}
	return false
}

// PermissionKeys returns the keys of all loaded permissions.
func (r *Role) PermissionKeys() []permission.Key {
	keys := make([]permission.Key, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		keys = append(keys, permission.Key(p.Name))
	}
	return keys
}

// Permission is a persisted catalogue entry. Name carries the stable
// "<resource>.<action>" key; rows exist so role_permission has something
// to reference; the catalogue itself is fixed at build time.
type Permission struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Group       string    `gorm:"type:varchar(255);not null;index;column:group" json:"group"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Key returns the catalogue key stored in Name.
func (p *Permission) Key() permission.Key {
	return permission.Key(p.Name)
}
