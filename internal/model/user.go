package model

import (
	"time"

	"github.com/google/uuid"
)

// UserStatus gates access to the administrative system. Only active
// users may sign in; the gate is evaluated independently of permissions.
type UserStatus string

const (
	StatusActive    UserStatus = "active"
	StatusInactive  UserStatus = "inactive"
	StatusSuspended UserStatus = "suspended"
)

// Valid reports whether s is a recognized status.
func (s UserStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

// User is the authenticated principal of the back office
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Email     string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, never serialized
	Avatar    string     `gorm:"type:varchar(255)" json:"avatar,omitempty"`
	Status    UserStatus `gorm:"type:varchar(20);not null;default:active" json:"status"`
	RoleID    *uuid.UUID `gorm:"type:uuid;index" json:"role_id"` // Nullable: no role denies everything
	Role      *Role      `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by"` // Acting user at creation, write-once
	UpdatedBy *uuid.UUID `gorm:"type:uuid" json:"updated_by"` // Acting user at last update
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsSuperAdmin reports whether the user's role is the reserved
// super-admin role. Requires Role to be loaded. Safe on a nil receiver
// so policies can treat "no principal" as a plain denial.
func (u *User) IsSuperAdmin() bool {
	return u != nil && u.Role != nil && u.Role.IsSuperAdmin()
}

// CanAccessPanel reports whether the user may enter the admin system at
// all. Status is an access gate separate from permissions.
func (u *User) CanAccessPanel() bool {
	return u.Status == StatusActive
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
