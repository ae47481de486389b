package authz

import (
	"backoffice/internal/model"
	"backoffice/internal/permission"
)

// Policies compose the engine's decisions with record-level rules. Like
// the engine they are pure: callers pass loaded records and get booleans.

// UserPolicy holds the record-level rules for user records.
type UserPolicy struct{}

// ViewAny gates the user list.
func (UserPolicy) ViewAny(actor *model.User) bool {
	return Can(actor, permission.UsersRead)
}

// View allows users to always see their own record.
func (UserPolicy) View(actor, target *model.User) bool {
	if actor != nil && actor.ID == target.ID {
		return true
	}
	return Can(actor, permission.UsersRead)
}

// Create gates user creation.
func (UserPolicy) Create(actor *model.User) bool {
	return Can(actor, permission.UsersWrite)
}

// Update allows self-updates unconditionally and protects super-admin
// targets from non-super-admin actors regardless of held permissions.
func (UserPolicy) Update(actor, target *model.User) bool {
	if actor != nil && actor.ID == target.ID {
		return true
	}
	if target.IsSuperAdmin() && !actor.IsSuperAdmin() {
		return false
	}
	return Can(actor, permission.UsersWrite)
}

// Delete forbids self-deletion and deleting super-admin users.
func (UserPolicy) Delete(actor, target *model.User) bool {
	if actor != nil && actor.ID == target.ID {
		return false
	}
	if target.IsSuperAdmin() && !actor.IsSuperAdmin() {
		return false
	}
	return Can(actor, permission.UsersDelete)
}

// RolePolicy holds the record-level rules for roles.
type RolePolicy struct{}

// ViewAny gates the role list.
func (RolePolicy) ViewAny(actor *model.User) bool {
	return Can(actor, permission.RolesRead)
}

// Create gates role creation.
func (RolePolicy) Create(actor *model.User) bool {
	return Can(actor, permission.RolesWrite)
}

// Update protects the super-admin role from non-super-admin actors. The
// bypass is one-directional: holding roles.write does not let a regular
// admin touch the super-admin role.
func (RolePolicy) Update(actor *model.User, role *model.Role) bool {
	if role.IsSuperAdmin() && !actor.IsSuperAdmin() {
		return false
	}
	return Can(actor, permission.RolesWrite)
}

// Delete forbids deleting the super-admin role and any role with
// assigned users. userCount is the number of users holding the role.
func (RolePolicy) Delete(actor *model.User, role *model.Role, userCount int64) bool {
	if role.IsSuperAdmin() {
		return false
	}
	if userCount > 0 {
		return false
	}
	return Can(actor, permission.RolesDelete)
}

// ActivityLogPolicy holds the record-level rules for activity logs.
// Logs are system-generated and immutable after insert; the store
// exposes no update path, so only listing and deletion are decided
// here.
type ActivityLogPolicy struct{}

// ViewAny gates the log list.
func (ActivityLogPolicy) ViewAny(actor *model.User) bool {
	return Can(actor, permission.ActivityLogsRead)
}

// Delete requires the delete permission for this resource.
func (ActivityLogPolicy) Delete(actor *model.User, _ *model.ActivityLog) bool {
	return Can(actor, permission.ActivityLogsDelete)
}
