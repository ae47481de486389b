// Package authz renders yes/no authorization decisions for a principal.
// The engine performs no I/O: it reads the role and permissions already
// loaded on the user. Denial is a boolean false, never an error; the
// caller decides how to surface it.
package authz

import (
	"backoffice/internal/model"
	"backoffice/internal/permission"
)

// Can reports whether user may exercise key.
//
// The super-admin bypass is evaluated first, before any specific
// permission lookup, so a super-admin passes even for keys outside the
// catalogue. A user with no role fails closed.
func Can(user *model.User, key permission.Key) bool {
	if user == nil {
		return false
	}
	if user.IsSuperAdmin() {
		return true
	}
	if user.Role == nil {
		return false
	}
	return user.Role.HasPermission(key)
}

// CanAny reports whether user may exercise at least one of keys. The
// super-admin check short-circuits at the top to avoid redundant role
// scans; the result is equivalent to calling Can per key.
func CanAny(user *model.User, keys ...permission.Key) bool {
	if user == nil {
		return false
	}
	if user.IsSuperAdmin() {
		return true
	}
	for _, key := range keys {
		if Can(user, key) {
			return true
		}
	}
	return false
}

// CanAll reports whether user may exercise every one of keys.
func CanAll(user *model.User, keys ...permission.Key) bool {
	if user == nil {
		return false
	}
	if user.IsSuperAdmin() {
		return true
	}
	for _, key := range keys {
		if !Can(user, key) {
			return false
		}
	}
	return true
}
