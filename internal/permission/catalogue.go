package permission

import "strings"

// Key is a stable permission identifier shaped "<resource>.<action>",
// e.g. "users.read". The set of keys is closed: permissions are declared
// here at build time and never registered dynamically.
type Key string

const (
	UsersRead   Key = "users.read"
	UsersWrite  Key = "users.write"
	UsersDelete Key = "users.delete"

	RolesRead   Key = "roles.read"
	RolesWrite  Key = "roles.write"
	RolesDelete Key = "roles.delete"

	ActivityLogsRead   Key = "activity_logs.read"
	ActivityLogsWrite  Key = "activity_logs.write"
	ActivityLogsDelete Key = "activity_logs.delete"
)

// all lists every permission in catalogue order. Group order and
// within-group order elsewhere derive from this slice.
var all = []Key{
	UsersRead,
	UsersWrite,
	UsersDelete,
	RolesRead,
	RolesWrite,
	RolesDelete,
	ActivityLogsRead,
	ActivityLogsWrite,
	ActivityLogsDelete,
}

// Access levels per action. A higher level implies every permission of
// the same group at a lower level.
const (
	LevelNone   = 0
	LevelRead   = 1
	LevelWrite  = 2
	LevelDelete = 3
)

// All returns every permission key in catalogue order.
func All() []Key {
	keys := make([]Key, len(all))
	copy(keys, all)
	return keys
}

// Valid reports whether k is part of the catalogue.
func Valid(k Key) bool {
	for _, known := range all {
		if known == k {
			return true
		}
	}
	return false
}

// Group returns the display name of the resource group the key belongs to.
func (k Key) Group() string {
	switch {
	case strings.HasPrefix(string(k), "users."):
		return "Users"
	case strings.HasPrefix(string(k), "roles."):
		return "Roles"
	case strings.HasPrefix(string(k), "activity_logs."):
		return "Activity Logs"
	default:
		return "Other"
	}
}

// Action returns the segment after the last dot, e.g. "read".
func (k Key) Action() string {
	s := string(k)
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Label returns the title-cased action, used for UI binding.
func (k Key) Label() string {
	action := k.Action()
	if action == "" {
		return ""
	}
	return strings.ToUpper(action[:1]) + action[1:]
}

// AccessLevel ranks the key's action: read=1, write=2, delete=3.
// Unrecognized actions rank 0.
func (k Key) AccessLevel() int {
	switch k.Action() {
	case "read":
		return LevelRead
	case "write":
		return LevelWrite
	case "delete":
		return LevelDelete
	default:
		return LevelNone
	}
}

// Groups returns the distinct resource groups in catalogue declaration
// order.
func Groups() []string {
	seen := make(map[string]bool, len(all))
	groups := make([]string, 0, len(all))
	for _, k := range all {
		g := k.Group()
		if !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
	}
	return groups
}

// Grouped returns the catalogue keyed by resource group, preserving
// catalogue order within each group.
func Grouped() map[string][]Key {
	grouped := make(map[string][]Key, len(all))
	for _, k := range all {
		grouped[k.Group()] = append(grouped[k.Group()], k)
	}
	return grouped
}

// ForGroupAtLevel returns every permission in group whose access level is
// at or below level, in catalogue order. Level 0 grants nothing. This is
// the single source of truth mapping access levels to permission sets.
func ForGroupAtLevel(group string, level int) []Key {
	if level <= LevelNone {
		return nil
	}
	var keys []Key
	for _, k := range all {
		if k.Group() == group && k.AccessLevel() <= level {
			keys = append(keys, k)
		}
	}
	return keys
}

// Options returns key -> label pairs for select inputs.
func Options() map[Key]string {
	options := make(map[Key]string, len(all))
	for _, k := range all {
		options[k] = k.Label()
	}
	return options
}
