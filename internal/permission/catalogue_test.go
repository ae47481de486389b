package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllReturnsCatalogueInOrder(t *testing.T) {
	keys := All()
	require.Len(t, keys, 9)

	assert.Equal(t, []Key{
		UsersRead, UsersWrite, UsersDelete,
		RolesRead, RolesWrite, RolesDelete,
		ActivityLogsRead, ActivityLogsWrite, ActivityLogsDelete,
	}, keys)

	// The returned slice is a copy; mutating it must not poison the catalogue.
	keys[0] = Key("tampered")
	assert.Equal(t, UsersRead, All()[0])
}

func TestValid(t *testing.T) {
	for _, k := range All() {
		assert.True(t, Valid(k), "catalogue key %q must be valid", k)
	}
	assert.False(t, Valid(Key("users.manage")))
	assert.False(t, Valid(Key("")))
	assert.False(t, Valid(Key("invoices.read")))
}

func TestKeyParts(t *testing.T) {
	tests := []struct {
		key    Key
		group  string
		action string
		label  string
		level  int
	}{
		{UsersRead, "Users", "read", "Read", LevelRead},
		{UsersWrite, "Users", "write", "Write", LevelWrite},
		{UsersDelete, "Users", "delete", "Delete", LevelDelete},
		{RolesWrite, "Roles", "write", "Write", LevelWrite},
		{ActivityLogsRead, "Activity Logs", "read", "Read", LevelRead},
		{ActivityLogsDelete, "Activity Logs", "delete", "Delete", LevelDelete},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.group, tt.key.Group(), "group of %q", tt.key)
		assert.Equal(t, tt.action, tt.key.Action(), "action of %q", tt.key)
		assert.Equal(t, tt.label, tt.key.Label(), "label of %q", tt.key)
		assert.Equal(t, tt.level, tt.key.AccessLevel(), "level of %q", tt.key)
	}

	assert.Equal(t, "Other", Key("invoices.read").Group())
	assert.Equal(t, LevelNone, Key("users.manage").AccessLevel())
}

func TestGroups(t *testing.T) {
	assert.Equal(t, []string{"Users", "Roles", "Activity Logs"}, Groups())
}

func TestGrouped(t *testing.T) {
	grouped := Grouped()
	require.Len(t, grouped, 3)
	for _, g := range Groups() {
		assert.Len(t, grouped[g], 3, "group %q", g)
	}
	assert.Equal(t, []Key{UsersRead, UsersWrite, UsersDelete}, grouped["Users"])
}

func TestForGroupAtLevel(t *testing.T) {
	assert.Nil(t, ForGroupAtLevel("Users", LevelNone))
	assert.Nil(t, ForGroupAtLevel("Users", -1))
	assert.Equal(t, []Key{UsersRead}, ForGroupAtLevel("Users", LevelRead))
	assert.Equal(t, []Key{UsersRead, UsersWrite}, ForGroupAtLevel("Users", LevelWrite))
	assert.Equal(t, []Key{UsersRead, UsersWrite, UsersDelete}, ForGroupAtLevel("Users", LevelDelete))
	assert.Nil(t, ForGroupAtLevel("Invoices", LevelDelete))
}

func TestForGroupAtLevelIsMonotonic(t *testing.T) {
	// A higher level must always expand the permission set of the group.
	for _, g := range Groups() {
		for level := LevelRead; level <= LevelDelete; level++ {
			lower := ForGroupAtLevel(g, level-1)
			higher := ForGroupAtLevel(g, level)
			require.Greater(t, len(higher), len(lower), "group %q level %d", g, level)
			for i, k := range lower {
				assert.Equal(t, k, higher[i])
			}
		}
	}
}

func TestOptions(t *testing.T) {
	options := Options()
	require.Len(t, options, 9)
	assert.Equal(t, "Read", options[UsersRead])
	assert.Equal(t, "Delete", options[ActivityLogsDelete])
}
