package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeysToLevelsTakesGroupMaximum(t *testing.T) {
	levels := KeysToLevels([]Key{UsersRead, UsersDelete, RolesWrite})

	assert.Equal(t, LevelDelete, levels["Users"])
	assert.Equal(t, LevelWrite, levels["Roles"])
	assert.Equal(t, LevelNone, levels["Activity Logs"])
}

func TestKeysToLevelsCoversEveryGroup(t *testing.T) {
	levels := KeysToLevels(nil)
	require.Len(t, levels, 3)
	for _, g := range Groups() {
		assert.Equal(t, LevelNone, levels[g], "group %q", g)
	}
}

func TestKeysToLevelsSkipsUnknownKeys(t *testing.T) {
	levels := KeysToLevels([]Key{Key("invoices.delete"), UsersRead})
	assert.Equal(t, LevelRead, levels["Users"])
	assert.NotContains(t, levels, "Other")
}

func TestLevelsToKeysExpandsLowerLevels(t *testing.T) {
	keys := LevelsToKeys(map[string]int{"Users": LevelDelete, "Roles": LevelRead})

	assert.Equal(t, []Key{UsersRead, UsersWrite, UsersDelete, RolesRead}, keys)
}

func TestLevelsToKeysIgnoresUnknownGroupsAndClampsLevels(t *testing.T) {
	keys := LevelsToKeys(map[string]int{
		"Invoices": LevelDelete,
		"Users":    7,
		"Roles":    -2,
	})

	assert.Empty(t, keys)
}

func TestLevelRoundTrip(t *testing.T) {
	// Expanding a level map and summarizing the result must yield the
	// original map for every group and level.
	for _, g := range Groups() {
		for level := LevelNone; level <= LevelDelete; level++ {
			in := map[string]int{g: level}
			out := KeysToLevels(LevelsToKeys(in))
			assert.Equal(t, level, out[g], "group %q level %d", g, level)
			for _, other := range Groups() {
				if other != g {
					assert.Equal(t, LevelNone, out[other])
				}
			}
		}
	}
}
