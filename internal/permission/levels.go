package permission

// KeysToLevels summarizes a set of held permission keys as one access
// level per resource group: the maximum level among the held keys of
// that group. Every catalogue group is present in the result; groups
// with no held keys map to LevelNone.
func KeysToLevels(keys []Key) map[string]int {
	levels := make(map[string]int)
	for _, g := range Groups() {
		levels[g] = LevelNone
	}
	for _, k := range keys {
		if !Valid(k) {
			continue
		}
		if lvl := k.AccessLevel(); lvl > levels[k.Group()] {
			levels[k.Group()] = lvl
		}
	}
	return levels
}

// LevelsToKeys expands a per-group access level map into the full
// permission set it stands for, in catalogue order. Unknown groups are
// ignored and missing groups default to LevelNone. Levels outside 0..3
// are untrusted form input and clamp to LevelNone rather than erroring.
func LevelsToKeys(levels map[string]int) []Key {
	var keys []Key
	for _, g := range Groups() {
		level := levels[g]
		if level < LevelNone || level > LevelDelete {
			level = LevelNone
		}
		keys = append(keys, ForGroupAtLevel(g, level)...)
	}
	return keys
}
