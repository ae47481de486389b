package audit

import (
	"reflect"

	"backoffice/internal/model"
)

// RedactionMarker replaces sensitive values in the before/after capture.
// The field stays visible as changed without leaking either value.
const RedactionMarker = "[REDACTED]"

// ignoredFields are bookkeeping attributes that never count as a change
// worth logging.
var ignoredFields = map[string]bool{
	"updated_at":     true,
	"updated_by":     true,
	"remember_token": true,
}

// sensitiveFields have their values redacted in both old and new.
var sensitiveFields = map[string]bool{
	"password": true,
}

// Diff computes the update-event properties from full before/after
// attribute snapshots. It returns nil when nothing changed after the
// ignored fields are excluded; callers suppress logging entirely in that
// case rather than writing an empty row.
func Diff(before, after map[string]any) *model.Properties {
	old := make(map[string]any)
	updated := make(map[string]any)

	for field, newValue := range after {
		if ignoredFields[field] {
			continue
		}
		oldValue, existed := before[field]
		if existed && reflect.DeepEqual(oldValue, newValue) {
			continue
		}
		if sensitiveFields[field] {
			oldValue = RedactionMarker
			newValue = RedactionMarker
		}
		old[field] = oldValue
		updated[field] = newValue
	}

	if len(updated) == 0 {
		return nil
	}
	return &model.Properties{Old: old, New: updated}
}
