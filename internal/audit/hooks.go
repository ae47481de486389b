package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"backoffice/internal/model"
)

// Subject type tags for the entities this back office tracks.
const (
	SubjectUser = "user"
	SubjectRole = "role"
)

// EntityHooks is the lifecycle observer attached to one entity kind.
// Services invoke these callbacks around their mutations; keeping the
// registration explicit (instead of burying it in ORM callbacks) makes
// the audit behavior visible and testable on its own.
type EntityHooks struct {
	subjectType string
	noun        string
	rec         *Recorder
}

// NewEntityHooks builds the observer for one entity kind. noun is the
// lower-case entity name used in descriptions ("user", "role").
func NewEntityHooks(subjectType, noun string, rec *Recorder) *EntityHooks {
	return &EntityHooks{subjectType: subjectType, noun: noun, rec: rec}
}

// Created logs a creation event. Always logged, no properties payload.
func (h *EntityHooks) Created(ctx context.Context, id uuid.UUID, displayName string) {
	h.rec.record(ctx, model.EventCreated,
		fmt.Sprintf("Created %s: %s", h.noun, displayName),
		&Subject{Type: h.subjectType, ID: id}, nil)
}

// Updated logs an update event with the before/after capture. When the
// diff is empty after exclusions, nothing is logged at all.
func (h *EntityHooks) Updated(ctx context.Context, id uuid.UUID, displayName string, before, after map[string]any) {
	properties := Diff(before, after)
	if properties == nil {
		return
	}
	h.rec.record(ctx, model.EventUpdated,
		fmt.Sprintf("Updated %s: %s", h.noun, displayName),
		&Subject{Type: h.subjectType, ID: id}, properties)
}

// Deleted logs a deletion event. Always logged, no properties payload.
func (h *EntityHooks) Deleted(ctx context.Context, id uuid.UUID, displayName string) {
	h.rec.record(ctx, model.EventDeleted,
		fmt.Sprintf("Deleted %s: %s", h.noun, displayName),
		&Subject{Type: h.subjectType, ID: id}, nil)
}

// LoginRecorded logs a successful sign-in for user.
func LoginRecorded(ctx context.Context, rec *Recorder, user *model.User) {
	rec.record(ctx, model.EventLogin, "User logged in",
		&Subject{Type: SubjectUser, ID: user.ID}, nil)
}

// LogoutRecorded logs a sign-out for user.
func LogoutRecorded(ctx context.Context, rec *Recorder, user *model.User) {
	rec.record(ctx, model.EventLogout, "User logged out",
		&Subject{Type: SubjectUser, ID: user.ID}, nil)
}
