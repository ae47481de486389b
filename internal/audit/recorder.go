// Package audit records the immutable activity trail: who did what to
// which entity, with before/after value capture for updates. Recording
// is best-effort relative to the mutation it describes; a failed insert
// is logged and swallowed so it never aborts the primary operation.
package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/internal/requestctx"
)

// Subject identifies the entity an entry is about: a weak polymorphic
// reference resolved manually by consumers, never a live foreign key,
// because the subject may be deleted after the log persists.
type Subject struct {
	Type string
	ID   uuid.UUID
}

// Feed receives every recorded entry for live distribution. Optional.
type Feed interface {
	PublishActivity(entry *model.ActivityLog)
}

// Recorder appends activity-log rows. The acting principal, client IP
// and user agent are sourced from the ambient request context.
type Recorder struct {
	repo repository.ActivityRepository
	feed Feed
}

// NewRecorder builds a Recorder. feed may be nil.
func NewRecorder(repo repository.ActivityRepository, feed Feed) *Recorder {
	return &Recorder{repo: repo, feed: feed}
}

// Log appends one entry. subject and properties may be nil.
func (r *Recorder) Log(ctx context.Context, event model.ActivityEvent, description string, subject *Subject, properties *model.Properties) (*model.ActivityLog, error) {
	entry := &model.ActivityLog{
		Event:       event,
		Description: description,
		Properties:  properties,
		CreatedAt:   time.Now(),
	}

	if actor := requestctx.Actor(ctx); actor != nil {
		id := actor.ID
		entry.UserID = &id
	}
	if subject != nil {
		id := subject.ID
		entry.SubjectType = subject.Type
		entry.SubjectID = &id
	}
	info := requestctx.Info(ctx)
	entry.IPAddress = info.IPAddress
	entry.UserAgent = info.UserAgent

	if err := r.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	if r.feed != nil {
		r.feed.PublishActivity(entry)
	}
	return entry, nil
}

// record is the swallow-errors variant used by lifecycle hooks.
func (r *Recorder) record(ctx context.Context, event model.ActivityEvent, description string, subject *Subject, properties *model.Properties) {
	if _, err := r.Log(ctx, event, description, subject, properties); err != nil {
		payload, _ := json.Marshal(properties)
		log.Printf("activity log write failed (event=%s subject=%v props=%s): %v", event, subject, payload, err)
	}
}
