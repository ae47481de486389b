package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/internal/requestctx"
)

// memActivityRepo captures inserted entries in memory.
type memActivityRepo struct {
	entries []*model.ActivityLog
	failing bool
}

func (m *memActivityRepo) Create(_ context.Context, entry *model.ActivityLog) error {
	if m.failing {
		return errors.New("insert failed")
	}
	entry.ID = uuid.New()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memActivityRepo) GetByID(_ context.Context, id uuid.UUID) (*model.ActivityLog, error) {
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *memActivityRepo) List(_ context.Context, _ repository.ActivityFilter, _, _ int) ([]model.ActivityLog, int64, error) {
	logs := make([]model.ActivityLog, 0, len(m.entries))
	for _, e := range m.entries {
		logs = append(logs, *e)
	}
	return logs, int64(len(logs)), nil
}

func (m *memActivityRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memActivityRepo) CountByEvent(_ context.Context, _, _ time.Time) (map[model.ActivityEvent]int64, error) {
	counts := make(map[model.ActivityEvent]int64)
	for _, e := range m.entries {
		counts[e.Event]++
	}
	return counts, nil
}

type memFeed struct {
	published []*model.ActivityLog
}

func (m *memFeed) PublishActivity(entry *model.ActivityLog) {
	m.published = append(m.published, entry)
}

func actorContext(user *model.User) context.Context {
	ctx := requestctx.WithActor(context.Background(), user)
	return requestctx.WithRequestInfo(ctx, requestctx.RequestInfo{
		IPAddress: "203.0.113.7",
		UserAgent: "test-agent/1.0",
	})
}

func TestLogCapturesActorAndRequestInfo(t *testing.T) {
	repo := &memActivityRepo{}
	feed := &memFeed{}
	rec := NewRecorder(repo, feed)

	actor := &model.User{ID: uuid.New(), Name: "Alice"}
	subjectID := uuid.New()

	entry, err := rec.Log(actorContext(actor), model.EventCreated, "Created user: Bob",
		&Subject{Type: SubjectUser, ID: subjectID}, nil)
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, actor.ID, *entry.UserID)
	assert.Equal(t, SubjectUser, entry.SubjectType)
	assert.Equal(t, subjectID, *entry.SubjectID)
	assert.Equal(t, "203.0.113.7", entry.IPAddress)
	assert.Equal(t, "test-agent/1.0", entry.UserAgent)
	assert.False(t, entry.CreatedAt.IsZero())

	require.Len(t, feed.published, 1)
	assert.Same(t, entry, feed.published[0])
}

func TestLogWithoutActorRecordsSystemEntry(t *testing.T) {
	repo := &memActivityRepo{}
	rec := NewRecorder(repo, nil)

	entry, err := rec.Log(context.Background(), model.EventDeleted, "Deleted role: Legacy", nil, nil)
	require.NoError(t, err)

	assert.Nil(t, entry.UserID)
	assert.Empty(t, entry.SubjectType)
	assert.Nil(t, entry.SubjectID)
	assert.Empty(t, entry.IPAddress)
}

func TestHooksUpdatedSuppressesEmptyDiff(t *testing.T) {
	repo := &memActivityRepo{}
	hooks := NewEntityHooks(SubjectUser, "user", NewRecorder(repo, nil))

	snapshot := map[string]any{"name": "Alice", "updated_at": "now"}
	changed := map[string]any{"name": "Alice", "updated_at": "later"}
	hooks.Updated(context.Background(), uuid.New(), "Alice", snapshot, changed)

	assert.Empty(t, repo.entries, "no-op updates must not be logged")
}

func TestHooksUpdatedLogsDiffProperties(t *testing.T) {
	repo := &memActivityRepo{}
	hooks := NewEntityHooks(SubjectRole, "role", NewRecorder(repo, nil))

	id := uuid.New()
	hooks.Updated(context.Background(), id, "Editor",
		map[string]any{"name": "Editor", "description": "old"},
		map[string]any{"name": "Editor", "description": "new"})

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, model.EventUpdated, entry.Event)
	assert.Equal(t, "Updated role: Editor", entry.Description)
	assert.Equal(t, SubjectRole, entry.SubjectType)
	assert.Equal(t, id, *entry.SubjectID)
	require.NotNil(t, entry.Properties)
	assert.Equal(t, "old", entry.Properties.Old["description"])
	assert.Equal(t, "new", entry.Properties.New["description"])
}

func TestHooksCreatedAndDeletedDescriptions(t *testing.T) {
	repo := &memActivityRepo{}
	hooks := NewEntityHooks(SubjectUser, "user", NewRecorder(repo, nil))

	id := uuid.New()
	hooks.Created(context.Background(), id, "Bob")
	hooks.Deleted(context.Background(), id, "Bob")

	require.Len(t, repo.entries, 2)
	assert.Equal(t, model.EventCreated, repo.entries[0].Event)
	assert.Equal(t, "Created user: Bob", repo.entries[0].Description)
	assert.Nil(t, repo.entries[0].Properties)
	assert.Equal(t, model.EventDeleted, repo.entries[1].Event)
	assert.Equal(t, "Deleted user: Bob", repo.entries[1].Description)
}

func TestHooksSwallowRepositoryFailures(t *testing.T) {
	repo := &memActivityRepo{failing: true}
	hooks := NewEntityHooks(SubjectUser, "user", NewRecorder(repo, nil))

	// Must not panic or propagate; the primary mutation already happened.
	hooks.Created(context.Background(), uuid.New(), "Bob")
	assert.Empty(t, repo.entries)
}

func TestLoginAndLogoutRecorded(t *testing.T) {
	repo := &memActivityRepo{}
	rec := NewRecorder(repo, nil)
	user := &model.User{ID: uuid.New(), Name: "Alice"}
	ctx := requestctx.WithActor(context.Background(), user)

	LoginRecorded(ctx, rec, user)
	LogoutRecorded(ctx, rec, user)

	require.Len(t, repo.entries, 2)
	assert.Equal(t, model.EventLogin, repo.entries[0].Event)
	assert.Equal(t, "User logged in", repo.entries[0].Description)
	assert.Equal(t, user.ID, *repo.entries[0].UserID)
	assert.Equal(t, user.ID, *repo.entries[0].SubjectID)
	assert.Equal(t, model.EventLogout, repo.entries[1].Event)
	assert.Equal(t, "User logged out", repo.entries[1].Description)
}
