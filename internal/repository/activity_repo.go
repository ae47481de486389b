package repository

import (
	"context"
	"time"

	"backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityFilter narrows activity-log listings. Zero values match all.
type ActivityFilter struct {
	Event       string
	SubjectType string
	SubjectID   *uuid.UUID
	UserID      *uuid.UUID
}

// ActivityRepository is the append-only store for activity logs. There
// is deliberately no update method: rows are immutable after insert and
// only deletion (by a permitted principal) is possible.
type ActivityRepository interface {
	Create(ctx context.Context, entry *model.ActivityLog) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ActivityLog, error)
	List(ctx context.Context, filter ActivityFilter, page, limit int) ([]model.ActivityLog, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByEvent(ctx context.Context, from, to time.Time) (map[model.ActivityEvent]int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, entry *model.ActivityLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *activityRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ActivityLog, error) {
	var entry model.ActivityLog
	if err := GetDB(ctx, r.db).Preload("User").First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *activityRepository) List(ctx context.Context, filter ActivityFilter, page, limit int) ([]model.ActivityLog, int64, error) {
	var logs []model.ActivityLog
	var total int64

	db := GetDB(ctx, r.db).Model(&model.ActivityLog{})
	if filter.Event != "" {
		db = db.Where("event = ?", filter.Event)
	}
	if filter.SubjectType != "" {
		db = db.Where("subject_type = ?", filter.SubjectType)
	}
	if filter.SubjectID != nil {
		db = db.Where("subject_id = ?", *filter.SubjectID)
	}
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("User").Order("created_at desc").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func (r *activityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ActivityLog{}).Error
}

func (r *activityRepository) CountByEvent(ctx context.Context, from, to time.Time) (map[model.ActivityEvent]int64, error) {
	type row struct {
		Event model.ActivityEvent
		Count int64
	}
	var rows []row

	db := GetDB(ctx, r.db).Model(&model.ActivityLog{}).
		Select("event, count(*) as count").
		Group("event")
	if !from.IsZero() {
		db = db.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		db = db.Where("created_at < ?", to)
	}
	if err := db.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[model.ActivityEvent]int64, len(rows))
	for _, r := range rows {
		counts[r.Event] = r.Count
	}
	return counts, nil
}
