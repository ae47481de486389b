package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/apperrors"
	"backoffice/internal/authz"
	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/internal/requestctx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type ActivityLogResponse struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id,omitempty"`
	UserName    string            `json:"user_name"`
	SubjectType string            `json:"subject_type,omitempty"`
	SubjectID   string            `json:"subject_id,omitempty"`
	Event       string            `json:"event"`
	Description string            `json:"description"`
	Properties  *model.Properties `json:"properties,omitempty"`
	IPAddress   string            `json:"ip_address,omitempty"`
	UserAgent   string            `json:"user_agent,omitempty"`
	CreatedAt   string            `json:"created_at"`
}

// ActivityStats counts entries per event kind over a window. Every
// recognized event kind is present, zero when absent.
type ActivityStats struct {
	From   string           `json:"from,omitempty"`
	To     string           `json:"to,omitempty"`
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}

// --- Interface ---

type ActivityService interface {
	List(ctx context.Context, filter repository.ActivityFilter, page, limit int) ([]ActivityLogResponse, int64, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, from, to time.Time) (*ActivityStats, error)
}

type activityService struct {
	logs   repository.ActivityRepository
	policy authz.ActivityLogPolicy
}

func NewActivityService(logs repository.ActivityRepository) ActivityService {
	return &activityService{logs: logs}
}

// --- Implementation ---

func (s *activityService) List(ctx context.Context, filter repository.ActivityFilter, page, limit int) ([]ActivityLogResponse, int64, error) {
	if actor := requestctx.Actor(ctx); actor != nil && !s.policy.ViewAny(actor) {
		return nil, 0, apperrors.Conflict("not allowed to view activity logs")
	}

	logs, total, err := s.logs.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch activity logs: %w", err)
	}

	res := make([]ActivityLogResponse, 0, len(logs))
	for i := range logs {
		res = append(res, toActivityLogResponse(&logs[i]))
	}
	return res, total, nil
}

// Delete removes a single log row. This is the only mutation the store
// permits after insert.
func (s *activityService) Delete(ctx context.Context, id string) error {
	logID, err := uuid.Parse(id)
	if err != nil {
		return apperrors.Validation("id", "invalid activity log id")
	}
	entry, err := s.logs.GetByID(ctx, logID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to fetch activity log: %w", err)
	}
	if actor := requestctx.Actor(ctx); actor != nil && !s.policy.Delete(actor, entry) {
		return apperrors.Conflict("not allowed to delete activity logs")
	}
	if err := s.logs.Delete(ctx, logID); err != nil {
		return fmt.Errorf("failed to delete activity log: %w", err)
	}
	return nil
}

func (s *activityService) Stats(ctx context.Context, from, to time.Time) (*ActivityStats, error) {
	counts, err := s.logs.CountByEvent(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count activity logs: %w", err)
	}

	stats := &ActivityStats{Counts: make(map[string]int64, 5)}
	for _, event := range []model.ActivityEvent{
		model.EventCreated, model.EventUpdated, model.EventDeleted,
		model.EventLogin, model.EventLogout,
	} {
		stats.Counts[string(event)] = counts[event]
		stats.Total += counts[event]
	}
	if !from.IsZero() {
		stats.From = from.Format(time.RFC3339)
	}
	if !to.IsZero() {
		stats.To = to.Format(time.RFC3339)
	}
	return stats, nil
}

// --- Helpers ---

func toActivityLogResponse(l *model.ActivityLog) ActivityLogResponse {
	resp := ActivityLogResponse{
		ID:          l.ID.String(),
		UserName:    "System",
		SubjectType: l.SubjectType,
		Event:       string(l.Event),
		Description: l.Description,
		Properties:  l.Properties,
		IPAddress:   l.IPAddress,
		UserAgent:   l.UserAgent,
		CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if l.UserID != nil {
		resp.UserID = l.UserID.String()
	}
	if l.User != nil {
		resp.UserName = l.User.Name
	}
	if l.SubjectID != nil {
		resp.SubjectID = l.SubjectID.String()
	}
	return resp
}
