package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActivityEvent categorizes an activity-log row.
type ActivityEvent string

const (
	EventCreated ActivityEvent = "created"
	EventUpdated ActivityEvent = "updated"
	EventDeleted ActivityEvent = "deleted"
	EventLogin   ActivityEvent = "login"
	EventLogout  ActivityEvent = "logout"
)

// Valid reports whether e is a recognized event kind.
func (e ActivityEvent) Valid() bool {
	switch e {
	case EventCreated, EventUpdated, EventDeleted, EventLogin, EventLogout:
		return true
	}
	return false
}

// Properties holds the before/after value capture of an update event.
// Both maps are restricted to the attributes that actually changed.
type Properties struct {
	Old map[string]any `json:"old,omitempty"`
	New map[string]any `json:"new,omitempty"`
}

// Value serializes properties to JSON for the jsonb column.
func (p Properties) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan deserializes the jsonb column.
func (p *Properties) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported properties type %T", src)
	}
}

// ActivityLog is an append-only audit record: who did what to which
// entity. Rows are never updated after insert, so there is no updated_at
// column and CreatedAt is set explicitly by the recorder. The subject is
// a weak polymorphic reference; the referenced row may be deleted later
// without touching the log.
type ActivityLog struct {
	ID          uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      *uuid.UUID    `gorm:"type:uuid;index" json:"user_id"` // Nullable: nil means the system acted
	User        *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	SubjectType string        `gorm:"type:varchar(255);index:idx_activity_logs_subject" json:"subject_type,omitempty"`
	SubjectID   *uuid.UUID    `gorm:"type:uuid;index:idx_activity_logs_subject" json:"subject_id,omitempty"`
	Event       ActivityEvent `gorm:"type:varchar(20);not null;index" json:"event"`
	Description string        `gorm:"type:varchar(255);not null" json:"description"`
	Properties  *Properties   `gorm:"type:jsonb" json:"properties,omitempty"`
	IPAddress   string        `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent   string        `gorm:"type:text" json:"user_agent,omitempty"`
	CreatedAt   time.Time     `gorm:"index" json:"created_at"`
}
