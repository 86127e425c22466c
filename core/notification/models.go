package notification

import (
	"time"

	"github.com/elimucd/backend/core"
)

// Notification types
const (
	TypeModeration   = "moderation"
	TypeRegistration = "registration"
	TypeAlert        = "alert"
	TypeAnnouncement = "announcement"
	TypeSystem       = "system"
)

// Statuses. Lifecycle: unread -> read -> archived, with delete possible from
// any state. There is no way back from archived to unread.
const (
	StatusUnread   = "unread"
	StatusRead     = "read"
	StatusArchived = "archived"
)

type Notification struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"created_at"` // UTC
	ReadAt      *time.Time        `json:"read_at,omitempty"`
	ActionURL   string            `json:"action_url,omitempty"`
	ActionLabel string            `json:"action_label,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// NewNotification contains information needed to create a new Notification.
// ID, status and timestamp are assigned by the service.
type NewNotification struct {
	Type        string            `json:"type" validate:"required,oneof=moderation registration alert announcement system"`
	Title       string            `json:"title" validate:"required"`
	Message     string            `json:"message" validate:"required"`
	ActionURL   string            `json:"action_url"`
	ActionLabel string            `json:"action_label"`
	Metadata    map[string]string `json:"metadata"`
}

func (nn *NewNotification) Validate() error {
	nn.Title = core.CleanString(nn.Title)
	nn.Message = core.CleanString(nn.Message)
	return core.Validate.Struct(nn)
}
