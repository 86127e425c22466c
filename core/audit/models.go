package audit

import (
	"time"

	"github.com/elimucd/backend/core"
)

// Actions
const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionView    = "view"
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionLogin   = "login"
	ActionLogout  = "logout"
)

// Resources
const (
	ResourceUser         = "user"
	ResourceCourse       = "course"
	ResourceQuiz         = "quiz"
	ResourceBadge        = "badge"
	ResourceRole         = "role"
	ResourceNotification = "notification"
	ResourceReport       = "report"
	ResourceSetting      = "setting"
	ResourceSession      = "session"
)

// FieldChange records a single before/after value on an update.
type FieldChange struct {
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// Log is one audit trail entry. Timestamp is an RFC 3339 UTC string rather
// than a time.Time so that date range filters compare lexicographically, the
// same way the entries are stored.
type Log struct {
	ID           string        `json:"id"`
	Timestamp    string        `json:"timestamp"`
	UserID       string        `json:"user_id"`
	UserName     string        `json:"user_name"`
	UserRole     string        `json:"user_role"`
	Action       string        `json:"action"`
	Resource     string        `json:"resource"`
	ResourceID   string        `json:"resource_id"`
	ResourceName string        `json:"resource_name"`
	Details      string        `json:"details"`
	Changes      []FieldChange `json:"changes,omitempty"`
	IPAddress    string        `json:"ip_address"`
	UserAgent    string        `json:"user_agent"`
}

// NewLog contains information needed to append a Log entry.
// ID and timestamp are assigned by the service.
type NewLog struct {
	UserID       string        `json:"user_id" validate:"required"`
	UserName     string        `json:"user_name"`
	UserRole     string        `json:"user_role"`
	Action       string        `json:"action" validate:"required,oneof=create update delete view approve reject login logout"`
	Resource     string        `json:"resource" validate:"required,oneof=user course quiz badge role notification report setting session"`
	ResourceID   string        `json:"resource_id"`
	ResourceName string        `json:"resource_name"`
	Details      string        `json:"details"`
	Changes      []FieldChange `json:"changes"`
	IPAddress    string        `json:"ip_address"`
	UserAgent    string        `json:"user_agent"`
}

func (nl *NewLog) Validate() error {
	nl.Details = core.CleanString(nl.Details)
	return core.Validate.Struct(nl)
}

// QueryFilter narrows List results. Zero-valued fields are skipped; set
// fields must all match. StartDate and EndDate are inclusive RFC 3339
// bounds compared against Log.Timestamp.
type QueryFilter struct {
	UserID    string
	Action    string
	Resource  string
	StartDate string
	EndDate   string
	Search    string
}

// TimestampFormat is how Log.Timestamp is rendered.
const TimestampFormat = time.RFC3339
