package badge

import (
	"time"

	"github.com/elimucd/backend/core"
)

// Criteria types
const (
	CriteriaCompletion    = "completion"
	CriteriaScore         = "score"
	CriteriaParticipation = "participation"
	CriteriaTime          = "time"
	CriteriaStreak        = "streak" // synonym of participation
)

// AllCriteriaTypes lists the recognized criteria type tags.
var AllCriteriaTypes = []string{
	CriteriaCompletion,
	CriteriaScore,
	CriteriaParticipation,
	CriteriaTime,
	CriteriaStreak,
}

// Criteria is a tagged variant: exactly one Type per instance. The optional
// numeric fields refine the threshold for their variant; Threshold is the
// generic fallback shared by all variants.
type Criteria struct {
	Type            string   `json:"type" validate:"required,oneof=completion score participation time streak"`
	Threshold       *float64 `json:"threshold,omitempty" validate:"omitempty,gte=0"`
	MinScore        *float64 `json:"min_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	MinCourses      *int     `json:"min_courses,omitempty" validate:"omitempty,gte=0"`
	ConsecutiveDays *int     `json:"consecutive_days,omitempty" validate:"omitempty,gte=0"`
	TimeSpent       *float64 `json:"time_spent,omitempty" validate:"omitempty,gte=0"` // hours
}

// Badge is an achievement definition created by an administrator. The award
// engine only ever reads it.
type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	Criteria    Criteria  `json:"criteria"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// Progress is a snapshot of one learner's aggregate state, supplied fresh on
// each evaluation call and never mutated here.
type Progress struct {
	UserID           string    `json:"user_id"`
	CompletedCourses int       `json:"completed_courses"`
	AverageScore     float64   `json:"average_score"` // 0-100
	ConsecutiveDays  int       `json:"consecutive_days"`
	TotalTimeSpent   float64   `json:"total_time_spent"` // hours
	LastActivityAt   time.Time `json:"last_activity_at"`
}

// Award records a badge granted to a user.
type Award struct {
	ID        string    `json:"id"`
	BadgeID   string    `json:"badge_id"`
	UserID    string    `json:"user_id"`
	AwardedAt time.Time `json:"awarded_at"` // UTC
	Progress  int       `json:"progress"`   // percent at award time; 100 for actual awards
}

// NewBadge contains information needed to create a new Badge.
type NewBadge struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Color       string   `json:"color" validate:"hexcolor_"`
	Criteria    Criteria `json:"criteria" validate:"required"`
	Enabled     *bool    `json:"enabled"`
}

func (nb *NewBadge) Validate() error {
	nb.Name = core.CleanString(nb.Name)
	nb.Description = core.CleanString(nb.Description)
	return core.Validate.Struct(nb)
}

// UpdateBadge defines what information may be provided to modify an existing Badge.
// Nil fields are left untouched.
type UpdateBadge struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color" validate:"hexcolor_"`
	Criteria    *Criteria `json:"criteria"`
	Enabled     *bool     `json:"enabled"`
}

func (ub *UpdateBadge) Validate() error {
	ub.Name = core.CleanString(ub.Name)
	ub.Description = core.CleanString(ub.Description)
	return core.Validate.Struct(ub)
}
