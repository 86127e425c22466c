// Package gamify holds the points rule table and the leaderboard ranker.
// Rules are deliberately hardcoded constants: changing a point value is a
// release, not a configuration change.
package gamify

import "math"

// Event types
const (
	EventCourseCompletion = "course_completion"
	EventQuiz             = "quiz"
	EventDailyLogin       = "daily_login"
	EventStreakDay        = "streak_day"
	EventBadgeEarned      = "badge_earned"
)

const (
	courseCompletionBase = 100
	dailyLoginPoints     = 5
	badgeEarnedPoints    = 50
	streakDayMultiplier  = 2
)

// Event is a discrete learning event to convert into points. Only the fields
// relevant to the event type are read.
type Event struct {
	Type            string  `json:"type" validate:"required,oneof=course_completion quiz daily_login streak_day badge_earned"`
	Score           float64 `json:"score,omitempty" validate:"omitempty,gte=0"`
	MaxScore        float64 `json:"max_score,omitempty" validate:"omitempty,gte=0"`
	ConsecutiveDays int     `json:"consecutive_days,omitempty" validate:"omitempty,gte=0"`
}

// CourseCompletionPoints awards a fixed base plus a score bonus.
func CourseCompletionPoints(score float64) int {
	return courseCompletionBase + int(math.Round(score*10))
}

// QuizPoints scales the quiz result to a 0-100 percentage, times 10.
// A non-positive max score yields 0 rather than dividing by zero.
func QuizPoints(score, maxScore float64) int {
	if maxScore <= 0 {
		return 0
	}
	return int(math.Round(score / maxScore * 100 * 10))
}

// DailyLoginPoints is the flat award for one login per day.
func DailyLoginPoints() int {
	return dailyLoginPoints
}

// StreakPoints grows linearly with the active-day streak.
func StreakPoints(consecutiveDays int) int {
	return consecutiveDays * streakDayMultiplier
}

// BadgeEarnedPoints is the flat award for earning any badge.
func BadgeEarnedPoints() int {
	return badgeEarnedPoints
}

// PointsFor maps an event to its point value via the rule table.
// Unknown event types are worth 0.
func PointsFor(e Event) int {
	switch e.Type {
	case EventCourseCompletion:
		return CourseCompletionPoints(e.Score)
	case EventQuiz:
		return QuizPoints(e.Score, e.MaxScore)
	case EventDailyLogin:
		return DailyLoginPoints()
	case EventStreakDay:
		return StreakPoints(e.ConsecutiveDays)
	case EventBadgeEarned:
		return BadgeEarnedPoints()
	}
	return 0
}

// UserPoints is a per-user point total decomposed into categories. The
// caller keeps the categories consistent; Total does not validate them.
type UserPoints struct {
	UserID        string `json:"user_id"`
	Completion    int    `json:"completion"`
	Quiz          int    `json:"quiz"`
	Participation int    `json:"participation"`
	Badges        int    `json:"badges"`
}

// Total sums the four categories.
func (p UserPoints) Total() int {
	return p.Completion + p.Quiz + p.Participation + p.Badges
}
