package main

import (
	"context"

	"github.com/elimucd/backend/core/badge"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

// defaultBadges is the catalog installed on a fresh deployment.
var defaultBadges = []badge.Badge{
	{
		Name:        "First Steps",
		Description: "Complete your first course",
		Icon:        "footsteps",
		Color:       "#4caf50",
		Criteria:    badge.Criteria{Type: badge.CriteriaCompletion, MinCourses: intPtr(1)},
		Enabled:     true,
	},
	{
		Name:        "Course Collector",
		Description: "Complete five courses",
		Icon:        "stack",
		Color:       "#2196f3",
		Criteria:    badge.Criteria{Type: badge.CriteriaCompletion, MinCourses: intPtr(5)},
		Enabled:     true,
	},
	{
		Name:        "Quiz Master",
		Description: "Keep an average score of 90 or better",
		Icon:        "trophy",
		Color:       "#ffc107",
		Criteria:    badge.Criteria{Type: badge.CriteriaScore, MinScore: floatPtr(90)},
		Enabled:     true,
	},
	{
		Name:        "Streaker",
		Description: "Learn seven days in a row",
		Icon:        "flame",
		Color:       "#ff5722",
		Criteria:    badge.Criteria{Type: badge.CriteriaStreak, ConsecutiveDays: intPtr(7)},
		Enabled:     true,
	},
	{
		Name:        "Night Owl",
		Description: "Spend 40 hours learning",
		Icon:        "owl",
		Color:       "#673ab7",
		Criteria:    badge.Criteria{Type: badge.CriteriaTime, TimeSpent: floatPtr(40)},
		Enabled:     true,
	},
}

// seedBadges installs the default catalog, skipping badges whose name is
// already taken so re-running is safe.
func (cli *commandLine) seedBadges() error {
	ctx := context.Background()

	existing, err := cli.badgeRepo.QueryAllBadges(ctx)
	if err != nil {
		return err
	}
	taken := make(map[string]struct{}, len(existing))
	for _, b := range existing {
		taken[b.Name] = struct{}{}
	}

	var created int
	for _, b := range defaultBadges {
		if _, ok := taken[b.Name]; ok {
			continue
		}
		b.CreatedAt = nowFunc().UTC()
		b.UpdatedAt = b.CreatedAt
		if _, err := cli.badgeRepo.CreateBadge(ctx, b); err != nil {
			return err
		}
		created++
	}
	logger.Printf("seeded %d badge(s), %d already present", created, len(defaultBadges)-created)
	return nil
}
