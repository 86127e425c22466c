package gamify

import "sort"

// Entry is one user's aggregate tally on the leaderboard. Rank is assigned
// by Rank, never stored.
type Entry struct {
	Rank             int    `json:"rank"`
	UserID           string `json:"user_id"`
	Name             string `json:"name"`
	CoursesCompleted int    `json:"courses_completed"`
	Certifications   int    `json:"certifications"`
	Badges           int    `json:"badges"`
	Points           *int   `json:"points,omitempty"`
	PreviousRank     *int   `json:"previous_rank,omitempty"`
}

func (e Entry) points() int {
	if e.Points == nil {
		return 0
	}
	return *e.Points
}

// Rank stable-sorts entries by points desc, then badge count desc, then
// completed courses desc; ties keep their input order. 1-based ranks are
// assigned on the returned copy; the input slice is left untouched.
func Rank(entries []Entry) []Entry {
	ranked := make([]Entry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		if pi, pj := ranked[i].points(), ranked[j].points(); pi != pj {
			return pi > pj
		}
		if ranked[i].Badges != ranked[j].Badges {
			return ranked[i].Badges > ranked[j].Badges
		}
		return ranked[i].CoursesCompleted > ranked[j].CoursesCompleted
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// RankDelta returns previous - current when a previous rank is known, nil
// otherwise. Positive means the user moved up.
func RankDelta(current int, previous *int) *int {
	if previous == nil {
		return nil
	}
	delta := *previous - current
	return &delta
}
