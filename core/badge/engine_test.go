package badge

import (
	"testing"
	"time"
)

func enabledBadge(id string, minCourses int) Badge {
	return Badge{
		ID:       id,
		Name:     "Badge " + id,
		Enabled:  true,
		Criteria: Criteria{Type: CriteriaCompletion, MinCourses: iptr(minCourses)},
	}
}

func TestFindEligible(t *testing.T) {
	disabled := enabledBadge("b2", 1)
	disabled.Enabled = false

	badges := []Badge{
		enabledBadge("b1", 3),
		disabled,
		enabledBadge("b3", 5),
		enabledBadge("b4", 100),
	}
	progress := Progress{UserID: "u1", CompletedCourses: 5}
	awards := []Award{{ID: "a1", BadgeID: "b3", UserID: "u1"}}

	got := FindEligible(badges, progress, awards)

	if len(got) != 1 {
		t.Fatalf("FindEligible() returned %d badges, want 1", len(got))
	}
	if got[0].ID != "b1" {
		t.Errorf("FindEligible()[0].ID = %q, want %q", got[0].ID, "b1")
	}
}

func TestFindEligiblePreservesOrder(t *testing.T) {
	badges := []Badge{
		enabledBadge("b3", 0),
		enabledBadge("b1", 0),
		enabledBadge("b2", 0),
	}
	got := FindEligible(badges, Progress{UserID: "u1"}, nil)

	want := []string{"b3", "b1", "b2"}
	if len(got) != len(want) {
		t.Fatalf("FindEligible() returned %d badges, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("FindEligible()[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestAutoAward(t *testing.T) {
	fixed := time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return fixed }
	defer func() { nowFunc = time.Now }()

	badges := []Badge{enabledBadge("b1", 1), enabledBadge("b2", 2)}
	progress := Progress{UserID: "u1", CompletedCourses: 2}

	awards := AutoAward(badges, progress, nil)

	if len(awards) != 2 {
		t.Fatalf("AutoAward() created %d awards, want 2", len(awards))
	}
	for _, a := range awards {
		if a.UserID != "u1" {
			t.Errorf("award UserID = %q, want u1", a.UserID)
		}
		if a.Progress != 100 {
			t.Errorf("award Progress = %d, want 100", a.Progress)
		}
		if !a.AwardedAt.Equal(fixed) {
			t.Errorf("award AwardedAt = %v, want %v", a.AwardedAt, fixed)
		}
	}
	// ids must be unique even within the same clock tick
	if awards[0].ID == awards[1].ID {
		t.Errorf("awards share id %q", awards[0].ID)
	}
}

func TestAutoAwardSkipsHeldBadges(t *testing.T) {
	badges := []Badge{enabledBadge("b1", 0)}
	progress := Progress{UserID: "u1"}
	existing := []Award{{ID: "a1", BadgeID: "b1", UserID: "u1"}}

	if awards := AutoAward(badges, progress, existing); awards != nil {
		t.Errorf("AutoAward() = %v, want nil", awards)
	}
}

func TestEvaluate(t *testing.T) {
	badges := []Badge{enabledBadge("b1", 4), enabledBadge("b2", 10)}
	progress := Progress{UserID: "u1", CompletedCourses: 5}

	reports := Evaluate(badges, progress)

	if len(reports) != 2 {
		t.Fatalf("Evaluate() returned %d reports, want 2", len(reports))
	}
	if !reports[0].Eligible || reports[0].Progress != 100 {
		t.Errorf("report b1 = {%v %d}, want {true 100}", reports[0].Eligible, reports[0].Progress)
	}
	if reports[1].Eligible || reports[1].Progress != 50 {
		t.Errorf("report b2 = {%v %d}, want {false 50}", reports[1].Eligible, reports[1].Progress)
	}
}
