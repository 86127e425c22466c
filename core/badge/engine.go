package badge

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var nowFunc = time.Now // mockable

// newAwardID combines the current time with a random suffix so a batch of
// awards created within the same clock tick still gets distinct ids.
func newAwardID() string {
	return fmt.Sprintf("%d-%s", nowFunc().UTC().UnixNano(), uuid.New().String()[:8])
}

// FindEligible filters badges down to those the user can be awarded right
// now: enabled, not already awarded and with satisfied criteria. Input order
// is preserved. Pure; no side effects.
func FindEligible(badges []Badge, p Progress, awards []Award) []Badge {
	awarded := make(map[string]struct{}, len(awards))
	for _, a := range awards {
		awarded[a.BadgeID] = struct{}{}
	}

	var eligible []Badge
	for _, b := range badges {
		if !b.Enabled {
			continue
		}
		if _, ok := awarded[b.ID]; ok {
			continue
		}
		if Eligible(b, p) {
			eligible = append(eligible, b)
		}
	}
	return eligible
}

// AutoAward builds one Award per FindEligible result, stamped with the
// current time and 100% progress. Persisting the awards is the caller's
// responsibility.
func AutoAward(badges []Badge, p Progress, awards []Award) []Award {
	eligible := FindEligible(badges, p, awards)
	if len(eligible) == 0 {
		return nil
	}

	now := nowFunc().UTC()
	newAwards := make([]Award, 0, len(eligible))
	for _, b := range eligible {
		newAwards = append(newAwards, Award{
			ID:        newAwardID(),
			BadgeID:   b.ID,
			UserID:    p.UserID,
			AwardedAt: now,
			Progress:  100,
		})
	}
	return newAwards
}

// EligibilityReport pairs a badge with its evaluation against one user's progress.
type EligibilityReport struct {
	Badge    Badge `json:"badge"`
	Eligible bool  `json:"eligible"`
	Progress int   `json:"progress"` // percent, [0,100]
}

// Evaluate reports eligibility and progress percent for every badge in the
// catalog, in input order.
func Evaluate(badges []Badge, p Progress) []EligibilityReport {
	reports := make([]EligibilityReport, 0, len(badges))
	for _, b := range badges {
		reports = append(reports, EligibilityReport{
			Badge:    b,
			Eligible: Eligible(b, p),
			Progress: ProgressPercent(b, p),
		})
	}
	return reports
}
