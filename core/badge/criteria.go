package badge

import "math"

// current extracts the progress measurement a criteria variant compares
// against. ok is false for an unrecognized type tag: such criteria always
// evaluate to not-eligible / 0% rather than erroring, so a half-migrated
// catalog cannot take the award path down.
func (c Criteria) current(p Progress) (float64, bool) {
	switch c.Type {
	case CriteriaCompletion:
		return float64(p.CompletedCourses), true
	case CriteriaScore:
		return p.AverageScore, true
	case CriteriaParticipation, CriteriaStreak:
		return float64(p.ConsecutiveDays), true
	case CriteriaTime:
		return p.TotalTimeSpent, true
	}
	return 0, false
}

// override returns the variant-specific threshold field, when set.
func (c Criteria) override() (float64, bool) {
	switch c.Type {
	case CriteriaCompletion:
		if c.MinCourses != nil {
			return float64(*c.MinCourses), true
		}
	case CriteriaScore:
		if c.MinScore != nil {
			return *c.MinScore, true
		}
	case CriteriaParticipation, CriteriaStreak:
		if c.ConsecutiveDays != nil {
			return float64(*c.ConsecutiveDays), true
		}
	case CriteriaTime:
		if c.TimeSpent != nil {
			return *c.TimeSpent, true
		}
	}
	return 0, false
}

// eligibilityTarget resolves the threshold used by the eligibility check.
// Fallback chain: variant field, then Threshold, then 0.
func (c Criteria) eligibilityTarget() float64 {
	if t, ok := c.override(); ok {
		return t
	}
	if c.Threshold != nil {
		return *c.Threshold
	}
	return 0
}

// progressTarget resolves the denominator used by the progress percentage.
// Same chain as eligibilityTarget except the final fallback is 1 (100 for
// score). The asymmetry with eligibilityTarget is inherited behavior; do not
// unify the defaults without product sign-off.
func (c Criteria) progressTarget() float64 {
	if t, ok := c.override(); ok {
		return t
	}
	if c.Threshold != nil {
		return *c.Threshold
	}
	if c.Type == CriteriaScore {
		return 100
	}
	return 1
}

// Eligible reports whether progress satisfies the badge's criteria.
// Unknown criteria types are never eligible.
func Eligible(b Badge, p Progress) bool {
	cur, ok := b.Criteria.current(p)
	if !ok {
		return false
	}
	return cur >= b.Criteria.eligibilityTarget()
}

// ProgressPercent returns how far along progress is towards the badge's
// criteria, in [0, 100]. A zero target yields 0 (no division by zero).
func ProgressPercent(b Badge, p Progress) int {
	cur, ok := b.Criteria.current(p)
	if !ok {
		return 0
	}
	target := b.Criteria.progressTarget()
	if target == 0 {
		return 0
	}
	pct := cur / target * 100
	if pct > 100 {
		pct = 100
	}
	return int(math.Round(pct))
}
