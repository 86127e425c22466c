package notification

import (
	"context"
	"fmt"

	"github.com/elimucd/backend/core"
	"github.com/elimucd/backend/core/badge"
)

// BadgeNotifier raises an in-app notification whenever a badge is awarded.
type BadgeNotifier struct {
	svc    Service
	logger core.Logger
}

var _ badge.Notifier = (*BadgeNotifier)(nil)

func NewBadgeNotifier(svc Service, logger core.Logger) *BadgeNotifier {
	return &BadgeNotifier{svc: svc, logger: logger}
}

func (bn *BadgeNotifier) BadgeAwarded(ctx context.Context, b badge.Badge, a badge.Award) {
	nn := NewNotification{
		Type:        TypeSystem,
		Title:       "Badge awarded",
		Message:     fmt.Sprintf("%s earned the badge %q", a.UserID, b.Name),
		ActionURL:   "/badges/" + b.ID,
		ActionLabel: "View badge",
		Metadata: map[string]string{
			"badge_id": b.ID,
			"user_id":  a.UserID,
			"award_id": a.ID,
		},
	}
	if _, err := bn.svc.Create(ctx, nn); err != nil {
		// the award itself already succeeded; a lost notification is not fatal
		bn.logger.Warn("notification: badge award side channel", err)
	}
}
