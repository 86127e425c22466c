package badge

import (
	"context"
	"errors"
	"time"

	"github.com/elimucd/backend/core"
)

var (
	// errors
	ErrNotFound = errors.New("badge not found")
)

type (
	Repository interface {
		CreateBadge(ctx context.Context, b Badge) (Badge, error)
		QueryAllBadges(ctx context.Context) ([]Badge, error)
		GetBadgeByID(ctx context.Context, id string) (Badge, error)
		UpdateBadge(ctx context.Context, b Badge) (Badge, error)
		DeleteBadgesByID(ctx context.Context, ids ...string) error

		QueryAwardsByUser(ctx context.Context, userID string) ([]Award, error)
		CreateAwards(ctx context.Context, awards ...Award) error
	}

	// Notifier is told about freshly persisted awards so a side channel
	// (in-app notification, email digest) can pick them up.
	Notifier interface {
		BadgeAwarded(ctx context.Context, b Badge, a Award)
	}

	Service interface {
		Create(ctx context.Context, nb NewBadge) (Badge, error)
		QueryAll(ctx context.Context) ([]Badge, error)
		GetByID(ctx context.Context, id string) (Badge, error)
		Update(ctx context.Context, id string, ub UpdateBadge) (Badge, error)
		Delete(ctx context.Context, ids ...string) error

		// Check evaluates the whole catalog against one user's progress.
		Check(ctx context.Context, p Progress) ([]EligibilityReport, error)
		// AutoAward persists an award for every eligible badge the user does
		// not hold yet and returns the newly created awards.
		AutoAward(ctx context.Context, p Progress) ([]Award, error)
		AwardsByUser(ctx context.Context, userID string) ([]Award, error)
	}

	service struct {
		repo     Repository
		notifier Notifier
		logger   core.Logger
	}
)

var _ Service = (*service)(nil)

// NewService returns a badge catalog/award service. notifier may be nil.
func NewService(repo Repository, notifier Notifier, logger core.Logger) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

func (svc *service) Create(ctx context.Context, nb NewBadge) (Badge, error) {
	if err := nb.Validate(); err != nil {
		return Badge{}, err
	}

	now := time.Now().UTC()
	enabled := true
	if nb.Enabled != nil {
		enabled = *nb.Enabled
	}
	b := Badge{
		Name:        nb.Name,
		Description: nb.Description,
		Icon:        nb.Icon,
		Color:       nb.Color,
		Criteria:    nb.Criteria,
		Enabled:     enabled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateBadge(ctx, b)
}

func (svc *service) QueryAll(ctx context.Context) ([]Badge, error) {
	return svc.repo.QueryAllBadges(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Badge, error) {
	return svc.repo.GetBadgeByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, ub UpdateBadge) (Badge, error) {
	if err := ub.Validate(); err != nil {
		return Badge{}, err
	}

	b, err := svc.repo.GetBadgeByID(ctx, id)
	if err != nil {
		return Badge{}, err
	}

	// only save set fields
	if ub.Name != "" {
		b.Name = ub.Name
	}
	if ub.Description != "" {
		b.Description = ub.Description
	}
	if ub.Icon != "" {
		b.Icon = ub.Icon
	}
	if ub.Color != "" {
		b.Color = ub.Color
	}
	if ub.Criteria != nil {
		b.Criteria = *ub.Criteria
	}
	if ub.Enabled != nil {
		b.Enabled = *ub.Enabled
	}
	b.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateBadge(ctx, b)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteBadgesByID(ctx, ids...)
}

func (svc *service) Check(ctx context.Context, p Progress) ([]EligibilityReport, error) {
	badges, err := svc.repo.QueryAllBadges(ctx)
	if err != nil {
		return nil, err
	}
	return Evaluate(badges, p), nil
}

func (svc *service) AutoAward(ctx context.Context, p Progress) ([]Award, error) {
	badges, err := svc.repo.QueryAllBadges(ctx)
	if err != nil {
		return nil, err
	}
	existing, err := svc.repo.QueryAwardsByUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	newAwards := AutoAward(badges, p, existing)
	if len(newAwards) == 0 {
		return nil, nil
	}
	if err := svc.repo.CreateAwards(ctx, newAwards...); err != nil {
		return nil, err
	}

	if svc.notifier != nil {
		byID := make(map[string]Badge, len(badges))
		for _, b := range badges {
			byID[b.ID] = b
		}
		for _, a := range newAwards {
			svc.notifier.BadgeAwarded(ctx, byID[a.BadgeID], a)
		}
	}
	return newAwards, nil
}

func (svc *service) AwardsByUser(ctx context.Context, userID string) ([]Award, error) {
	return svc.repo.QueryAwardsByUser(ctx, userID)
}
