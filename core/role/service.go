package role

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/elimucd/backend/core"
)

var (
	// errors
	ErrNotFound   = errors.New("role not found")
	ErrSystemRole = errors.New("system roles cannot be modified")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateRole(ctx context.Context, r Role) error
		QueryAllRoles(ctx context.Context) ([]Role, error)
		GetRoleByID(ctx context.Context, id string) (Role, error)
		GetRoleByName(ctx context.Context, name string) (Role, error)
		UpdateRole(ctx context.Context, r Role) error
		DeleteRolesByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Create(ctx context.Context, nr NewRole) (Role, error)
		QueryAll(ctx context.Context) ([]Role, error)
		GetByID(ctx context.Context, id string) (Role, error)
		GetByName(ctx context.Context, name string) (Role, error)
		Update(ctx context.Context, id string, ur UpdateRole) (Role, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo   Repository
		logger core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, logger core.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (svc *service) Create(ctx context.Context, nr NewRole) (Role, error) {
	if err := nr.Validate(); err != nil {
		return Role{}, err
	}

	now := nowFunc().UTC()
	r := Role{
		ID:          uuid.New().String(),
		Name:        nr.Name,
		Description: nr.Description,
		Permissions: nr.Permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := svc.repo.CreateRole(ctx, r); err != nil {
		return Role{}, err
	}
	return r, nil
}

func (svc *service) QueryAll(ctx context.Context) ([]Role, error) {
	return svc.repo.QueryAllRoles(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Role, error) {
	return svc.repo.GetRoleByID(ctx, id)
}

func (svc *service) GetByName(ctx context.Context, name string) (Role, error) {
	return svc.repo.GetRoleByName(ctx, name)
}

func (svc *service) Update(ctx context.Context, id string, ur UpdateRole) (Role, error) {
	r, err := svc.repo.GetRoleByID(ctx, id)
	if err != nil {
		return Role{}, err
	}
	if r.IsSystem {
		return Role{}, ErrSystemRole
	}

	if ur.Name != nil {
		r.Name = *ur.Name
	}
	if ur.Description != nil {
		r.Description = *ur.Description
	}
	if ur.Permissions != nil {
		r.Permissions = *ur.Permissions
	}
	if err := validate(r.Name, r.Permissions); err != nil {
		return Role{}, err
	}

	r.UpdatedAt = nowFunc().UTC()
	if err := svc.repo.UpdateRole(ctx, r); err != nil {
		return Role{}, err
	}
	return r, nil
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		r, err := svc.repo.GetRoleByID(ctx, id)
		if err != nil {
			return err
		}
		if r.IsSystem {
			return ErrSystemRole
		}
	}
	return svc.repo.DeleteRolesByID(ctx, ids...)
}
