package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/elimucd/backend/core/badge"
	"github.com/elimucd/backend/core/role"
)

func CreateBadge(
	t *testing.T,
	repo badge.Repository,
	name string,
	criteria badge.Criteria,
	enabled bool,
	createdAt ...time.Time,
) badge.Badge {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	b := badge.Badge{
		Name:      name,
		Criteria:  criteria,
		Enabled:   enabled,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	b, err := repo.CreateBadge(context.Background(), b)
	if err != nil {
		t.Fatalf("CreateBadge() failed: %v", err)
	}
	return b
}

func CreateRole(
	t *testing.T,
	repo role.Repository,
	id, name string,
	perms []role.Permission,
	isSystem bool,
) role.Role {
	t.Helper()

	now := time.Now().UTC()
	r := role.Role{
		ID:          id,
		Name:        name,
		Permissions: perms,
		IsSystem:    isSystem,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repo.CreateRole(context.Background(), r); err != nil {
		t.Fatalf("CreateRole() failed: %v", err)
	}
	return r
}
