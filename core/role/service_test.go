package role_test

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/elimucd/backend/core/role"
	logsvc "github.com/elimucd/backend/services/logger"
	inmemdb "github.com/elimucd/backend/storage/database/inmem"
)

func newTestService(t *testing.T) (role.Service, role.Repository) {
	t.Helper()
	repo := inmemdb.NewRoleRepository(inmemdb.NewDB())
	logger := logsvc.NewStdLogger(log.New(io.Discard, "", 0))
	return role.NewService(repo, logger), repo
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	r, err := svc.Create(ctx, role.NewRole{
		Name:        "  moderator ",
		Description: "reviews flagged content",
		Permissions: []role.Permission{{Resource: "course", Actions: []string{"read", "approve"}}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.ID == "" {
		t.Error("expected an id to be assigned")
	}
	if r.Name != "moderator" {
		t.Errorf("expected trimmed name, got %q", r.Name)
	}
	if r.IsSystem {
		t.Error("created roles must not be system roles")
	}

	got, err := svc.GetByName(ctx, "moderator")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if got.ID != r.ID {
		t.Errorf("expected id %q, got %q", r.ID, got.ID)
	}
}

func TestServiceCreateInvalid(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Create(context.Background(), role.NewRole{Name: "viewer"}); err == nil {
		t.Error("expected a validation error for a role without permissions")
	}
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	r, err := svc.Create(ctx, role.NewRole{
		Name:        "support",
		Permissions: []role.Permission{{Resource: "user", Actions: []string{"read"}}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	desc := "handles tickets"
	perms := []role.Permission{{Resource: "user", Actions: []string{"read", "update"}}}
	updated, err := svc.Update(ctx, r.ID, role.UpdateRole{Description: &desc, Permissions: &perms})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "support" {
		t.Errorf("name should be untouched, got %q", updated.Name)
	}
	if updated.Description != desc {
		t.Errorf("expected description %q, got %q", desc, updated.Description)
	}
	if len(updated.Permissions[0].Actions) != 2 {
		t.Errorf("expected permissions replaced, got %+v", updated.Permissions)
	}

	// updating away all permissions is rejected
	empty := []role.Permission{}
	if _, err = svc.Update(ctx, r.ID, role.UpdateRole{Permissions: &empty}); err == nil {
		t.Error("expected a validation error")
	}

	if _, err = svc.Update(ctx, "nope", role.UpdateRole{Description: &desc}); err != role.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceSystemRoleGuard(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	sys := role.Role{ID: "sys-1", Name: role.RoleAdmin, IsSystem: true}
	if err := repo.CreateRole(ctx, sys); err != nil {
		t.Fatalf("seeding system role: %v", err)
	}

	desc := "nope"
	if _, err := svc.Update(ctx, sys.ID, role.UpdateRole{Description: &desc}); err != role.ErrSystemRole {
		t.Errorf("Update: expected ErrSystemRole, got %v", err)
	}
	if err := svc.Delete(ctx, sys.ID); err != role.ErrSystemRole {
		t.Errorf("Delete: expected ErrSystemRole, got %v", err)
	}
	if _, err := svc.GetByID(ctx, sys.ID); err != nil {
		t.Errorf("system role should still exist, got %v", err)
	}
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	r, err := svc.Create(ctx, role.NewRole{
		Name:        "temp",
		Permissions: []role.Permission{{Resource: "report", Actions: []string{"view"}}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, r.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, r.ID); err != role.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
