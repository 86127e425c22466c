package role

import (
	"testing"

	"github.com/elimucd/backend/core"
)

func TestCan(t *testing.T) {
	instructor := &Role{
		Name: "instructor",
		Permissions: []Permission{
			{Resource: "course", Actions: []string{"read", "update"}},
			{Resource: "quiz", Actions: []string{"read"}},
		},
	}
	admin := &Role{Name: RoleAdmin} // no permission entries at all
	empty := &Role{Name: "viewer"}

	tests := []struct {
		name     string
		role     *Role
		resource string
		action   string
		want     bool
	}{
		{"nil role", nil, "course", "read", false},
		{"admin bypasses empty table", admin, "course", "delete", true},
		{"admin bypasses unknown resource", admin, "starship", "launch", true},
		{"granted action", instructor, "course", "update", true},
		{"action not in entry", instructor, "course", "delete", false},
		{"second entry consulted", instructor, "quiz", "read", true},
		{"action missing on second entry", instructor, "quiz", "update", false},
		{"unknown resource", instructor, "badge", "read", false},
		{"no permissions", empty, "course", "read", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Can(tt.role, tt.resource, tt.action); got != tt.want {
				t.Errorf("Can(%s, %s) = %v, expected %v", tt.resource, tt.action, got, tt.want)
			}
		})
	}
}

func TestNewRoleValidate(t *testing.T) {
	valid := func() NewRole {
		return NewRole{
			Name:        "moderator",
			Permissions: []Permission{{Resource: "course", Actions: []string{"read"}}},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*NewRole)
		wantField string
	}{
		{"valid", func(nr *NewRole) {}, ""},
		{"blank name", func(nr *NewRole) { nr.Name = "   " }, "name"},
		{"no permissions", func(nr *NewRole) { nr.Permissions = nil }, "permissions"},
		{"permission without actions", func(nr *NewRole) {
			nr.Permissions = append(nr.Permissions, Permission{Resource: "quiz"})
		}, "permissions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nr := valid()
			tt.mutate(&nr)
			err := nr.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			vErr, ok := err.(*core.ValidationError)
			if !ok {
				t.Fatalf("expected *core.ValidationError, got %T (%v)", err, err)
			}
			if len(vErr.Fields) == 0 || vErr.Fields[0].Field != tt.wantField {
				t.Errorf("expected first violation on %q, got %+v", tt.wantField, vErr.Fields)
			}
		})
	}
}

func TestNewRoleValidateOrder(t *testing.T) {
	// everything wrong at once; name wins
	nr := NewRole{Name: " ", Permissions: nil}
	err := nr.Validate()
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("expected *core.ValidationError, got %T", err)
	}
	if vErr.Fields[0].Field != "name" {
		t.Errorf("expected the name violation to be reported first, got %q", vErr.Fields[0].Field)
	}
}
