package role

import (
	"strings"
	"time"

	"github.com/elimucd/backend/core"
)

// RoleAdmin bypasses the permission table entirely.
const RoleAdmin = "admin"

// Permission grants a set of actions on one resource.
type Permission struct {
	Resource string   `json:"resource"`
	Actions  []string `json:"actions"`
}

type Role struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions"`
	IsSystem    bool         `json:"is_system"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewRole contains information needed to create a new Role.
type NewRole struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions"`
}

// UpdateRole contains information needed to update a Role. Nil fields are
// left untouched.
type UpdateRole struct {
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Permissions *[]Permission `json:"permissions"`
}

// Validate applies the role rules in order and reports the first violation.
func (nr *NewRole) Validate() error {
	nr.Name = core.CleanString(nr.Name)
	nr.Description = core.CleanString(nr.Description)
	return validate(nr.Name, nr.Permissions)
}

func validate(name string, perms []Permission) error {
	if strings.TrimSpace(name) == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "name", Error: "name is required"})
	}
	if len(perms) == 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "permissions", Error: "at least one permission is required"})
	}
	for _, p := range perms {
		if len(p.Actions) == 0 {
			return core.NewValidationError(nil, core.FieldError{
				Field: "permissions", Error: "permission for " + p.Resource + " has no actions",
			})
		}
	}
	return nil
}
