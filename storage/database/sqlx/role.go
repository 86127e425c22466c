package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/elimucd/backend/core/role"
)

type roleRepository struct {
	db *sqlx.DB
}

var _ role.Repository = (*roleRepository)(nil)

func NewRoleRepository(db *sqlx.DB) role.Repository {
	return &roleRepository{db: db}
}

// roleRow keeps the permission table as a JSONB column; roles are few and
// always loaded whole.
type roleRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Permissions []byte    `db:"permissions"`
	IsSystem    bool      `db:"is_system"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func newRoleRow(r role.Role) (roleRow, error) {
	perms, err := json.Marshal(r.Permissions)
	if err != nil {
		return roleRow{}, errors.Wrap(err, "marshalling permissions")
	}
	return roleRow{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Permissions: perms,
		IsSystem:    r.IsSystem,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

func (row roleRow) role() (role.Role, error) {
	var perms []role.Permission
	if len(row.Permissions) > 0 {
		if err := json.Unmarshal(row.Permissions, &perms); err != nil {
			return role.Role{}, errors.Wrap(err, "unmarshalling permissions")
		}
	}
	return role.Role{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Permissions: perms,
		IsSystem:    row.IsSystem,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}, nil
}

const roleColumns = `id, name, description, permissions, is_system, created_at, updated_at`

func (repo *roleRepository) CreateRole(ctx context.Context, r role.Role) error {
	row, err := newRoleRow(r)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO role (` + roleColumns + `)
		VALUES (:id, :name, :description, :permissions, :is_system, :created_at, :updated_at)`
	if _, err = repo.db.NamedExecContext(ctx, q, row); err != nil {
		return errors.Wrap(err, "inserting role")
	}
	return nil
}

func (repo *roleRepository) QueryAllRoles(ctx context.Context) ([]role.Role, error) {
	var rows []roleRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT `+roleColumns+` FROM role ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying roles")
	}
	roles := make([]role.Role, 0, len(rows))
	for _, row := range rows {
		r, err := row.role()
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, nil
}

func (repo *roleRepository) getRole(ctx context.Context, q string, arg interface{}) (role.Role, error) {
	var row roleRow
	err := repo.db.GetContext(ctx, &row, q, arg)
	if err == sql.ErrNoRows {
		return role.Role{}, role.ErrNotFound
	}
	if err != nil {
		return role.Role{}, errors.Wrap(err, "getting role")
	}
	return row.role()
}

func (repo *roleRepository) GetRoleByID(ctx context.Context, id string) (role.Role, error) {
	return repo.getRole(ctx, `SELECT `+roleColumns+` FROM role WHERE id = $1`, id)
}

func (repo *roleRepository) GetRoleByName(ctx context.Context, name string) (role.Role, error) {
	return repo.getRole(ctx, `SELECT `+roleColumns+` FROM role WHERE name = $1`, name)
}

func (repo *roleRepository) UpdateRole(ctx context.Context, r role.Role) error {
	row, err := newRoleRow(r)
	if err != nil {
		return err
	}
	const q = `
		UPDATE role
		SET name = :name, description = :description, permissions = :permissions,
			updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return errors.Wrap(err, "updating role")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return role.ErrNotFound
	}
	return nil
}

func (repo *roleRepository) DeleteRolesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM role WHERE id IN (?) AND NOT is_system`, ids)
	if err != nil {
		return errors.Wrap(err, "building role delete")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting roles")
	}
	return nil
}
