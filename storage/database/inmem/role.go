package inmemdb

import (
	"context"
	"sort"

	"github.com/elimucd/backend/core/role"
)

type roleRepository struct {
	db *roleTable
}

var _ role.Repository = (*roleRepository)(nil)

func NewRoleRepository(db *DB) role.Repository {
	return &roleRepository{db: db.role}
}

func (repo *roleRepository) query() []role.Role {
	roles := make([]role.Role, 0, len(repo.db.table))
	for _, r := range repo.db.table {
		roles = append(roles, *r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles
}

func (repo *roleRepository) CreateRole(_ context.Context, r role.Role) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.table[r.ID] = &r
	return nil
}

func (repo *roleRepository) QueryAllRoles(_ context.Context) ([]role.Role, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *roleRepository) GetRoleByID(_ context.Context, id string) (role.Role, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if r, ok := repo.db.table[id]; ok {
		return *r, nil
	}
	return role.Role{}, role.ErrNotFound
}

func (repo *roleRepository) GetRoleByName(_ context.Context, name string) (role.Role, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, r := range repo.query() {
		if r.Name == name {
			return r, nil
		}
	}
	return role.Role{}, role.ErrNotFound
}

func (repo *roleRepository) UpdateRole(_ context.Context, r role.Role) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[r.ID]; !ok {
		return role.ErrNotFound
	}
	repo.db.table[r.ID] = &r
	return nil
}

func (repo *roleRepository) DeleteRolesByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
