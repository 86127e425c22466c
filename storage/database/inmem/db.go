package inmemdb

import (
	"sync"

	"github.com/elimucd/backend/core/badge"
	"github.com/elimucd/backend/core/role"
)

// DB is an in-memory stand-in for the real database, shared by the
// repositories so cross-table operations see one consistent state.
type DB struct {
	badge *badgeTable
	role  *roleTable
}

type badgeTable struct {
	mutex  sync.RWMutex
	table  map[string]*badge.Badge
	awards []badge.Award
}

type roleTable struct {
	mutex sync.RWMutex
	table map[string]*role.Role
}

func NewDB() *DB {
	return &DB{
		badge: &badgeTable{table: make(map[string]*badge.Badge)},
		role:  &roleTable{table: make(map[string]*role.Role)},
	}
}
