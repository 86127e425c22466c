package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/elimucd/backend/core/badge"
)

type badgeRepository struct {
	db *badgeTable
}

var _ badge.Repository = (*badgeRepository)(nil)

func NewBadgeRepository(db *DB) badge.Repository {
	return &badgeRepository{db: db.badge}
}

func (repo *badgeRepository) query() []badge.Badge {
	badges := make([]badge.Badge, 0, len(repo.db.table))
	for _, b := range repo.db.table {
		badges = append(badges, *b)
	}
	sort.Slice(badges, func(i, j int) bool { return badges[i].CreatedAt.Before(badges[j].CreatedAt) })
	return badges
}

func (repo *badgeRepository) CreateBadge(_ context.Context, b badge.Badge) (badge.Badge, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	repo.db.table[b.ID] = &b
	return b, nil
}

func (repo *badgeRepository) QueryAllBadges(_ context.Context) ([]badge.Badge, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *badgeRepository) GetBadgeByID(_ context.Context, id string) (badge.Badge, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if b, ok := repo.db.table[id]; ok {
		return *b, nil
	}
	return badge.Badge{}, badge.ErrNotFound
}

func (repo *badgeRepository) UpdateBadge(_ context.Context, b badge.Badge) (badge.Badge, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[b.ID]; !ok {
		return badge.Badge{}, badge.ErrNotFound
	}
	repo.db.table[b.ID] = &b
	return b, nil
}

func (repo *badgeRepository) DeleteBadgesByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *badgeRepository) QueryAwardsByUser(_ context.Context, userID string) ([]badge.Award, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var awards []badge.Award
	for _, a := range repo.db.awards {
		if a.UserID == userID {
			awards = append(awards, a)
		}
	}
	return awards, nil
}

func (repo *badgeRepository) CreateAwards(_ context.Context, awards ...badge.Award) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.awards = append(repo.db.awards, awards...)
	return nil
}
