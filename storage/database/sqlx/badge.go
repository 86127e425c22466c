package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/elimucd/backend/core/badge"
)

type badgeRepository struct {
	db *sqlx.DB
}

var _ badge.Repository = (*badgeRepository)(nil)

func NewBadgeRepository(db *sqlx.DB) badge.Repository {
	return &badgeRepository{db: db}
}

// badgeRow flattens the criteria variant into nullable columns.
type badgeRow struct {
	ID              string       `db:"id"`
	Name            string       `db:"name"`
	Description     string       `db:"description"`
	Icon            string       `db:"icon"`
	Color           string       `db:"color"`
	CriteriaType    string       `db:"criteria_type"`
	Threshold       null.Float64 `db:"threshold"`
	MinScore        null.Float64 `db:"min_score"`
	MinCourses      null.Int     `db:"min_courses"`
	ConsecutiveDays null.Int     `db:"consecutive_days"`
	TimeSpent       null.Float64 `db:"time_spent"`
	Enabled         bool         `db:"enabled"`
	CreatedAt       time.Time    `db:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at"`
}

func newBadgeRow(b badge.Badge) badgeRow {
	return badgeRow{
		ID:              b.ID,
		Name:            b.Name,
		Description:     b.Description,
		Icon:            b.Icon,
		Color:           b.Color,
		CriteriaType:    b.Criteria.Type,
		Threshold:       null.Float64FromPtr(b.Criteria.Threshold),
		MinScore:        null.Float64FromPtr(b.Criteria.MinScore),
		MinCourses:      null.IntFromPtr(b.Criteria.MinCourses),
		ConsecutiveDays: null.IntFromPtr(b.Criteria.ConsecutiveDays),
		TimeSpent:       null.Float64FromPtr(b.Criteria.TimeSpent),
		Enabled:         b.Enabled,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func (row badgeRow) badge() badge.Badge {
	return badge.Badge{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Icon:        row.Icon,
		Color:       row.Color,
		Criteria: badge.Criteria{
			Type:            row.CriteriaType,
			Threshold:       row.Threshold.Ptr(),
			MinScore:        row.MinScore.Ptr(),
			MinCourses:      row.MinCourses.Ptr(),
			ConsecutiveDays: row.ConsecutiveDays.Ptr(),
			TimeSpent:       row.TimeSpent.Ptr(),
		},
		Enabled:   row.Enabled,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

const badgeColumns = `id, name, description, icon, color, criteria_type, threshold,
	min_score, min_courses, consecutive_days, time_spent, enabled, created_at, updated_at`

func (repo *badgeRepository) CreateBadge(ctx context.Context, b badge.Badge) (badge.Badge, error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	const q = `
		INSERT INTO badge (` + badgeColumns + `)
		VALUES (:id, :name, :description, :icon, :color, :criteria_type, :threshold,
			:min_score, :min_courses, :consecutive_days, :time_spent, :enabled, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, newBadgeRow(b)); err != nil {
		return badge.Badge{}, errors.Wrap(err, "inserting badge")
	}
	return b, nil
}

func (repo *badgeRepository) QueryAllBadges(ctx context.Context) ([]badge.Badge, error) {
	var rows []badgeRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT `+badgeColumns+` FROM badge ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying badges")
	}
	badges := make([]badge.Badge, 0, len(rows))
	for _, row := range rows {
		badges = append(badges, row.badge())
	}
	return badges, nil
}

func (repo *badgeRepository) GetBadgeByID(ctx context.Context, id string) (badge.Badge, error) {
	var row badgeRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+badgeColumns+` FROM badge WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return badge.Badge{}, badge.ErrNotFound
	}
	if err != nil {
		return badge.Badge{}, errors.Wrap(err, "getting badge")
	}
	return row.badge(), nil
}

func (repo *badgeRepository) UpdateBadge(ctx context.Context, b badge.Badge) (badge.Badge, error) {
	const q = `
		UPDATE badge
		SET name = :name, description = :description, icon = :icon, color = :color,
			criteria_type = :criteria_type, threshold = :threshold, min_score = :min_score,
			min_courses = :min_courses, consecutive_days = :consecutive_days,
			time_spent = :time_spent, enabled = :enabled, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, newBadgeRow(b))
	if err != nil {
		return badge.Badge{}, errors.Wrap(err, "updating badge")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return badge.Badge{}, badge.ErrNotFound
	}
	return b, nil
}

func (repo *badgeRepository) DeleteBadgesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM badge WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building badge delete")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting badges")
	}
	return nil
}

type awardRow struct {
	ID        string    `db:"id"`
	BadgeID   string    `db:"badge_id"`
	UserID    string    `db:"user_id"`
	AwardedAt time.Time `db:"awarded_at"`
	Progress  int       `db:"progress"`
}

func (repo *badgeRepository) QueryAwardsByUser(ctx context.Context, userID string) ([]badge.Award, error) {
	var rows []awardRow
	const q = `SELECT id, badge_id, user_id, awarded_at, progress FROM award WHERE user_id = $1 ORDER BY awarded_at`
	if err := repo.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying awards")
	}
	awards := make([]badge.Award, 0, len(rows))
	for _, row := range rows {
		awards = append(awards, badge.Award{
			ID:        row.ID,
			BadgeID:   row.BadgeID,
			UserID:    row.UserID,
			AwardedAt: row.AwardedAt.UTC(),
			Progress:  row.Progress,
		})
	}
	return awards, nil
}

func (repo *badgeRepository) CreateAwards(ctx context.Context, awards ...badge.Award) error {
	if len(awards) == 0 {
		return nil
	}
	const q = `
		INSERT INTO award (id, badge_id, user_id, awarded_at, progress)
		VALUES (:id, :badge_id, :user_id, :awarded_at, :progress)`
	rows := make([]awardRow, 0, len(awards))
	for _, a := range awards {
		rows = append(rows, awardRow{
			ID:        a.ID,
			BadgeID:   a.BadgeID,
			UserID:    a.UserID,
			AwardedAt: a.AwardedAt,
			Progress:  a.Progress,
		})
	}
	if _, err := repo.db.NamedExecContext(ctx, q, rows); err != nil {
		return errors.Wrap(err, "inserting awards")
	}
	return nil
}
