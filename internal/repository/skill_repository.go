package repository

import (
	"context"
	"errors"

	"github.com/xebia-france/xskillz-v2/internal/database"
	"github.com/xebia-france/xskillz-v2/internal/domain/skill"

	"github.com/jackc/pgx/v5"
)

type SkillRepository interface {
	Create(ctx context.Context, name string) (skill.Skill, error)
	FindByName(ctx context.Context, name string) (skill.Skill, error)
	List(ctx context.Context) ([]skill.Skill, error)

	Assign(ctx context.Context, userID, skillID int64, interested bool, level int) error
	FindByUserID(ctx context.Context, userID int64) ([]skill.Assignment, error)
	HoldersBySkill(ctx context.Context, skillID int64) ([]skill.Holder, error)
	UpdateFeed(ctx context.Context) ([]skill.UpdateEntry, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) Create(ctx context.Context, name string) (skill.Skill, error) {
	var s skill.Skill
	row := r.db.QueryRow(ctx,
		`INSERT INTO skills (name) VALUES ($1) RETURNING id, name, created_at`, name)
	if err := row.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
		return skill.Skill{}, err
	}
	return s, nil
}

func (r *PostgresSkillRepository) FindByName(ctx context.Context, name string) (skill.Skill, error) {
	var s skill.Skill
	row := r.db.QueryRow(ctx, `SELECT id, name, created_at FROM skills WHERE name = $1`, name)
	if err := row.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return skill.Skill{}, skill.ErrNotFound
		}
		return skill.Skill{}, err
	}
	return s, nil
}

func (r *PostgresSkillRepository) List(ctx context.Context) ([]skill.Skill, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM skills ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		var s skill.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Assign upserts the (user, skill) pair: a second assignment of the same
// pair updates interest and level in place and bumps updated_at, which is
// what moves the entry to the top of the feed.
func (r *PostgresSkillRepository) Assign(ctx context.Context, userID, skillID int64, interested bool, level int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_skills (user_id, skill_id, interested, level)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, skill_id)
		 DO UPDATE SET interested = EXCLUDED.interested, level = EXCLUDED.level, updated_at = now()`,
		userID, skillID, interested, level,
	)
	return err
}

func (r *PostgresSkillRepository) FindByUserID(ctx context.Context, userID int64) ([]skill.Assignment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT us.id, us.user_id, us.skill_id, s.name, us.interested, us.level, us.updated_at
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 WHERE us.user_id = $1
		 ORDER BY s.name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Assignment, 0)
	for rows.Next() {
		var a skill.Assignment
		if err := rows.Scan(&a.ID, &a.UserID, &a.SkillID, &a.SkillName, &a.Interested, &a.Level, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) HoldersBySkill(ctx context.Context, skillID int64) ([]skill.Holder, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.name, u.email
		 FROM user_skills us
		 JOIN users u ON u.id = us.user_id
		 WHERE us.skill_id = $1
		 ORDER BY u.id ASC`,
		skillID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Holder, 0)
	for rows.Next() {
		var h skill.Holder
		if err := rows.Scan(&h.ID, &h.Name, &h.Email); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) UpdateFeed(ctx context.Context) ([]skill.UpdateEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT us.level, s.name, u.email, u.name, us.updated_at
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 JOIN users u ON u.id = us.user_id
		 ORDER BY us.updated_at DESC, us.id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.UpdateEntry, 0)
	for rows.Next() {
		var e skill.UpdateEntry
		if err := rows.Scan(&e.SkillLevel, &e.SkillName, &e.UserEmail, &e.UserName, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
