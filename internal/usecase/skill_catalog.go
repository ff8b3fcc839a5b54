package usecase

import (
	"context"
	"strings"

	"github.com/xebia-france/xskillz-v2/internal/domain/skill"
	"github.com/xebia-france/xskillz-v2/internal/repository"
)

// SkillCatalog owns skill definitions and per-user assignments, plus the
// read-only projections joining both entity sets.
type SkillCatalog interface {
	AddSkill(ctx context.Context, name string) (skill.Skill, error)
	FindSkillByName(ctx context.Context, name string) (skill.Skill, error)
	ListSkills(ctx context.Context) ([]skill.Skill, error)

	AssignSkill(ctx context.Context, in AssignSkillInput) error
	UserSkills(ctx context.Context, userID int64) ([]skill.Assignment, error)
	UsersBySkill(ctx context.Context, skillID int64) ([]skill.Holder, error)
	UpdateFeed(ctx context.Context) ([]skill.UpdateEntry, error)
}

type AssignSkillInput struct {
	UserID     int64
	SkillID    int64
	Interested bool
	Level      int
}

type Catalog struct {
	skills repository.SkillRepository
}

func NewSkillCatalog(skills repository.SkillRepository) *Catalog {
	return &Catalog{skills: skills}
}

func (c *Catalog) AddSkill(ctx context.Context, name string) (skill.Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return skill.Skill{}, ErrInvalidInput
	}

	created, err := c.skills.Create(ctx, name)
	if err != nil {
		if isUniqueViolation(err) {
			return skill.Skill{}, ErrDuplicateSkillName
		}
		return skill.Skill{}, err
	}
	return created, nil
}

func (c *Catalog) FindSkillByName(ctx context.Context, name string) (skill.Skill, error) {
	return c.skills.FindByName(ctx, name)
}

func (c *Catalog) ListSkills(ctx context.Context) ([]skill.Skill, error) {
	return c.skills.List(ctx)
}

// AssignSkill upserts the assignment; the level is carried as an opaque
// integer, no range is enforced.
func (c *Catalog) AssignSkill(ctx context.Context, in AssignSkillInput) error {
	if in.UserID <= 0 || in.SkillID <= 0 {
		return ErrInvalidInput
	}
	if err := c.skills.Assign(ctx, in.UserID, in.SkillID, in.Interested, in.Level); err != nil {
		if isForeignKeyViolation(err) {
			return ErrUnknownReference
		}
		return err
	}
	return nil
}

func (c *Catalog) UserSkills(ctx context.Context, userID int64) ([]skill.Assignment, error) {
	return c.skills.FindByUserID(ctx, userID)
}

func (c *Catalog) UsersBySkill(ctx context.Context, skillID int64) ([]skill.Holder, error) {
	return c.skills.HoldersBySkill(ctx, skillID)
}

func (c *Catalog) UpdateFeed(ctx context.Context) ([]skill.UpdateEntry, error) {
	return c.skills.UpdateFeed(ctx)
}
