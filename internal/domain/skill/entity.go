package skill

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("skill not found")

type Skill struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Assignment links one user to one skill. There is at most one row per
// (user, skill) pair; re-assigning updates interest and level in place.
type Assignment struct {
	ID         int64
	UserID     int64
	SkillID    int64
	SkillName  string
	Interested bool
	Level      int
	UpdatedAt  time.Time
}

// UpdateEntry is the denormalized activity-feed view of an assignment
// create or update, most recent first.
type UpdateEntry struct {
	SkillLevel int
	SkillName  string
	UserEmail  string
	UserName   string
	UpdatedAt  time.Time
}

// Holder is the projection of a user returned by users-by-skill lookups.
type Holder struct {
	ID    int64
	Name  string
	Email string
}
