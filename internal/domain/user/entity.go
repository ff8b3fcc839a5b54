package user

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("user not found")

	// ErrManagementCycle is returned when an assignment would make a user a
	// transitive manager of themselves. The manager relation must stay a
	// forest.
	ErrManagementCycle = errors.New("management cycle")
)

// User is the directory record for one person. PasswordHash never leaves the
// repository/usecase boundary; read operations hand out sanitized copies.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string

	Address           *string
	Diploma           *time.Time
	Phone             *string
	EmployeeStartDate *time.Time

	ManagerID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReadableID is the URL slug derived from the display name. It is computed,
// never stored, so it is only as unique as the names are.
func (u User) ReadableID() string {
	return Slug(u.Name)
}

func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// Update carries a partial profile change; nil fields are left untouched.
// The struct is the entire mutation surface: a column not listed here cannot
// be written through a profile update at all.
type Update struct {
	Email   *string
	Name    *string
	Address *string
	Diploma *time.Time
	Phone   *string
}

func (u Update) Empty() bool {
	return u.Email == nil && u.Name == nil && u.Address == nil && u.Diploma == nil && u.Phone == nil
}

// WebUser is the reduced projection exposed to the web pickers: just enough
// to render a list entry, nothing from the profile.
type WebUser struct {
	ID    int64
	Name  string
	Email string
}

// ManagementRow is one row of the management projection: every user appears
// exactly once, manager fields are nil for top-level users.
type ManagementRow struct {
	ManagerID   *int64
	ManagerName *string
	UserID      int64
	UserName    string
}
