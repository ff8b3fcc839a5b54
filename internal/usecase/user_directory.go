package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/xebia-france/xskillz-v2/internal/domain/user"
	"github.com/xebia-france/xskillz-v2/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// UserDirectory owns user identity: lookups, profile and credential
// mutations, roles and the management projection. Lookups that find nothing
// return user.ErrNotFound; constraint violations surface as the typed errors
// in errors.go; anything else propagates as a storage fault.
type UserDirectory interface {
	AddUser(ctx context.Context, email, name, password string) (int64, error)
	GetUsers(ctx context.Context) ([]user.User, error)
	FindByEmail(ctx context.Context, email string) (user.User, error)
	FindByID(ctx context.Context, id int64) (user.User, error)
	FindByReadableID(ctx context.Context, slug string) (user.User, error)

	UpdateUser(ctx context.Context, id int64, upd user.Update) error
	UpdatePhone(ctx context.Context, id int64, phone string) error
	UpdateAddress(ctx context.Context, id int64, address string) error
	UpdateEmployeeStartDate(ctx context.Context, id int64, date time.Time) error
	DeleteUser(ctx context.Context, id int64) error

	Authenticate(ctx context.Context, email, password string) (user.User, error)
	AuthenticateByID(ctx context.Context, id int64, password string) (user.User, error)
	ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error

	AddRole(ctx context.Context, userID int64, role string) error
	RolesOf(ctx context.Context, userID int64) ([]string, error)
	UsersWithRole(ctx context.Context, role string) ([]user.User, error)
	WebUsersWithRole(ctx context.Context, role string) ([]user.WebUser, error)

	AssignManager(ctx context.Context, userID, managerID int64) error
	Management(ctx context.Context) ([]user.ManagementRow, error)
}

type Directory struct {
	users repository.UserRepository
}

func NewUserDirectory(users repository.UserRepository) *Directory {
	return &Directory{users: users}
}

func (d *Directory) AddUser(ctx context.Context, email, name, password string) (int64, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" || password == "" {
		return 0, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, ErrInternal
	}

	id, err := d.users.Create(ctx, email, name, string(hash))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateEmail
		}
		return 0, err
	}
	return id, nil
}

func (d *Directory) GetUsers(ctx context.Context) ([]user.User, error) {
	users, err := d.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = sanitize(users[i])
	}
	return users, nil
}

func (d *Directory) FindByEmail(ctx context.Context, email string) (user.User, error) {
	u, err := d.users.FindByEmail(ctx, email)
	if err != nil {
		return user.User{}, err
	}
	return sanitize(u), nil
}

func (d *Directory) FindByID(ctx context.Context, id int64) (user.User, error) {
	u, err := d.users.FindByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}
	return sanitize(u), nil
}

func (d *Directory) FindByReadableID(ctx context.Context, slug string) (user.User, error) {
	u, err := d.users.FindByReadableID(ctx, slug)
	if err != nil {
		return user.User{}, err
	}
	return sanitize(u), nil
}

func (d *Directory) UpdateUser(ctx context.Context, id int64, upd user.Update) error {
	if upd.Empty() {
		return ErrInvalidInput
	}
	if err := d.users.Update(ctx, id, upd); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (d *Directory) UpdatePhone(ctx context.Context, id int64, phone string) error {
	return d.users.UpdatePhone(ctx, id, phone)
}

func (d *Directory) UpdateAddress(ctx context.Context, id int64, address string) error {
	return d.users.UpdateAddress(ctx, id, address)
}

func (d *Directory) UpdateEmployeeStartDate(ctx context.Context, id int64, date time.Time) error {
	if date.IsZero() {
		return ErrInvalidInput
	}
	return d.users.UpdateEmployeeStartDate(ctx, id, date)
}

func (d *Directory) DeleteUser(ctx context.Context, id int64) error {
	return d.users.Delete(ctx, id)
}

// timingHash is compared against on the unknown-user path so both failure
// branches pay one bcrypt verification.
var timingHash, _ = bcrypt.GenerateFromPassword([]byte("timing-equalization"), bcrypt.DefaultCost)

// Authenticate deliberately answers user.ErrNotFound for both an unknown
// email and a wrong password, so the caller cannot tell which one failed,
// by shape or by timing.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	u, err := d.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(timingHash, []byte(password))
		}
		return user.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return user.User{}, user.ErrNotFound
	}
	return sanitize(u), nil
}

func (d *Directory) AuthenticateByID(ctx context.Context, id int64, password string) (user.User, error) {
	u, err := d.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(timingHash, []byte(password))
		}
		return user.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return user.User{}, user.ErrNotFound
	}
	return sanitize(u), nil
}

func (d *Directory) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	if newPassword == "" {
		return ErrInvalidInput
	}

	u, err := d.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrInternal
	}
	return d.users.UpdatePasswordHash(ctx, id, string(hash))
}

func (d *Directory) AddRole(ctx context.Context, userID int64, role string) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return ErrInvalidInput
	}
	if err := d.users.AddRole(ctx, userID, role); err != nil {
		if isForeignKeyViolation(err) {
			return ErrUnknownReference
		}
		return err
	}
	return nil
}

func (d *Directory) RolesOf(ctx context.Context, userID int64) ([]string, error) {
	return d.users.RolesOf(ctx, userID)
}

func (d *Directory) UsersWithRole(ctx context.Context, role string) ([]user.User, error) {
	users, err := d.users.UsersWithRole(ctx, role)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = sanitize(users[i])
	}
	return users, nil
}

func (d *Directory) WebUsersWithRole(ctx context.Context, role string) ([]user.WebUser, error) {
	return d.users.WebUsersWithRole(ctx, role)
}

func (d *Directory) AssignManager(ctx context.Context, userID, managerID int64) error {
	if userID == managerID {
		return ErrSelfManagement
	}
	if err := d.users.AssignManager(ctx, userID, managerID); err != nil {
		if errors.Is(err, user.ErrManagementCycle) {
			return ErrManagementCycle
		}
		if isForeignKeyViolation(err) {
			return ErrUnknownReference
		}
		return err
	}
	return nil
}

func (d *Directory) Management(ctx context.Context) ([]user.ManagementRow, error) {
	return d.users.Management(ctx)
}

func sanitize(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
