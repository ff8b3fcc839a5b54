package usecase

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateSkillName = errors.New("skill name already exists")
	ErrUnknownReference   = errors.New("referenced user or skill does not exist")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSelfManagement     = errors.New("user cannot be their own manager")
	ErrManagementCycle    = errors.New("assignment would create a management cycle")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal error")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
