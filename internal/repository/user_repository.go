package repository

import (
	"context"
	"errors"
	"time"

	"github.com/xebia-france/xskillz-v2/internal/database"
	"github.com/xebia-france/xskillz-v2/internal/domain/user"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, name, password_hash, address, diploma, phone, employee_start_date, manager_id, created_at, updated_at`

type UserRepository interface {
	Create(ctx context.Context, email, name, passwordHash string) (int64, error)
	List(ctx context.Context) ([]user.User, error)
	FindByID(ctx context.Context, id int64) (user.User, error)
	FindByEmail(ctx context.Context, email string) (user.User, error)
	FindByReadableID(ctx context.Context, slug string) (user.User, error)

	Update(ctx context.Context, id int64, upd user.Update) error
	UpdatePhone(ctx context.Context, id int64, phone string) error
	UpdateAddress(ctx context.Context, id int64, address string) error
	UpdateEmployeeStartDate(ctx context.Context, id int64, date time.Time) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error

	AddRole(ctx context.Context, userID int64, role string) error
	RolesOf(ctx context.Context, userID int64) ([]string, error)
	UsersWithRole(ctx context.Context, role string) ([]user.User, error)
	WebUsersWithRole(ctx context.Context, role string) ([]user.WebUser, error)

	AssignManager(ctx context.Context, userID, managerID int64) error
	Management(ctx context.Context) ([]user.ManagementRow, error)
}

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, email, name, passwordHash string) (int64, error) {
	var id int64
	row := r.db.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		email, name, passwordHash,
	)
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PostgresUserRepository) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id int64) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanOneUser(row)
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanOneUser(row)
}

// FindByReadableID scans candidates in id order so a slug collision always
// resolves to the oldest account.
func (r *PostgresUserRepository) FindByReadableID(ctx context.Context, slug string) (user.User, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM users ORDER BY id ASC`)
	if err != nil {
		return user.User{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return user.User{}, err
		}
		if user.Slug(name) == slug {
			rows.Close()
			return r.FindByID(ctx, id)
		}
	}
	if err := rows.Err(); err != nil {
		return user.User{}, err
	}
	return user.User{}, user.ErrNotFound
}

func (r *PostgresUserRepository) Update(ctx context.Context, id int64, upd user.Update) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE users
		 SET email = COALESCE($2, email),
		     name = COALESCE($3, name),
		     address = COALESCE($4, address),
		     diploma = COALESCE($5, diploma),
		     phone = COALESCE($6, phone),
		     updated_at = now()
		 WHERE id = $1`,
		id, upd.Email, upd.Name, upd.Address, upd.Diploma, upd.Phone,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) UpdatePhone(ctx context.Context, id int64, phone string) error {
	return r.updateColumn(ctx, id, `phone`, phone)
}

func (r *PostgresUserRepository) UpdateAddress(ctx context.Context, id int64, address string) error {
	return r.updateColumn(ctx, id, `address`, address)
}

func (r *PostgresUserRepository) UpdateEmployeeStartDate(ctx context.Context, id int64, date time.Time) error {
	return r.updateColumn(ctx, id, `employee_start_date`, date)
}

func (r *PostgresUserRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return r.updateColumn(ctx, id, `password_hash`, hash)
}

func (r *PostgresUserRepository) updateColumn(ctx context.Context, id int64, column string, value any) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE users SET `+column+` = $2, updated_at = now() WHERE id = $1`,
		id, value,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return user.ErrNotFound
	}
	return nil
}

// Delete removes the user together with their skill assignments and role
// links, and detaches any subordinates, in one transaction.
func (r *PostgresUserRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM user_skills WHERE user_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE users SET manager_id = NULL WHERE manager_id = $1`, id); err != nil {
		return err
	}

	affected, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return user.ErrNotFound
	}

	return tx.Commit(ctx)
}

// AddRole is idempotent: both inserts no-op when the role or the link
// already exists.
func (r *PostgresUserRepository) AddRole(ctx context.Context, userID int64, role string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx,
		`INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, role); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO user_roles (user_id, role_id)
		 SELECT $1, id FROM roles WHERE name = $2
		 ON CONFLICT DO NOTHING`,
		userID, role); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PostgresUserRepository) RolesOf(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT r.name
		 FROM user_roles ur
		 JOIN roles r ON r.id = ur.role_id
		 WHERE ur.user_id = $1
		 ORDER BY r.name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserRepository) UsersWithRole(ctx context.Context, role string) ([]user.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.email, u.name, u.password_hash, u.address, u.diploma, u.phone, u.employee_start_date, u.manager_id, u.created_at, u.updated_at
		 FROM users u
		 JOIN user_roles ur ON ur.user_id = u.id
		 JOIN roles r ON r.id = ur.role_id
		 WHERE r.name = $1
		 ORDER BY u.id ASC`,
		role,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserRepository) WebUsersWithRole(ctx context.Context, role string) ([]user.WebUser, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.name, u.email
		 FROM users u
		 JOIN user_roles ur ON ur.user_id = u.id
		 JOIN roles r ON r.id = ur.role_id
		 WHERE r.name = $1
		 ORDER BY u.id ASC`,
		role,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.WebUser, 0)
	for rows.Next() {
		var w user.WebUser
		if err := rows.Scan(&w.ID, &w.Name, &w.Email); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AssignManager links userID under managerID. The manager relation must stay
// a forest, so the prospective manager's chain is walked inside the same
// transaction: when the chain contains userID the update would close a cycle
// and the assignment is refused.
func (r *PostgresUserRepository) AssignManager(ctx context.Context, userID, managerID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var cycle bool
	row := tx.QueryRow(ctx,
		`WITH RECURSIVE chain AS (
			SELECT id, manager_id FROM users WHERE id = $2
			UNION ALL
			SELECT u.id, u.manager_id FROM users u JOIN chain c ON u.id = c.manager_id
		)
		SELECT EXISTS (SELECT 1 FROM chain WHERE id = $1)`,
		userID, managerID,
	)
	if err := row.Scan(&cycle); err != nil {
		return err
	}
	if cycle {
		return user.ErrManagementCycle
	}

	affected, err := tx.Exec(ctx,
		`UPDATE users SET manager_id = $2, updated_at = now() WHERE id = $1`,
		userID, managerID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return user.ErrNotFound
	}

	return tx.Commit(ctx)
}

// Management returns one row per user; users with a manager sort before
// top-level users so the observed leaf-first ordering holds.
func (r *PostgresUserRepository) Management(ctx context.Context) ([]user.ManagementRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.manager_id, m.name, u.id, u.name
		 FROM users u
		 LEFT JOIN users m ON m.id = u.manager_id
		 ORDER BY (u.manager_id IS NULL) ASC, u.id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.ManagementRow, 0)
	for rows.Next() {
		var row user.ManagementRow
		if err := rows.Scan(&row.ManagerID, &row.ManagerName, &row.UserID, &row.UserName); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanUser(rows database.Rows) (user.User, error) {
	var u user.User
	err := rows.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash,
		&u.Address, &u.Diploma, &u.Phone, &u.EmployeeStartDate,
		&u.ManagerID, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func scanOneUser(row database.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash,
		&u.Address, &u.Diploma, &u.Phone, &u.EmployeeStartDate,
		&u.ManagerID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}
