package seeder

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/xebia-france/xskillz-v2/internal/database"
	"github.com/xebia-france/xskillz-v2/internal/pkg/permissions"

	"golang.org/x/crypto/bcrypt"
)

var defaultRoles = []string{permissions.Manager, permissions.Admin}

// Seed inserts the baseline roles and, when admin credentials are provided,
// an initial admin account holding both roles. Every insert is idempotent so
// the seeder can run on each deploy.
func Seed(ctx context.Context, db database.DB, adminEmail, adminName, adminPassword string, logger *log.Logger) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}

	for _, role := range defaultRoles {
		if _, err := db.Exec(ctx,
			`INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, role); err != nil {
			return fmt.Errorf("seed role %s: %w", role, err)
		}
	}

	adminEmail = strings.TrimSpace(adminEmail)
	if adminEmail == "" {
		if logger != nil {
			logger.Printf("[Seeder] no admin credentials, skipping admin account")
		}
		return nil
	}
	if adminName == "" {
		adminName = "Administrator"
	}
	if adminPassword == "" {
		return fmt.Errorf("admin email set but admin password empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, err := db.Exec(ctx,
		`INSERT INTO users (email, name, password_hash)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO NOTHING`,
		adminEmail, adminName, string(hash)); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	for _, role := range defaultRoles {
		if _, err := db.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_id)
			 SELECT u.id, r.id FROM users u, roles r
			 WHERE u.email = $1 AND r.name = $2
			 ON CONFLICT DO NOTHING`,
			adminEmail, role); err != nil {
			return fmt.Errorf("seed admin role %s: %w", role, err)
		}
	}

	if logger != nil {
		logger.Printf("[Seeder] admin account ensured: %s", adminEmail)
	}
	return nil
}
