package database

import "context"

// Reset empties every application table and restarts identity sequences.
// Intended for test isolation only; a single TRUNCATE keeps it transactional
// so a reset either fully applies or leaves the schema untouched.
func Reset(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx,
		`TRUNCATE TABLE user_skills, user_roles, roles, skills, users RESTART IDENTITY CASCADE`)
	return err
}
