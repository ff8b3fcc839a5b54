// Package permissions implements the pure role check used by the web layer:
// a required role (often a route path like "/management") is compared against
// the roles of the already-fetched current user. No storage access happens
// here.
package permissions

import "strings"

// Well-known role names. Route paths map onto these directly once the
// leading separator is stripped.
const (
	Manager = "manager"
	Admin   = "admin"
)

// Me is the locally cached record of the signed-in user.
type Me struct {
	ID    int64    `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// HasRole reports whether me holds the required role. The comparison is
// case-insensitive and leading path separators in role are stripped, so
// "/Management" matches the "management" role.
func HasRole(me *Me, role string) bool {
	if me == nil || len(me.Roles) == 0 {
		return false
	}

	normalized := Normalize(role)
	if normalized == "" {
		return false
	}

	for _, r := range me.Roles {
		if strings.ToLower(r) == normalized {
			return true
		}
	}
	return false
}

func Normalize(role string) string {
	return strings.ToLower(strings.TrimLeft(strings.TrimSpace(role), "/"))
}
