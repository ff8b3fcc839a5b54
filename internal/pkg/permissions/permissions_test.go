package permissions

import "testing"

func TestHasRole(t *testing.T) {
	me := &Me{ID: 1, Email: "jsmadja@xebia.fr", Name: "Julien Smadja", Roles: []string{"manager"}}

	if !HasRole(me, "manager") {
		t.Fatalf("expected manager role to match")
	}
	if !HasRole(me, "Manager") {
		t.Fatalf("expected case-insensitive match")
	}
	if !HasRole(me, "/manager") {
		t.Fatalf("expected leading separator to be stripped")
	}
	if HasRole(me, "admin") {
		t.Fatalf("did not expect admin role")
	}
}

func TestHasRole_RoutePath(t *testing.T) {
	me := &Me{Roles: []string{"management", "skills"}}

	if !HasRole(me, "/management") {
		t.Fatalf("expected route path to match role")
	}
	if HasRole(me, "/settings") {
		t.Fatalf("did not expect settings role")
	}
}

func TestHasRole_NoUser(t *testing.T) {
	if HasRole(nil, "manager") {
		t.Fatalf("nil user must not hold any role")
	}
	if HasRole(&Me{}, "manager") {
		t.Fatalf("user without roles must not hold any role")
	}
	if HasRole(&Me{Roles: []string{"manager"}}, "") {
		t.Fatalf("empty role must never match")
	}
	if HasRole(&Me{Roles: []string{"manager"}}, "/") {
		t.Fatalf("bare separator must never match")
	}
}
