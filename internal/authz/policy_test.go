package authz

import (
	"errors"
	"testing"
)

func ptr(v int64) *int64 { return &v }

func denyCode(t *testing.T, err error) Code {
	t.Helper()
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected policy error, got %v", err)
	}
	return pe.Code
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"sales", "manager", "admin"} {
		role, err := ParseRole(s)
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", s, err)
		}
		if !role.Valid() {
			t.Fatalf("role %q not valid", s)
		}
	}
	if _, err := ParseRole("superuser"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
	if _, err := ParseRole(""); err == nil {
		t.Fatalf("expected error for empty role")
	}
}

func TestAuthorizeViewReport(t *testing.T) {
	tests := []struct {
		name    string
		actor   *Actor
		ownerID int64
		mgrID   *int64
		allow   bool
	}{
		{"sales views own", &Actor{EmployeeID: 1, Role: RoleSales}, 1, nil, true},
		{"sales views other", &Actor{EmployeeID: 1, Role: RoleSales}, 2, nil, false},
		{"sales views subordinate-shaped facts", &Actor{EmployeeID: 1, Role: RoleSales}, 2, ptr(1), false},
		{"manager views own", &Actor{EmployeeID: 10, Role: RoleManager}, 10, nil, true},
		{"manager views direct report", &Actor{EmployeeID: 10, Role: RoleManager}, 20, ptr(10), true},
		{"manager views other team", &Actor{EmployeeID: 10, Role: RoleManager}, 20, ptr(99), false},
		{"manager views unmanaged owner", &Actor{EmployeeID: 10, Role: RoleManager}, 20, nil, false},
		{"admin views unrelated", &Actor{EmployeeID: 3, Role: RoleAdmin}, 999, ptr(888), true},
		{"admin views own", &Actor{EmployeeID: 3, Role: RoleAdmin}, 3, nil, true},
		{"actor without employee identity", &Actor{Role: RoleManager}, 20, ptr(10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeViewReport(tt.actor, tt.ownerID, tt.mgrID)
			if tt.allow && err != nil {
				t.Fatalf("expected allow, got %v", err)
			}
			if !tt.allow {
				if err == nil {
					t.Fatalf("expected deny")
				}
				if code := denyCode(t, err); code != CodeForbidden {
					t.Fatalf("expected FORBIDDEN, got %s", code)
				}
			}
			if got := CanViewReport(tt.actor, tt.ownerID, tt.mgrID); got != tt.allow {
				t.Fatalf("CanViewReport = %v, want %v", got, tt.allow)
			}
		})
	}
}

func TestAuthorizeViewReport_ManagerEdgeIsExact(t *testing.T) {
	actor := &Actor{EmployeeID: 10, Role: RoleManager}
	for _, mgrID := range []*int64{ptr(10), ptr(11), ptr(0), nil} {
		err := AuthorizeViewReport(actor, 20, mgrID)
		allowed := mgrID != nil && *mgrID == 10
		if allowed != (err == nil) {
			t.Fatalf("ownerManagerID=%v: allow=%v, want %v", mgrID, err == nil, allowed)
		}
	}
}

func TestAuthorizeEditReport_OwnershipOnly(t *testing.T) {
	// Role-independent: admin gets no bypass on edit/delete.
	for _, role := range []Role{RoleSales, RoleManager, RoleAdmin} {
		actor := &Actor{EmployeeID: 1, Role: role}
		if err := AuthorizeEditReport(actor, 1); err != nil {
			t.Fatalf("role %s edit own: %v", role, err)
		}
		err := AuthorizeEditReport(actor, 2)
		if err == nil {
			t.Fatalf("role %s must not edit someone else's report", role)
		}
		var pe *Error
		if !errors.As(err, &pe) || pe.Code != CodeForbidden {
			t.Fatalf("unexpected error %v", err)
		}
		if pe.Message != "自分の日報のみ編集できます" {
			t.Fatalf("unexpected message %q", pe.Message)
		}
	}
}

func TestAuthorizeComment(t *testing.T) {
	if err := AuthorizeComment(&Actor{EmployeeID: 10, Role: RoleManager}); err != nil {
		t.Fatalf("manager comment: %v", err)
	}
	if err := AuthorizeComment(&Actor{EmployeeID: 3, Role: RoleAdmin}); err != nil {
		t.Fatalf("admin comment: %v", err)
	}
	err := AuthorizeComment(&Actor{EmployeeID: 1, Role: RoleSales})
	var pe *Error
	if !errors.As(err, &pe) || pe.Code != CodeForbidden {
		t.Fatalf("sales comment: expected FORBIDDEN, got %v", err)
	}
	if pe.Message != "コメントを投稿する権限がありません" {
		t.Fatalf("unexpected message %q", pe.Message)
	}
	if CanComment(nil) {
		t.Fatalf("nil actor must not comment")
	}
}

func TestAuthorizeDeleteComment(t *testing.T) {
	for _, role := range []Role{RoleSales, RoleManager, RoleAdmin} {
		actor := &Actor{EmployeeID: 5, Role: role}
		if err := AuthorizeDeleteComment(actor, 5); err != nil {
			t.Fatalf("role %s delete own comment: %v", role, err)
		}
		if err := AuthorizeDeleteComment(actor, 6); err == nil {
			t.Fatalf("role %s must not delete someone else's comment", role)
		}
	}
}

func TestAuthorizeEmployeeManagement(t *testing.T) {
	if err := AuthorizeEmployeeManagement(&Actor{EmployeeID: 3, Role: RoleAdmin}); err != nil {
		t.Fatalf("admin: %v", err)
	}
	for _, role := range []Role{RoleSales, RoleManager} {
		err := AuthorizeEmployeeManagement(&Actor{EmployeeID: 1, Role: role})
		if code := denyCode(t, err); code != CodeForbidden {
			t.Fatalf("role %s: expected FORBIDDEN, got %s", role, code)
		}
	}
}

func TestNilActorAlwaysUnauthorized(t *testing.T) {
	// A missing actor short-circuits to UNAUTHORIZED before any
	// role or ownership rule could produce FORBIDDEN.
	checks := map[string]error{
		"view":                AuthorizeViewReport(nil, 1, nil),
		"edit":                AuthorizeEditReport(nil, 1),
		"comment":             AuthorizeComment(nil),
		"delete comment":      AuthorizeDeleteComment(nil, 1),
		"employee management": AuthorizeEmployeeManagement(nil),
		"authenticated":       RequireAuthenticated(nil),
	}
	for name, err := range checks {
		if code := denyCode(t, err); code != CodeUnauthorized {
			t.Fatalf("%s: expected UNAUTHORIZED, got %s", name, code)
		}
		var pe *Error
		errors.As(err, &pe)
		if pe.Message != "認証が必要です" {
			t.Fatalf("%s: unexpected message %q", name, pe.Message)
		}
	}
}

func TestDecisionsAreIdempotent(t *testing.T) {
	actor := &Actor{EmployeeID: 10, Role: RoleManager, ManagerID: ptr(2)}
	first := AuthorizeViewReport(actor, 20, ptr(99))
	second := AuthorizeViewReport(actor, 20, ptr(99))
	if !errors.Is(first, second) {
		t.Fatalf("expected identical decisions, got %v and %v", first, second)
	}
	if CanEditReport(actor, 10) != CanEditReport(actor, 10) {
		t.Fatalf("predicate not stable")
	}
}
