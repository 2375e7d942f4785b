package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/nippo-cloud/nippo/internal/authz"
	"github.com/nippo-cloud/nippo/internal/shared"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuthenticateUniformFailure(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	inactive := &Account{ID: 2, Email: "left@example.co.jp", PasswordHash: string(hash), Role: "sales", IsActive: false}
	active := &Account{ID: 1, Email: "sales1@example.co.jp", PasswordHash: string(hash), Role: "sales", IsActive: true}
	svc := NewService(newMemoryRepo(active, inactive))
	ctx := context.Background()

	if _, err := svc.Authenticate(ctx, "sales1@example.co.jp", "password123"); err != nil {
		t.Fatalf("valid login: %v", err)
	}

	// Unknown account, wrong password and deactivated account all fail
	// with the same error.
	cases := [][2]string{
		{"nobody@example.co.jp", "password123"},
		{"sales1@example.co.jp", "wrongpass1"},
		{"left@example.co.jp", "password123"},
	}
	for _, c := range cases {
		_, err := svc.Authenticate(ctx, c[0], c[1])
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", c[0], err)
		}
	}
}

func TestResolveActor(t *testing.T) {
	managerID := int64(10)
	acc := &Account{ID: 20, Email: "sales1@example.co.jp", Role: "sales", ManagerID: &managerID, IsActive: true}
	svc := NewService(newMemoryRepo(acc))
	ctx := context.Background()

	actor, err := svc.ResolveActor(ctx, "20")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if actor.EmployeeID != 20 || actor.Role != authz.RoleSales {
		t.Fatalf("unexpected actor: %+v", actor)
	}
	if actor.ManagerID == nil || *actor.ManagerID != 10 {
		t.Fatalf("expected manager edge, got %v", actor.ManagerID)
	}

	if _, err := svc.ResolveActor(ctx, ""); !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("empty user: %v", err)
	}
	if _, err := svc.ResolveActor(ctx, "999"); !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("missing account: %v", err)
	}
	if _, err := svc.ResolveActor(ctx, "abc"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestResolveActorRejectsInactive(t *testing.T) {
	acc := &Account{ID: 20, Email: "left@example.co.jp", Role: "sales", IsActive: false}
	svc := NewService(newMemoryRepo(acc))

	if _, err := svc.ResolveActor(context.Background(), "20"); !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("inactive account: %v", err)
	}
}
