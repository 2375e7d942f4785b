package auth

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nippo-cloud/nippo/internal/authz"
	"github.com/nippo-cloud/nippo/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials. Every failure mode
// returns the same error so responses cannot be used to enumerate
// accounts.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return account, nil
}

// ResolveActor turns the employee ID stored in the session into the
// actor used by the authorization policy. Looked up fresh on every
// request; role and manager edge are never cached across requests.
func (s *Service) ResolveActor(ctx context.Context, sessionUser string) (*authz.Actor, error) {
	raw := strings.TrimSpace(sessionUser)
	if raw == "" {
		return nil, shared.ErrNotFound
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("auth: parse session user %q: %w", raw, err)
	}
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, shared.ErrNotFound
	}
	role, err := authz.ParseRole(account.Role)
	if err != nil {
		return nil, err
	}
	return &authz.Actor{EmployeeID: account.ID, Role: role, ManagerID: account.ManagerID}, nil
}

// RegisterSession persists the session metadata in postgres.
func (s *Service) RegisterSession(ctx context.Context, id string, employeeID int64, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, employeeID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record from postgres.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}
