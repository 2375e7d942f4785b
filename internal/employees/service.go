package employees

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/width"

	"github.com/nippo-cloud/nippo/internal/authz"
	"github.com/nippo-cloud/nippo/internal/shared"
)

// Service wraps directory business rules. Authorization is enforced
// upstream: the whole surface is mounted behind the admin guard.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// normalizeEmail folds full-width characters typed from Japanese IMEs
// into their half-width forms before the value hits the unique index.
func normalizeEmail(email string) string {
	return width.Fold.String(email)
}

func (s *Service) Create(ctx context.Context, req CreateEmployeeRequest) (*Employee, error) {
	role, err := authz.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	if req.ManagerID != nil {
		if err := s.validateManager(ctx, *req.ManagerID, 0); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	emp := Employee{
		Name:      req.Name,
		Email:     normalizeEmail(req.Email),
		Role:      string(role),
		ManagerID: req.ManagerID,
		IsActive:  true,
	}
	id, err := s.repo.Create(ctx, emp, string(hash))
	if err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateEmployeeRequest) (*Employee, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}

	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = normalizeEmail(*req.Email)
	}
	if req.Role != nil {
		role, err := authz.ParseRole(*req.Role)
		if err != nil {
			return nil, err
		}
		updates["role"] = string(role)
	}
	if req.ClearManager {
		updates["manager_id"] = nil
	} else if req.ManagerID != nil {
		if err := s.validateManager(ctx, *req.ManagerID, id); err != nil {
			return nil, err
		}
		updates["manager_id"] = *req.ManagerID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updates["password_hash"] = string(hash)
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Employee, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListEmployeesRequest) ([]Employee, shared.Pagination, error) {
	page := shared.NewPagination(req.Page, req.PerPage, 0)
	items, total, err := s.repo.List(ctx, req, page.PerPage, page.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(page.Page, page.PerPage, total), nil
}

// Delete removes an employee that owns no data. Employees referenced by
// reports, customers, comments or subordinates stay deletable only
// after those references move; deactivation is the usual path instead.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return fmt.Errorf("get employee: %w", err)
	}
	inUse, err := s.repo.InUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("%w: employee has related records", shared.ErrInUse)
	}
	return s.repo.Delete(ctx, id)
}

// validateManager checks that the hierarchy edge points at an existing
// manager-role employee and never at the employee itself. All failures
// are the caller's input being wrong, so they surface as validation
// errors rather than not-found or internal ones.
func (s *Service) validateManager(ctx context.Context, managerID, selfID int64) error {
	if managerID == selfID {
		return fmt.Errorf("%w: employee cannot be their own manager", shared.ErrInvalidInput)
	}
	mgr, err := s.repo.Get(ctx, managerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("%w: manager not found", shared.ErrInvalidInput)
		}
		return fmt.Errorf("get manager: %w", err)
	}
	if mgr.Role != string(authz.RoleManager) && mgr.Role != string(authz.RoleAdmin) {
		return fmt.Errorf("%w: manager must have manager or admin role", shared.ErrInvalidInput)
	}
	return nil
}
