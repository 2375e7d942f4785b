package customers

import (
	"context"
	"fmt"

	"golang.org/x/text/width"

	"github.com/nippo-cloud/nippo/internal/shared"
)

// Service wraps customer business rules. Any authenticated employee
// may manage customers; the handler enforces authentication.
type Service struct {
	repo *Repository
}

// NewService constructs a new Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// normalizeKana widens half-width katakana so the kana sort key is
// uniform regardless of how the reading was typed.
func normalizeKana(kana string) string {
	return width.Widen.String(kana)
}

func (s *Service) Create(ctx context.Context, req CreateCustomerRequest, createdBy int64) (*Customer, error) {
	customer := Customer{
		Name:      req.Name,
		Kana:      normalizeKana(req.Kana),
		Address:   req.Address,
		Phone:     req.Phone,
		Notes:     req.Notes,
		CreatedBy: createdBy,
	}
	id, err := s.repo.Create(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*Customer, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}

	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Kana != nil {
		updates["kana"] = normalizeKana(*req.Kana)
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListCustomersRequest) ([]Customer, shared.Pagination, error) {
	page := shared.NewPagination(req.Page, req.PerPage, 0)
	items, total, err := s.repo.List(ctx, req, page.PerPage, page.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(page.Page, page.PerPage, total), nil
}

// Delete removes a customer without visit records. This is a
// referential-integrity guard, not a role rule: anyone who can reach
// the endpoint may delete an unused customer.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return fmt.Errorf("get customer: %w", err)
	}
	inUse, err := s.repo.InUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("%w: customer has visit records", shared.ErrInUse)
	}
	return s.repo.Delete(ctx, id)
}
