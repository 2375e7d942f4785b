package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/nippo-cloud/nippo/internal/authz"
	"github.com/nippo-cloud/nippo/internal/shared"
)

// Service wraps daily-report business rules. Every operation takes the
// actor explicitly and loads ownership facts fresh before asking the
// policy; the facts are current as of the check, not as of request
// start.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new report owned by the actor. Anyone
// authenticated may write their own report; ownership is the actor
// identity and cannot be set to someone else.
func (s *Service) Create(ctx context.Context, actor *authz.Actor, req CreateReportRequest) (*Detail, error) {
	if err := authz.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	reportDate, err := time.Parse("2006-01-02", req.ReportDate)
	if err != nil {
		return nil, fmt.Errorf("parse report date: %w", err)
	}
	report := Report{
		EmployeeID: actor.EmployeeID,
		ReportDate: reportDate,
		Problem:    req.Problem,
		Plan:       req.Plan,
	}
	id, err := s.repo.Create(ctx, report, req.Visits)
	if err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	return s.repo.GetDetail(ctx, id)
}

// Get returns one report after the view check.
func (s *Service) Get(ctx context.Context, actor *authz.Actor, id int64) (*Detail, error) {
	facts, err := s.repo.OwnershipFacts(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.AuthorizeViewReport(actor, facts.OwnerEmployeeID, facts.OwnerManagerID); err != nil {
		return nil, err
	}
	return s.repo.GetDetail(ctx, id)
}

// List returns the reports the actor may see. The scope mirrors the
// view rule so a listing never contains a report Get would refuse.
func (s *Service) List(ctx context.Context, actor *authz.Actor, req ListReportsRequest) ([]Report, shared.Pagination, error) {
	if err := authz.RequireAuthenticated(actor); err != nil {
		return nil, shared.Pagination{}, err
	}
	var scope ListScope
	switch actor.Role {
	case authz.RoleAdmin:
		scope = ListScope{All: true}
	case authz.RoleManager:
		scope = ListScope{EmployeeID: actor.EmployeeID, IncludeDirectReports: true}
	case authz.RoleSales:
		scope = ListScope{EmployeeID: actor.EmployeeID}
	default:
		return nil, shared.Pagination{}, fmt.Errorf("reports: unknown role %q", actor.Role)
	}

	page := shared.NewPagination(req.Page, req.PerPage, 0)
	items, total, err := s.repo.List(ctx, req, scope, page.PerPage, page.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(page.Page, page.PerPage, total), nil
}

// Update edits a report under the strict ownership rule.
func (s *Service) Update(ctx context.Context, actor *authz.Actor, id int64, req UpdateReportRequest) (*Detail, error) {
	facts, err := s.repo.OwnershipFacts(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.AuthorizeEditReport(actor, facts.OwnerEmployeeID); err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.Problem != nil {
		updates["problem"] = *req.Problem
	}
	if req.Plan != nil {
		updates["plan"] = *req.Plan
	}
	if err := s.repo.Update(ctx, id, updates, req.Visits); err != nil {
		return nil, fmt.Errorf("update report: %w", err)
	}
	return s.repo.GetDetail(ctx, id)
}

// Delete removes a report. Same predicate as Update: ownership only,
// no role elevates it.
func (s *Service) Delete(ctx context.Context, actor *authz.Actor, id int64) error {
	facts, err := s.repo.OwnershipFacts(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.AuthorizeEditReport(actor, facts.OwnerEmployeeID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AddComment posts a comment. The view check runs first as an explicit
// precondition, then the comment rule; the comment rule itself stays
// independent of the target report.
func (s *Service) AddComment(ctx context.Context, actor *authz.Actor, reportID int64, req AddCommentRequest) (*Comment, error) {
	facts, err := s.repo.OwnershipFacts(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if err := authz.AuthorizeViewReport(actor, facts.OwnerEmployeeID, facts.OwnerManagerID); err != nil {
		return nil, err
	}
	if err := authz.AuthorizeComment(actor); err != nil {
		return nil, err
	}
	return s.repo.AddComment(ctx, reportID, actor.EmployeeID, req.Body)
}

// DeleteComment removes a comment under strict commenter ownership.
func (s *Service) DeleteComment(ctx context.Context, actor *authz.Actor, commentID int64) error {
	comment, err := s.repo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if err := authz.AuthorizeDeleteComment(actor, comment.EmployeeID); err != nil {
		return err
	}
	return s.repo.DeleteComment(ctx, commentID)
}
