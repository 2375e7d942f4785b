package reports

import "context"

// ListScope restricts a listing to what the actor may see. The service
// derives it from the actor role; the repository applies it in SQL so
// pagination counts stay correct.
type ListScope struct {
	// All disables ownership filtering (admin).
	All bool
	// EmployeeID restricts to reports owned by this employee.
	EmployeeID int64
	// IncludeDirectReports additionally admits reports whose owner's
	// manager is EmployeeID. One hierarchy level only.
	IncludeDirectReports bool
}

// Repository defines persistence operations for reports, visits and
// comments.
type Repository interface {
	Create(ctx context.Context, report Report, visits []VisitInput) (int64, error)
	GetDetail(ctx context.Context, id int64) (*Detail, error)
	List(ctx context.Context, req ListReportsRequest, scope ListScope, limit, offset int) ([]Report, int, error)
	Update(ctx context.Context, id int64, updates map[string]any, visits *[]VisitInput) error
	Delete(ctx context.Context, id int64) error

	// OwnershipFacts loads the owner and the owner's manager for one
	// report. Returns shared.ErrNotFound when the report is missing.
	OwnershipFacts(ctx context.Context, reportID int64) (*OwnershipFacts, error)

	AddComment(ctx context.Context, reportID, employeeID int64, body string) (*Comment, error)
	GetComment(ctx context.Context, commentID int64) (*Comment, error)
	DeleteComment(ctx context.Context, commentID int64) error
}
