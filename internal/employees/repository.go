package employees

import "context"

// Repository defines persistence operations for the employee directory.
type Repository interface {
	Get(ctx context.Context, id int64) (*Employee, error)
	List(ctx context.Context, req ListEmployeesRequest, limit, offset int) ([]Employee, int, error)
	Create(ctx context.Context, emp Employee, passwordHash string) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error

	// InUse reports whether the employee is referenced by reports,
	// customers, comments or subordinates.
	InUse(ctx context.Context, id int64) (bool, error)
}
