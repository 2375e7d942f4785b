package employees

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nippo-cloud/nippo/internal/shared"
)

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

var _ Repository = (*PGRepository)(nil)

const employeeColumns = `id, name, email, role, manager_id, is_active, created_at, updated_at`

func scanEmployee(row pgx.Row) (*Employee, error) {
	var emp Employee
	err := row.Scan(&emp.ID, &emp.Name, &emp.Email, &emp.Role, &emp.ManagerID, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &emp, nil
}

// Get returns one employee by ID.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Employee, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	return scanEmployee(row)
}

// List returns directory entries matching the filter plus the total count.
func (r *PGRepository) List(ctx context.Context, req ListEmployeesRequest, limit, offset int) ([]Employee, int, error) {
	var conds []string
	var args []any
	if req.Role != nil {
		args = append(args, *req.Role)
		conds = append(conds, "role = $"+strconv.Itoa(len(args)))
	}
	if req.IsActive != nil {
		args = append(args, *req.IsActive)
		conds = append(conds, "is_active = $"+strconv.Itoa(len(args)))
	}
	if req.Search != nil {
		args = append(args, "%"+*req.Search+"%")
		n := strconv.Itoa(len(args))
		conds = append(conds, "(name ILIKE $"+n+" OR email ILIKE $"+n+")")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM employees`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}

	args = append(args, limit, offset)
	query := `SELECT ` + employeeColumns + ` FROM employees` + where +
		` ORDER BY id LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var result []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.Email, &emp.Role, &emp.ManagerID, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// Create inserts a new employee and returns its ID.
func (r *PGRepository) Create(ctx context.Context, emp Employee, passwordHash string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO employees (name, email, password_hash, role, manager_id, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now(), now()) RETURNING id`,
		emp.Name, emp.Email, passwordHash, emp.Role, emp.ManagerID, emp.IsActive).Scan(&id)
	if err != nil {
		return 0, mapUniqueViolation(err)
	}
	return id, nil
}

// Update applies column updates to one employee.
func (r *PGRepository) Update(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	sets := make([]string, 0, len(updates)+1)
	args := make([]any, 0, len(updates)+1)
	for col, val := range updates {
		args = append(args, val)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)
	query := `UPDATE employees SET ` + strings.Join(sets, ", ") + ` WHERE id = $` + strconv.Itoa(len(args))
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes one employee.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// InUse reports whether the employee is referenced by reports,
// customers, comments or subordinates. Such employees cannot be
// deleted, only deactivated.
func (r *PGRepository) InUse(ctx context.Context, id int64) (bool, error) {
	var inUse bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM reports WHERE employee_id = $1)
		    OR EXISTS (SELECT 1 FROM customers WHERE created_by = $1)
		    OR EXISTS (SELECT 1 FROM comments WHERE employee_id = $1)
		    OR EXISTS (SELECT 1 FROM employees WHERE manager_id = $1)`, id).Scan(&inUse)
	if err != nil {
		return false, fmt.Errorf("employee in use: %w", err)
	}
	return inUse, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: email", shared.ErrAlreadyExists)
	}
	return err
}
