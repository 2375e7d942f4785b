package reports

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nippo-cloud/nippo/internal/platform/db"
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

// Create inserts a report with its visits in one transaction. The
// unique (employee_id, report_date) index rejects a second report for
// the same day.
func (r *PGRepository) Create(ctx context.Context, report Report, visits []VisitInput) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO reports (employee_id, report_date, problem, plan, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, now(), now()) RETURNING id`,
			report.EmployeeID, report.ReportDate, report.Problem, report.Plan).Scan(&id)
		if err != nil {
			return err
		}
		return insertVisits(ctx, tx, id, visits)
	})
	if err != nil {
		return 0, mapUniqueViolation(err)
	}
	return id, nil
}

// mapUniqueViolation converts the (employee_id, report_date) unique
// index violation into the conflict sentinel.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: report for this date", shared.ErrAlreadyExists)
	}
	return err
}

// GetDetail returns a report with visits and comments.
func (r *PGRepository) GetDetail(ctx context.Context, id int64) (*Detail, error) {
	var detail Detail
	row := r.pool.QueryRow(ctx, `
		SELECT r.id, r.employee_id, e.name, r.report_date, r.problem, r.plan, r.created_at, r.updated_at
		FROM reports r
		JOIN employees e ON e.id = r.employee_id
		WHERE r.id = $1`, id)
	rep := &detail.Report
	err := row.Scan(&rep.ID, &rep.EmployeeID, &rep.EmployeeName, &rep.ReportDate, &rep.Problem, &rep.Plan, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	visitRows, err := r.pool.Query(ctx, `
		SELECT v.id, v.report_id, v.customer_id, c.name, v.content, v.note
		FROM visits v
		JOIN customers c ON c.id = v.customer_id
		WHERE v.report_id = $1
		ORDER BY v.id`, id)
	if err != nil {
		return nil, fmt.Errorf("load visits: %w", err)
	}
	defer visitRows.Close()
	for visitRows.Next() {
		var v Visit
		if err := visitRows.Scan(&v.ID, &v.ReportID, &v.CustomerID, &v.CustomerName, &v.Content, &v.Note); err != nil {
			return nil, err
		}
		detail.Visits = append(detail.Visits, v)
	}
	if err := visitRows.Err(); err != nil {
		return nil, err
	}

	commentRows, err := r.pool.Query(ctx, `
		SELECT c.id, c.report_id, c.employee_id, e.name, c.body, c.created_at
		FROM comments c
		JOIN employees e ON e.id = c.employee_id
		WHERE c.report_id = $1
		ORDER BY c.created_at, c.id`, id)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	defer commentRows.Close()
	for commentRows.Next() {
		var c Comment
		if err := commentRows.Scan(&c.ID, &c.ReportID, &c.EmployeeID, &c.EmployeeName, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		detail.Comments = append(detail.Comments, c)
	}
	if err := commentRows.Err(); err != nil {
		return nil, err
	}
	return &detail, nil
}

// List returns reports visible under the scope, newest first.
func (r *PGRepository) List(ctx context.Context, req ListReportsRequest, scope ListScope, limit, offset int) ([]Report, int, error) {
	var conds []string
	var args []any

	if !scope.All {
		args = append(args, scope.EmployeeID)
		n := strconv.Itoa(len(args))
		if scope.IncludeDirectReports {
			conds = append(conds, "(r.employee_id = $"+n+" OR e.manager_id = $"+n+")")
		} else {
			conds = append(conds, "r.employee_id = $"+n)
		}
	}
	if req.From != nil {
		from, err := time.Parse("2006-01-02", *req.From)
		if err != nil {
			return nil, 0, fmt.Errorf("parse from date: %w", err)
		}
		args = append(args, from)
		conds = append(conds, "r.report_date >= $"+strconv.Itoa(len(args)))
	}
	if req.To != nil {
		to, err := time.Parse("2006-01-02", *req.To)
		if err != nil {
			return nil, 0, fmt.Errorf("parse to date: %w", err)
		}
		args = append(args, to)
		conds = append(conds, "r.report_date <= $"+strconv.Itoa(len(args)))
	}
	if req.EmployeeID != nil {
		args = append(args, *req.EmployeeID)
		conds = append(conds, "r.employee_id = $"+strconv.Itoa(len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	base := ` FROM reports r JOIN employees e ON e.id = r.employee_id` + where

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*)`+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	args = append(args, limit, offset)
	query := `SELECT r.id, r.employee_id, e.name, r.report_date, r.problem, r.plan, r.created_at, r.updated_at` +
		base + ` ORDER BY r.report_date DESC, r.id DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var result []Report
	for rows.Next() {
		var rep Report
		if err := rows.Scan(&rep.ID, &rep.EmployeeID, &rep.EmployeeName, &rep.ReportDate, &rep.Problem, &rep.Plan, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// Update applies column updates and, when visits is non-nil, replaces
// the visit list, all in one transaction.
func (r *PGRepository) Update(ctx context.Context, id int64, updates map[string]any, visits *[]VisitInput) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if len(updates) > 0 {
			sets := make([]string, 0, len(updates)+1)
			args := make([]any, 0, len(updates)+1)
			for col, val := range updates {
				args = append(args, val)
				sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
			}
			sets = append(sets, "updated_at = now()")
			args = append(args, id)
			query := `UPDATE reports SET ` + strings.Join(sets, ", ") + ` WHERE id = $` + strconv.Itoa(len(args))
			tag, err := tx.Exec(ctx, query, args...)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return shared.ErrNotFound
			}
		}
		if visits != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM visits WHERE report_id = $1`, id); err != nil {
				return err
			}
			if err := insertVisits(ctx, tx, id, *visits); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a report; visits and comments cascade.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// OwnershipFacts loads the owner and the owner's manager for one report.
func (r *PGRepository) OwnershipFacts(ctx context.Context, reportID int64) (*OwnershipFacts, error) {
	var facts OwnershipFacts
	err := r.pool.QueryRow(ctx, `
		SELECT r.employee_id, e.manager_id
		FROM reports r
		JOIN employees e ON e.id = r.employee_id
		WHERE r.id = $1`, reportID).Scan(&facts.OwnerEmployeeID, &facts.OwnerManagerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &facts, nil
}

// AddComment inserts a comment and returns it with the commenter name.
func (r *PGRepository) AddComment(ctx context.Context, reportID, employeeID int64, body string) (*Comment, error) {
	var comment Comment
	err := r.pool.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO comments (report_id, employee_id, body, created_at)
			VALUES ($1, $2, $3, now())
			RETURNING id, report_id, employee_id, body, created_at
		)
		SELECT i.id, i.report_id, i.employee_id, e.name, i.body, i.created_at
		FROM inserted i
		JOIN employees e ON e.id = i.employee_id`,
		reportID, employeeID, body).Scan(&comment.ID, &comment.ReportID, &comment.EmployeeID, &comment.EmployeeName, &comment.Body, &comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &comment, nil
}

// GetComment returns one comment by ID.
func (r *PGRepository) GetComment(ctx context.Context, commentID int64) (*Comment, error) {
	var comment Comment
	err := r.pool.QueryRow(ctx, `
		SELECT c.id, c.report_id, c.employee_id, e.name, c.body, c.created_at
		FROM comments c
		JOIN employees e ON e.id = c.employee_id
		WHERE c.id = $1`, commentID).Scan(&comment.ID, &comment.ReportID, &comment.EmployeeID, &comment.EmployeeName, &comment.Body, &comment.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes one comment.
func (r *PGRepository) DeleteComment(ctx context.Context, commentID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func insertVisits(ctx context.Context, tx pgx.Tx, reportID int64, visits []VisitInput) error {
	for _, v := range visits {
		if _, err := tx.Exec(ctx,
			`INSERT INTO visits (report_id, customer_id, content, note) VALUES ($1, $2, $3, $4)`,
			reportID, v.CustomerID, v.Content, v.Note); err != nil {
			return fmt.Errorf("insert visit: %w", err)
		}
	}
	return nil
}
