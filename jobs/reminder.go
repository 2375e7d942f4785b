package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	jobmetrics "github.com/nippo-cloud/nippo/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// Enqueuer abstracts the queue client so the scan can be tested without
// Redis.
type Enqueuer interface {
	EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) (*asynq.TaskInfo, error)
}

// ReminderJob finds active sales employees without a submitted report
// for the business date and enqueues one reminder mail each.
type ReminderJob struct {
	Pool     *pgxpool.Pool
	Enqueuer Enqueuer
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
	Location *time.Location
	clock    func() time.Time
}

// NewReminderJob wires dependencies for the reminder handler.
func NewReminderJob(pool *pgxpool.Pool, enqueuer Enqueuer, logger *slog.Logger, metrics *jobmetrics.Metrics, loc *time.Location) *ReminderJob {
	return &ReminderJob{
		Pool:     pool,
		Enqueuer: enqueuer,
		Logger:   logger,
		Metrics:  metrics,
		Location: loc,
		clock:    time.Now,
	}
}

type reminderTarget struct {
	EmployeeID int64
	Name       string
	Email      string
}

// Handle processes TaskTypeReportRemind tasks.
func (j *ReminderJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("report remind: handler not configured")
	}
	var payload ReportRemindPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	businessDate, err := j.businessDate(payload)
	if err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskTypeReportRemind)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("business_date", businessDate))
	logger.Info("starting reminder scan")

	targets, err := j.fetchTargets(ctx, businessDate)
	if err != nil {
		resultErr = err
		logger.Error("load reminder targets", slog.Any("error", err))
		return resultErr
	}
	if len(targets) == 0 {
		logger.Info("all reports submitted")
		return resultErr
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(4)
	for _, target := range targets {
		group.Go(func() error {
			_, err := j.Enqueuer.EnqueueSendEmail(groupCtx, SendEmailPayload{
				To:      target.Email,
				Subject: fmt.Sprintf("【リマインド】%s の日報が未提出です", businessDate),
				Body:    target.Name + " さん\n\n本日の日報がまだ提出されていません。退勤前に提出をお願いします。",
			})
			return err
		})
	}
	if err := group.Wait(); err != nil {
		resultErr = err
		logger.Error("enqueue reminders", slog.Any("error", err))
		return resultErr
	}

	j.metrics().AddReminders(len(targets))
	logger.Info("completed reminder scan", slog.Int("reminders", len(targets)))
	return resultErr
}

func (j *ReminderJob) fetchTargets(ctx context.Context, businessDate string) ([]reminderTarget, error) {
	if j.Pool == nil {
		return nil, errors.New("report remind: pool not configured")
	}
	rows, err := j.Pool.Query(ctx, `
		SELECT e.id, e.name, e.email
		FROM employees e
		WHERE e.role = 'sales'
		  AND e.is_active
		  AND NOT EXISTS (
			SELECT 1 FROM reports r
			WHERE r.employee_id = e.id AND r.report_date = $1
		  )
		ORDER BY e.id`, businessDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	targets := make([]reminderTarget, 0)
	for rows.Next() {
		var target reminderTarget
		if err := rows.Scan(&target.EmployeeID, &target.Name, &target.Email); err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return targets, nil
}

func (j *ReminderJob) businessDate(payload ReportRemindPayload) (string, error) {
	if payload.BusinessDate != "" {
		if _, err := time.Parse("2006-01-02", payload.BusinessDate); err != nil {
			return "", err
		}
		return payload.BusinessDate, nil
	}
	loc := j.Location
	if loc == nil {
		loc = time.Local
	}
	return j.now().In(loc).Format("2006-01-02"), nil
}

func (j *ReminderJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeReportRemind))
	}
	return slog.Default().With(slog.String("job", TaskTypeReportRemind))
}

func (j *ReminderJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ReminderJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now()
}
