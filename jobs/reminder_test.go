package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
)

type fakeEnqueuer struct {
	sent []SendEmailPayload
	err  error
}

func (f *fakeEnqueuer) EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, payload)
	return &asynq.TaskInfo{}, nil
}

func TestReminderBusinessDate(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	job := NewReminderJob(nil, &fakeEnqueuer{}, nil, nil, loc)
	job.clock = func() time.Time {
		// 23:30 UTC is already the next day in JST.
		return time.Date(2026, 8, 28, 23, 30, 0, 0, time.UTC)
	}

	got, err := job.businessDate(ReportRemindPayload{})
	if err != nil {
		t.Fatalf("businessDate: %v", err)
	}
	if got != "2026-08-29" {
		t.Fatalf("expected JST date 2026-08-29, got %s", got)
	}

	got, err = job.businessDate(ReportRemindPayload{BusinessDate: "2026-08-01"})
	if err != nil || got != "2026-08-01" {
		t.Fatalf("explicit date: got %s, %v", got, err)
	}

	if _, err := job.businessDate(ReportRemindPayload{BusinessDate: "01-08-2026"}); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestReminderHandleRejectsBadPayload(t *testing.T) {
	job := NewReminderJob(nil, &fakeEnqueuer{}, nil, nil, nil)

	task := asynq.NewTask(TaskTypeReportRemind, []byte("{not json"))
	if err := job.Handle(context.Background(), task); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}

	task = asynq.NewTask(TaskTypeReportRemind, []byte(`{"business_date":"nope"}`))
	if err := job.Handle(context.Background(), task); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry for bad date, got %v", err)
	}
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func TestSendEmailJob(t *testing.T) {
	mailer := &fakeMailer{}
	job := &SendEmailJob{Mailer: mailer}

	task, err := NewSendEmailTask(SendEmailPayload{To: "tanaka@example.co.jp", Subject: "s", Body: "b"})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := job.Handle(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "tanaka@example.co.jp" {
		t.Fatalf("unexpected deliveries: %v", mailer.sent)
	}

	bad := asynq.NewTask(TaskTypeSendEmail, []byte("{"))
	if err := job.Handle(context.Background(), bad); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}

	mailer.err = errors.New("relay down")
	if err := job.Handle(context.Background(), task); err == nil {
		t.Fatal("expected delivery error to propagate for retry")
	}
}
