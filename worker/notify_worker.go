package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"time"

	"storefront/libs"
	"storefront/models"
	"storefront/services"
)

type Popper interface {
	Pop(ctx context.Context, timeout time.Duration) ([]byte, error)
}

type CustomerLister interface {
	ListCustomerEmails(ctx context.Context) ([]string, error)
}

// NotifyWorker drains the customer notification queue. Each task is handled
// once; a failed send is logged and the batch moves on.
type NotifyWorker struct {
	queue       Popper
	users       CustomerLister
	mailer      services.Mailer
	log         *libs.Logger
	PollTimeout time.Duration
	RetryDelay  time.Duration
}

func NewNotifyWorker(queue Popper, users CustomerLister, mailer services.Mailer, log *libs.Logger) *NotifyWorker {
	if log == nil {
		log = libs.NewNopLogger()
	}
	return &NotifyWorker{
		queue:       queue,
		users:       users,
		mailer:      mailer,
		log:         log.With("worker", "notify_customers"),
		PollTimeout: 5 * time.Second,
		RetryDelay:  time.Second,
	}
}

func (w *NotifyWorker) Run(ctx context.Context) {
	w.log.Info("notify worker started")
	defer w.log.Info("notify worker stopped")

	for {
		if ctx.Err() != nil {
			return
		}
		payload, err := w.queue.Pop(ctx, w.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Warn("queue pop failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.RetryDelay):
			}
			continue
		}
		if payload == nil {
			continue
		}
		if _, err := w.Handle(ctx, payload); err != nil {
			w.log.Error("notification task failed", "error", err)
		}
	}
}

// Handle sends one task to every customer and reports how many emails went out.
func (w *NotifyWorker) Handle(ctx context.Context, payload []byte) (int, error) {
	var task models.NotifyCustomersTask
	if err := json.Unmarshal(payload, &task); err != nil {
		return 0, fmt.Errorf("decode task: %w", err)
	}
	if w.mailer == nil {
		return 0, errors.New("mailer not configured")
	}

	emails, err := w.users.ListCustomerEmails(ctx)
	if err != nil {
		return 0, fmt.Errorf("list customers: %w", err)
	}

	body := fmt.Sprintf("<p>%s</p>", html.EscapeString(task.Message))
	sent := 0
	for _, to := range emails {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		err := w.mailer.Send(libs.Email{To: []string{to}, Subject: task.Subject, HTMLBody: body})
		if err != nil {
			w.log.Warn("notification email failed", "task_id", task.ID, "to", to, "error", err)
			continue
		}
		sent++
	}
	w.log.Info("notification task done", "task_id", task.ID, "sent", sent, "customers", len(emails))
	return sent, nil
}
