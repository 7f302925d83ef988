package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"storefront/models"

	"github.com/google/uuid"
)

const defaultNotifySubject = "A message from the store"

// NotificationService hands customer notifications to the queue and returns
// without waiting for delivery.
type NotificationService struct {
	publisher Publisher
}

func NewNotificationService(publisher Publisher) *NotificationService {
	return &NotificationService{publisher: publisher}
}

func (s *NotificationService) NotifyCustomers(ctx context.Context, requestedBy int, req models.NotifyCustomersRequest) (*models.NotifyCustomersTask, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, models.FieldInvalid("message", msgBlank)
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = defaultNotifySubject
	}

	task := &models.NotifyCustomersTask{
		ID:          uuid.New(),
		Subject:     subject,
		Message:     message,
		RequestedBy: requestedBy,
		RequestedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		return nil, err
	}
	return task, nil
}
