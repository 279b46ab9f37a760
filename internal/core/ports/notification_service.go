package ports

import (
	"context"

	"github.com/hrmanager/hrm-api/internal/core/domain"
)

// NotificationInput is the DTO hooks hand to the dispatcher.
type NotificationInput struct {
	// RecipientID targets one user; empty means the whole Audience.
	RecipientID string
	Audience    domain.Role
	Activity    domain.ActivityType
	Title       string
	Message     string
	SourceKind  domain.Kind
	SourceID    string
}

// NotificationService persists internally generated notifications.
type NotificationService interface {
	Deliver(ctx context.Context, in NotificationInput) error
}

// Notifier enqueues notifications for asynchronous delivery.
type Notifier interface {
	Enqueue(in NotificationInput)
}
