package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hrmanager/hrm-api/internal/core/domain"
	"github.com/hrmanager/hrm-api/internal/core/ports"
)

type notificationService struct {
	repo ports.ResourceRepository[domain.Notification]
	log  zerolog.Logger
	now  func() time.Time
}

// NewNotificationService returns a NotificationService that stores every
// delivered notification through repo.
func NewNotificationService(repo ports.ResourceRepository[domain.Notification], log zerolog.Logger) ports.NotificationService {
	return &notificationService{repo: repo, log: log, now: time.Now}
}

// Deliver persists a single notification.
func (s *notificationService) Deliver(ctx context.Context, in ports.NotificationInput) error {
	if in.Title == "" {
		return domain.Validationf("notification title is required")
	}

	now := s.now().UTC()
	n := &domain.Notification{
		Meta: domain.Meta{
			ID:        uuid.NewString(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RecipientID: in.RecipientID,
		Audience:    in.Audience,
		Activity:    in.Activity,
		Title:       in.Title,
		Message:     in.Message,
		SourceKind:  in.SourceKind,
		SourceID:    in.SourceID,
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}

	s.log.Debug().
		Str("notification_id", n.ID).
		Str("recipient_id", in.RecipientID).
		Str("source_kind", string(in.SourceKind)).
		Str("source_id", in.SourceID).
		Msg("notification delivered")
	return nil
}
