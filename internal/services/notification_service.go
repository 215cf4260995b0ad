package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"food_store/internal/apperror"
	"food_store/internal/models"
	"food_store/internal/repository"
)

type NotificationService interface {
	Emit(ctx context.Context, input NewNotification) (*models.Notification, error)
	List(ctx context.Context, recipientID uint) (*Mailbox, error)
	UnreadCount(ctx context.Context, recipientID uint) (int64, error)
	MarkRead(ctx context.Context, id, recipientID uint) error
	MarkAllRead(ctx context.Context, recipientID uint) (int64, error)
	Delete(ctx context.Context, id, recipientID uint) error
}

type NewNotification struct {
	RecipientID    uint
	Type           models.NotificationType
	Title          string
	Message        string
	RelatedOrderID *uint
}

// Mailbox is one recipient's inbox, newest first.
type Mailbox struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

type notificationService struct {
	store  repository.Store
	now    func() time.Time
	logger *slog.Logger
}

func NewNotificationService(store repository.Store, now func() time.Time, logger *slog.Logger) NotificationService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &notificationService{store: store, now: now, logger: logger}
}

func (s *notificationService) Emit(ctx context.Context, input NewNotification) (*models.Notification, error) {
	if input.RecipientID == 0 {
		return nil, apperror.Validation(apperror.CodeInvalidInput, "recipient is required")
	}
	if !input.Type.Valid() {
		return nil, apperror.Validation(apperror.CodeInvalidInput, fmt.Sprintf("unknown notification type %q", input.Type))
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperror.Validation(apperror.CodeInvalidInput, "title is required")
	}

	notification := &models.Notification{
		RecipientID:    input.RecipientID,
		Type:           input.Type,
		Title:          strings.TrimSpace(input.Title),
		Message:        input.Message,
		RelatedOrderID: input.RelatedOrderID,
		Status:         models.NotificationUnread,
		CreatedAt:      s.now(),
	}
	if err := s.store.Notifications().Create(ctx, notification); err != nil {
		return nil, storeError(err)
	}

	s.logger.Info("notification_emitted", "notification_id", notification.ID, "recipient_id", notification.RecipientID, "type", notification.Type)
	return notification, nil
}

// List reads straight from the store so an Emit is visible on the very next call.
func (s *notificationService) List(ctx context.Context, recipientID uint) (*Mailbox, error) {
	notifications, err := s.store.Notifications().ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, storeError(err)
	}

	mailbox := &Mailbox{Notifications: make([]models.Notification, 0, len(notifications))}
	for _, n := range notifications {
		if !n.Type.Valid() || !n.Status.Valid() {
			s.logger.Warn("notification_skipped_malformed", "notification_id", n.ID, "type", n.Type, "status", n.Status)
			continue
		}
		if n.Status == models.NotificationUnread {
			mailbox.UnreadCount++
		}
		mailbox.Notifications = append(mailbox.Notifications, n)
	}
	return mailbox, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	count, err := s.store.Notifications().CountUnread(ctx, recipientID)
	if err != nil {
		return 0, storeError(err)
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, recipientID uint) error {
	return storeError(s.store.Notifications().MarkRead(ctx, id, recipientID))
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	updated, err := s.store.Notifications().MarkAllRead(ctx, recipientID)
	if err != nil {
		return 0, storeError(err)
	}
	return updated, nil
}

func (s *notificationService) Delete(ctx context.Context, id, recipientID uint) error {
	return storeError(s.store.Notifications().Delete(ctx, id, recipientID))
}
