package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"food_store/internal/models"

	"gorm.io/gorm"
)

const NotificationResource = "notification"

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID uint) ([]models.Notification, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
	MarkRead(ctx context.Context, id, recipientID uint) error
	MarkAllRead(ctx context.Context, recipientID uint) (int64, error)
	Delete(ctx context.Context, id, recipientID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for recipient %d: %w", recipientID, err)
	}
	return notifications, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND status = ?", recipientID, models.NotificationUnread).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications for recipient %d: %w", recipientID, err)
	}
	return count, nil
}

// MarkRead looks the notification up scoped to its owner first, so a foreign id is
// indistinguishable from a missing one.
func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientID uint) error {
	var notification models.Notification
	err := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notificationNotFound(id)
		}
		return fmt.Errorf("failed to get notification %d: %w", id, err)
	}
	if notification.Status == models.NotificationRead {
		return nil
	}

	err = r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("status", models.NotificationRead).Error
	if err != nil {
		return fmt.Errorf("failed to mark notification %d read: %w", id, err)
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND status = ?", recipientID, models.NotificationUnread).
		Update("status", models.NotificationRead)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read for recipient %d: %w", recipientID, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *notificationRepository) Delete(ctx context.Context, id, recipientID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Delete(&models.Notification{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete notification %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notificationNotFound(id)
	}
	return nil
}

func notificationNotFound(id uint) *NotFoundError {
	return &NotFoundError{Resource: NotificationResource, Key: "id", Value: strconv.FormatUint(uint64(id), 10)}
}
