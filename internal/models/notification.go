package models

import (
	"time"

	"gorm.io/gorm"
)

type Notification struct {
	ID             uint               `json:"id" gorm:"primaryKey"`
	RecipientID    uint               `json:"recipient_id" gorm:"not null;index"`
	Type           NotificationType   `json:"type" gorm:"type:varchar(32);not null"`
	Title          string             `json:"title" gorm:"not null"`
	Message        string             `json:"message" gorm:"type:text"`
	RelatedOrderID *uint              `json:"related_order_id"`
	Status         NotificationStatus `json:"status" gorm:"type:varchar(16);not null;default:'unread';index"`
	CreatedAt      time.Time          `json:"created_at" gorm:"index"`
	DeletedAt      gorm.DeletedAt     `json:"-" gorm:"index"`
}

type NotificationType string

const (
	NotificationStatusUpdate  NotificationType = "status_update"
	NotificationQueryResolved NotificationType = "query_resolved"
	NotificationAdminResponse NotificationType = "admin_response"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationStatusUpdate, NotificationQueryResolved, NotificationAdminResponse:
		return true
	}
	return false
}

type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "unread"
	NotificationRead   NotificationStatus = "read"
)

func (s NotificationStatus) Valid() bool {
	return s == NotificationUnread || s == NotificationRead
}
