package models

import "time"

// OrderEvent is one row of the append-only status-change log.
type OrderEvent struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status" gorm:"type:varchar(32);not null"`
	ToStatus   OrderStatus `json:"to_status" gorm:"type:varchar(32);not null"`
	ActorRole  Role        `json:"actor_role" gorm:"type:varchar(16);not null"`
	ActorID    uint        `json:"actor_id" gorm:"not null"`
	CreatedAt  time.Time   `json:"created_at"`
}
