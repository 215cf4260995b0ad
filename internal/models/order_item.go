package models

import "time"

// OrderItem is a catalog snapshot taken at checkout. It never joins back to the catalog.
type OrderItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"not null"`
	Price     float64   `json:"price" gorm:"not null"`
	ImageURL  string    `json:"image_url"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (i OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}
