package models

import (
	"fmt"
	"math"
	"time"
)

type Order struct {
	ID                 uint          `json:"id" gorm:"primaryKey"`
	CustomerID         uint          `json:"customer_id" gorm:"not null;index"`
	Items              []OrderItem   `json:"items" gorm:"foreignKey:OrderID"`
	FullName           string        `json:"full_name" gorm:"not null"`
	Phone              string        `json:"phone"`
	Street             string        `json:"street" gorm:"not null"`
	City               string        `json:"city" gorm:"not null"`
	PostalCode         string        `json:"postal_code"`
	Subtotal           float64       `json:"subtotal" gorm:"not null"`
	Tax                float64       `json:"tax"`
	Shipping           float64       `json:"shipping"`
	Total              float64       `json:"total" gorm:"not null"`
	PaymentMethod      PaymentMethod `json:"payment_method" gorm:"type:varchar(16);not null"`
	PaymentStatus      PaymentStatus `json:"payment_status" gorm:"type:varchar(16);default:'pending'"`
	Status             OrderStatus   `json:"status" gorm:"type:varchar(32);not null;default:'pending';index"`
	ExpectedDelivery   *time.Time    `json:"expected_delivery"`
	DeliveredAt        *time.Time    `json:"delivered_at"`
	HiddenFromAdmin    bool          `json:"hidden_from_admin" gorm:"default:false;index"`
	HiddenFromCustomer bool          `json:"hidden_from_customer" gorm:"default:false"`
	Version            int           `json:"version" gorm:"not null;default:0"`
	CreatedAt          time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderProcessing     OrderStatus = "processing"
	OrderPreparing      OrderStatus = "preparing"
	OrderOutForDelivery OrderStatus = "outForDelivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

// ActiveStatuses are the statuses counted on the admin badge.
var ActiveStatuses = []OrderStatus{OrderPending, OrderProcessing, OrderPreparing, OrderOutForDelivery}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderPreparing, OrderOutForDelivery, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Label is the human readable form used in notification text.
func (s OrderStatus) Label() string {
	switch s {
	case OrderPending:
		return "Pending"
	case OrderProcessing:
		return "Processing"
	case OrderPreparing:
		return "Preparing"
	case OrderOutForDelivery:
		return "Out for delivery"
	case OrderDelivered:
		return "Delivered"
	case OrderCancelled:
		return "Cancelled"
	}
	return string(s)
}

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentOnline PaymentMethod = "online"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCOD || m == PaymentOnline
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentSucceeded || s == PaymentFailed
}

// totalTolerance absorbs rounding of two-decimal currency amounts.
const totalTolerance = 0.01

// Validate checks the record-level invariants of a stored order.
func (o *Order) Validate() error {
	if !o.Status.Valid() {
		return fmt.Errorf("unknown status %q", o.Status)
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("order has no items")
	}
	if math.Abs(o.Total-(o.Subtotal+o.Tax+o.Shipping)) > totalTolerance {
		return fmt.Errorf("total %.2f does not match subtotal %.2f + tax %.2f + shipping %.2f",
			o.Total, o.Subtotal, o.Tax, o.Shipping)
	}
	if (o.Status == OrderDelivered) != (o.DeliveredAt != nil) {
		return fmt.Errorf("delivered_at inconsistent with status %q", o.Status)
	}
	if o.Status == OrderOutForDelivery && o.ExpectedDelivery == nil {
		return fmt.Errorf("expected_delivery missing for status %q", o.Status)
	}
	return nil
}

// OwnedBy reports whether the order belongs to the given customer.
func (o *Order) OwnedBy(customerID uint) bool {
	return o.CustomerID == customerID
}
