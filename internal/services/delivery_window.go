package services

import (
	"fmt"
	"math"
	"time"

	"food_store/internal/models"
)

// deliveryCountdownLimit is the longest remaining time shown as a minute countdown.
const deliveryCountdownLimit = 30

// DeliveryWindowDateLayout renders estimates beyond the countdown limit.
const DeliveryWindowDateLayout = "January 2, 2006"

// DeliveryWindowText derives the customer-facing delivery estimate at read time.
// It returns false when no estimate should be shown.
func DeliveryWindowText(now time.Time, expectedDelivery *time.Time, status models.OrderStatus, loc *time.Location) (string, bool) {
	if status != models.OrderOutForDelivery || expectedDelivery == nil {
		return "", false
	}

	remaining := int(math.Floor(expectedDelivery.Sub(now).Minutes()))
	switch {
	case remaining <= 0:
		return "within half an hour", true
	case remaining == 1:
		return "within 1 minute", true
	case remaining <= deliveryCountdownLimit:
		return fmt.Sprintf("within %d minutes", remaining), true
	}

	if loc == nil {
		loc = time.UTC
	}
	return expectedDelivery.In(loc).Format(DeliveryWindowDateLayout), true
}
