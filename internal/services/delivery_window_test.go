package services

import (
	"testing"
	"time"

	"food_store/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryWindowText(t *testing.T) {
	now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		ts := now.Add(d)
		return &ts
	}

	testCases := map[string]struct {
		expected *time.Time
		status   models.OrderStatus
		text     string
		shown    bool
	}{
		"ten minutes left": {
			expected: at(10 * time.Minute), status: models.OrderOutForDelivery,
			text: "within 10 minutes", shown: true,
		},
		"partial minute rounds down": {
			expected: at(10*time.Minute + 59*time.Second), status: models.OrderOutForDelivery,
			text: "within 10 minutes", shown: true,
		},
		"one minute is singular": {
			expected: at(time.Minute + 30*time.Second), status: models.OrderOutForDelivery,
			text: "within 1 minute", shown: true,
		},
		"exactly thirty minutes": {
			expected: at(30 * time.Minute), status: models.OrderOutForDelivery,
			text: "within 30 minutes", shown: true,
		},
		"under a minute left": {
			expected: at(30 * time.Second), status: models.OrderOutForDelivery,
			text: "within half an hour", shown: true,
		},
		"overdue never goes negative": {
			expected: at(-5 * time.Minute), status: models.OrderOutForDelivery,
			text: "within half an hour", shown: true,
		},
		"far out shows the date": {
			expected: at(26 * time.Hour), status: models.OrderOutForDelivery,
			text: "October 17, 2026", shown: true,
		},
		"delivered orders show nothing": {
			expected: at(10 * time.Minute), status: models.OrderDelivered,
		},
		"preparing orders show nothing": {
			expected: nil, status: models.OrderPreparing,
		},
		"missing estimate shows nothing": {
			expected: nil, status: models.OrderOutForDelivery,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			text, shown := DeliveryWindowText(now, tc.expected, tc.status, time.UTC)

			assert.Equal(t, tc.shown, shown)
			assert.Equal(t, tc.text, text)
		})
	}
}

func TestDeliveryWindowText_UsesDisplayLocation(t *testing.T) {
	now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	expected := time.Date(2026, time.October, 16, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	text, shown := DeliveryWindowText(now, &expected, models.OrderOutForDelivery, tokyo)

	assert.True(t, shown)
	assert.Equal(t, "October 17, 2026", text)
}
