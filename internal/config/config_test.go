package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DELIVERY_WINDOW", "")
	t.Setenv("PRESENCE_TTL", "")
	t.Setenv("SERVER_PORT", "")

	cfg := Load()

	assert.Equal(t, 45*time.Minute, cfg.DeliveryWindow)
	assert.Equal(t, 60*time.Second, cfg.PresenceTTL)
	assert.Equal(t, 2*time.Second, cfg.OrderPollInterval)
	assert.Equal(t, 30*time.Second, cfg.PresencePollInterval)
	assert.Equal(t, "8080", cfg.ServerPort)
}

func TestGetEnvAsDuration(t *testing.T) {
	testCases := map[string]struct {
		value    string
		expected time.Duration
	}{
		"go duration":     {value: "20m", expected: 20 * time.Minute},
		"bare seconds":    {value: "90", expected: 90 * time.Second},
		"garbage":         {value: "soon", expected: time.Minute},
		"negative":        {value: "-5m", expected: time.Minute},
		"empty uses base": {value: "", expected: time.Minute},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tc.value)
			assert.Equal(t, tc.expected, getEnvAsDuration("TEST_DURATION", time.Minute))
		})
	}
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{DisplayTimezone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.DisplayTimezone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())
}
