package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	testCases := map[string]struct {
		err      *Error
		expected string
	}{
		"without cause": {
			err:      Conflict(CodeOrderTerminal, "order is already delivered"),
			expected: "OrderTerminal: order is already delivered",
		},
		"with cause": {
			err:      Transient(errors.New("connection refused")),
			expected: "StoreUnavailable: store unavailable, retry later: connection refused",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestKindAndCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("set status: %w", Authorization(CodeAdminCannotConfirmDelivery, "admins cannot confirm delivery"))

	assert.Equal(t, KindAuthorization, KindOf(wrapped))
	assert.Equal(t, CodeAdminCannotConfirmDelivery, CodeOf(wrapped))

	plain := errors.New("boom")
	assert.Equal(t, Kind(""), KindOf(plain))
	assert.Equal(t, "", CodeOf(plain))
}

func TestTransient_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := Transient(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindTransient, err.Kind)
}
