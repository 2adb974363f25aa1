package approval_test

import (
	"testing"

	"github.com/Behyna/pawn-services/pkg/approval"
	"github.com/stretchr/testify/assert"
)

func TestMapStatusToError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		expected   error
	}{
		{name: "unauthorized maps to invalid pin", statusCode: 401, expected: approval.ErrInvalidPIN},
		{name: "forbidden maps to not permitted", statusCode: 403, expected: approval.ErrNotPermitted},
		{name: "bad gateway maps to server error", statusCode: 502, expected: approval.ErrServerError},
		{name: "unknown code maps to server error", statusCode: 418, expected: approval.ErrServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, approval.MapStatusToError(tt.statusCode))
		})
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, approval.Retryable(approval.ErrTimeout))
	assert.True(t, approval.Retryable(approval.ErrServerError))
	assert.False(t, approval.Retryable(approval.ErrInvalidPIN))
	assert.False(t, approval.Retryable(approval.ErrDisabled))
}
