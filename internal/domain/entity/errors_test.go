package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "required field",
			field:    "vendor_code",
			message:  "required",
			expected: "validation error on field 'vendor_code': required",
		},
		{
			name:     "empty message",
			field:    "amount",
			message:  "",
			expected: "validation error on field 'amount': ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ValidationError{Field: tt.field, Message: tt.message}
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestValidationError_WrapsSentinel(t *testing.T) {
	err := fmt.Errorf("row 3: %w", &ValidationError{Field: "check_date", Message: "required"})

	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.False(t, errors.Is(err, ErrInvalidInput))

	var validationErr *ValidationError
	if assert.True(t, errors.As(err, &validationErr)) {
		assert.Equal(t, "check_date", validationErr.Field)
	}
}
