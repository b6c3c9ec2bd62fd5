package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvString(t *testing.T) {
	t.Setenv("TEST_STRING", "pac.example.edu")
	assert.Equal(t, "pac.example.edu", LoadEnvString("TEST_STRING", "default"))

	t.Setenv("TEST_STRING", "")
	assert.Equal(t, "default", LoadEnvString("TEST_STRING", "default"))
}

func TestLoadEnvWithFallback(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		validator    func(string) error
		want         string
		wantFallback bool
	}{
		{name: "unset uses default silently", value: "", validator: ValidateCronSchedule, want: "0 7 * * 1-5"},
		{name: "valid cron", value: "30 6 * * *", validator: ValidateCronSchedule, want: "30 6 * * *"},
		{name: "invalid cron falls back", value: "every morning", validator: ValidateCronSchedule, want: "0 7 * * 1-5", wantFallback: true},
		{name: "no validator accepts anything", value: "anything", validator: nil, want: "anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_CRON", tt.value)

			result := LoadEnvWithFallback("TEST_CRON", "0 7 * * 1-5", tt.validator)

			assert.Equal(t, tt.want, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
			if tt.wantFallback {
				require.Len(t, result.Warnings, 1)
				assert.Contains(t, result.Warnings[0], "TEST_CRON")
				assert.Contains(t, result.Warnings[0], "falling back to default '0 7 * * 1-5'")
			} else {
				assert.Empty(t, result.Warnings)
			}
		})
	}
}

func TestLoadEnvDuration(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		want         time.Duration
		wantFallback bool
	}{
		{name: "unset", value: "", want: 30 * time.Second},
		{name: "valid", value: "1m30s", want: 90 * time.Second},
		{name: "unparseable", value: "soon", want: 30 * time.Second, wantFallback: true},
		{name: "negative rejected", value: "-5s", want: 30 * time.Second, wantFallback: true},
		{name: "zero rejected", value: "0s", want: 30 * time.Second, wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)

			result := LoadEnvDuration("TEST_DURATION", 30*time.Second, ValidatePositiveDuration)

			assert.Equal(t, tt.want, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
		})
	}
}

func TestLoadEnvInt(t *testing.T) {
	portRange := func(v int) error { return ValidateIntRange(v, 1, 65535) }

	tests := []struct {
		name         string
		value        string
		want         int
		wantFallback bool
		wantWarning  string
	}{
		{name: "unset", value: "", want: 22},
		{name: "valid", value: "2222", want: 2222},
		{name: "decimal", value: "22.5", want: 22, wantFallback: true, wantWarning: "invalid integer format"},
		{name: "spaces", value: " 22 ", want: 22, wantFallback: true, wantWarning: "invalid integer format"},
		{name: "out of range", value: "70000", want: 22, wantFallback: true, wantWarning: "exceeds maximum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_PORT", tt.value)

			result := LoadEnvInt("TEST_PORT", 22, portRange)

			assert.Equal(t, tt.want, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
			if tt.wantWarning != "" {
				require.Len(t, result.Warnings, 1)
				assert.True(t, strings.Contains(result.Warnings[0], tt.wantWarning), result.Warnings[0])
			}
		})
	}
}

func TestLoadEnvBool(t *testing.T) {
	for _, v := range []string{"1", "t", "T", "true", "TRUE", "True"} {
		t.Run("true/"+v, func(t *testing.T) {
			t.Setenv("TEST_BOOL", v)
			result := LoadEnvBool("TEST_BOOL", false)
			assert.True(t, result.Value)
			assert.False(t, result.FallbackApplied)
		})
	}

	for _, v := range []string{"0", "f", "F", "false", "FALSE", "False"} {
		t.Run("false/"+v, func(t *testing.T) {
			t.Setenv("TEST_BOOL", v)
			result := LoadEnvBool("TEST_BOOL", true)
			assert.False(t, result.Value)
			assert.False(t, result.FallbackApplied)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		t.Setenv("TEST_BOOL", "yes")
		result := LoadEnvBool("TEST_BOOL", true)
		assert.True(t, result.Value)
		assert.True(t, result.FallbackApplied)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "expected 'true' or 'false'")
	})
}
