// Package config provides fail-open helpers for reading typed configuration
// values from environment variables, reusable validators, and Prometheus
// metrics for tracking configuration fallbacks.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadResult is the outcome of loading one configuration value.
//
// Loaders never fail: when the environment value cannot be parsed or does
// not validate, Value holds the default, FallbackApplied is true and
// Warnings carries one operator-facing message.
//
// Example:
//
//	result := LoadEnvDuration("PAC_SFTP_TIMEOUT", 30*time.Second, ValidatePositiveDuration)
//	for _, w := range result.Warnings {
//	    logger.Warn("configuration fallback applied", slog.String("warning", w))
//	}
//	timeout := result.Value
type LoadResult[T any] struct {
	Value           T
	Warnings        []string
	FallbackApplied bool
}

// LoadEnvString returns the environment value, or defaultValue when unset or empty.
func LoadEnvString(envKey, defaultValue string) string {
	value := os.Getenv(envKey)
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadEnvWithFallback loads a string and validates it.
// An unset variable silently yields the default.
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) LoadResult[string] {
	return loadEnv(envKey, defaultValue, func(s string) (string, error) { return s, nil }, validator)
}

// LoadEnvDuration loads a Go duration string such as "90s" or "1h30m".
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) LoadResult[time.Duration] {
	return loadEnv(envKey, defaultValue, time.ParseDuration, validator)
}

// LoadEnvInt loads a base-10 integer. Decimals and surrounding spaces are rejected.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) LoadResult[int] {
	return loadEnv(envKey, defaultValue, func(s string) (int, error) {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("invalid integer format")
		}
		return v, nil
	}, validator)
}

// LoadEnvBool loads a boolean.
//
// True values: "1", "t", "T", "true", "TRUE", "True".
// False values: "0", "f", "F", "false", "FALSE", "False".
func LoadEnvBool(envKey string, defaultValue bool) LoadResult[bool] {
	return loadEnv(envKey, defaultValue, parseBool, nil)
}

func parseBool(s string) (bool, error) {
	switch s {
	case "1", "t", "T", "true", "TRUE", "True":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean format, expected 'true' or 'false'")
}

func loadEnv[T any](envKey string, defaultValue T, parse func(string) (T, error), validator func(T) error) LoadResult[T] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return LoadResult[T]{Value: defaultValue}
	}

	fallback := func(err error) LoadResult[T] {
		return LoadResult[T]{
			Value: defaultValue,
			Warnings: []string{fmt.Sprintf(
				"Invalid %s='%s': %v, falling back to default '%v'",
				envKey, raw, err, defaultValue,
			)},
			FallbackApplied: true,
		}
	}

	value, err := parse(raw)
	if err != nil {
		return fallback(err)
	}
	if validator != nil {
		if err := validator(value); err != nil {
			return fallback(err)
		}
	}
	return LoadResult[T]{Value: value}
}
