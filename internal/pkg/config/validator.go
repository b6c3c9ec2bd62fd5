package config

import (
	"fmt"
	"net"
	"path"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ValidateCronSchedule validates a standard five-field cron expression
// ("minute hour day month weekday") with the robfig/cron parser used by
// the worker scheduler.
//
// Example: "0 7 * * 1-5" runs at 07:00 on weekdays.
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("invalid cron schedule: cannot be empty")
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// ValidateTimezone checks that timezone is a loadable IANA name.
// Fails on valid names too when the image lacks tzdata.
func ValidateTimezone(timezone string) error {
	if timezone == "" {
		return fmt.Errorf("invalid timezone: cannot be empty")
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", timezone, err)
	}
	return nil
}

// ValidateDuration checks min <= duration <= max.
func ValidateDuration(duration, min, max time.Duration) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%v) cannot be greater than max (%v)", min, max)
	}
	if duration < min {
		return fmt.Errorf("duration %v is below minimum %v", duration, min)
	}
	if duration > max {
		return fmt.Errorf("duration %v exceeds maximum %v", duration, max)
	}
	return nil
}

// ValidateIntRange checks min <= value <= max.
func ValidateIntRange(value, min, max int) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%d) cannot be greater than max (%d)", min, max)
	}
	if value < min {
		return fmt.Errorf("value %d is below minimum %d", value, min)
	}
	if value > max {
		return fmt.Errorf("value %d exceeds maximum %d", value, max)
	}
	return nil
}

// ValidatePositiveDuration rejects zero and negative durations.
func ValidatePositiveDuration(duration time.Duration) error {
	if duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", duration)
	}
	return nil
}

// ValidateHost accepts a bare hostname or IP address. Ports, schemes and
// whitespace are rejected so that the value can be joined with a port safely.
func ValidateHost(host string) error {
	if host == "" {
		return fmt.Errorf("invalid host: cannot be empty")
	}
	if strings.ContainsAny(host, " \t\r\n/") || strings.Contains(host, "://") {
		return fmt.Errorf("invalid host '%s': must be a bare hostname", host)
	}
	if ip := net.ParseIP(host); ip != nil {
		return nil
	}
	if _, _, err := net.SplitHostPort(host); err == nil {
		return fmt.Errorf("invalid host '%s': port must be configured separately", host)
	}
	return nil
}

// ValidateRemotePath checks an SFTP path: non-empty, single line, and no
// ".." element after cleaning.
func ValidateRemotePath(p string) error {
	if strings.TrimSpace(p) == "" {
		return fmt.Errorf("invalid path: cannot be empty")
	}
	if strings.ContainsAny(p, "\r\n\x00") {
		return fmt.Errorf("invalid path %q: control characters not allowed", p)
	}
	for _, elem := range strings.Split(path.Clean(p), "/") {
		if elem == ".." {
			return fmt.Errorf("invalid path %q: must not escape its directory", p)
		}
	}
	return nil
}
