package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// IntFromEnv reads an integer from the environment, falling back to
// defaultValue when the variable is unset or blank.
func IntFromEnv(key string, defaultValue int) (int, error) {
	rawValue, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue, nil
	}

	rawValue = strings.TrimSpace(rawValue)
	if rawValue == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(rawValue)
	if err != nil {
		return 0, fmt.Errorf("invalid int env %s=%q: %w", key, rawValue, err)
	}

	return value, nil
}

// DurationSecondsFromEnv reads a duration expressed in whole seconds.
func DurationSecondsFromEnv(key string, defaultSeconds int64) (time.Duration, error) {
	rawValue, ok := os.LookupEnv(key)
	if !ok {
		return time.Duration(defaultSeconds) * time.Second, nil
	}

	rawValue = strings.TrimSpace(rawValue)
	if rawValue == "" {
		return time.Duration(defaultSeconds) * time.Second, nil
	}

	valueSeconds, err := strconv.ParseInt(rawValue, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration seconds env %s=%q: %w", key, rawValue, err)
	}
	if valueSeconds < 0 {
		return 0, fmt.Errorf("invalid duration seconds env %s=%d", key, valueSeconds)
	}
	return time.Duration(valueSeconds) * time.Second, nil
}

// BoolFromEnv reads a boolean (true/1/yes/y, false/0/no/n).
func BoolFromEnv(key string, defaultValue bool) (bool, error) {
	rawValue, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue, nil
	}

	rawValue = strings.TrimSpace(rawValue)
	if rawValue == "" {
		return defaultValue, nil
	}

	switch strings.ToLower(rawValue) {
	case "true", "1", "yes", "y":
		return true, nil
	case "false", "0", "no", "n":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool env %s=%q", key, rawValue)
	}
}

// StringFromEnv reads a string, falling back to defaultValue when unset or
// blank.
func StringFromEnv(key string, defaultValue string) string {
	rawValue, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}

	rawValue = strings.TrimSpace(rawValue)
	if rawValue == "" {
		return defaultValue
	}
	return rawValue
}

// StringListFromEnv reads a comma-separated list, trimming each element and
// dropping empties.
func StringListFromEnv(key string, defaultValue []string) []string {
	rawValue, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(rawValue) == "" {
		return defaultValue
	}

	parts := strings.Split(rawValue, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		values = append(values, part)
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
