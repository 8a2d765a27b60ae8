package utils

import (
	"fmt"
	"time"
)

const clockLayout = "15:04"

// ParseClock validates an "HH:MM" 24h string and returns minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as a zero-padded "HH:MM" string.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeClock parses and re-renders an "HH:MM" string so stored values are
// always zero-padded and compare correctly as strings.
func NormalizeClock(s string) (string, error) {
	m, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return FormatClock(m), nil
}

// CombineDateAndClock attaches an "HH:MM" time of day to a calendar date.
func CombineDateAndClock(date time.Time, clock string) (time.Time, error) {
	m, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), m/60, m%60, 0, 0, date.Location()), nil
}

// DateOnly truncates a timestamp to its calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
