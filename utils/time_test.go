package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	m, err := ParseClock("08:30")
	require.NoError(t, err)
	assert.Equal(t, 510, m)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
	_, err = ParseClock("0830")
	assert.Error(t, err)
	_, err = ParseClock("")
	assert.Error(t, err)
}

func TestNormalizeClockZeroPads(t *testing.T) {
	got, err := NormalizeClock("9:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", got)
}

func TestCombineDateAndClock(t *testing.T) {
	date := time.Date(2026, 3, 9, 17, 45, 12, 0, time.UTC)
	got, err := CombineDateAndClock(date, "08:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC), got)
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2026, 3, 9, 17, 45, 12, 999, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), DateOnly(ts))
}
