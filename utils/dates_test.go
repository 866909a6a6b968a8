package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndOfDay(t *testing.T) {
	in := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), BeginningOfDay(in))
	assert.Equal(t, time.Date(2024, 3, 5, 23, 59, 59, 999000000, time.UTC), EndOfDay(in))
	assert.Equal(t, 3, DaysBetween(in, in.AddDate(0, 0, 3)))
}

func TestParseDateRange(t *testing.T) {
	start, end, err := ParseDateRange("2024-01-01", "2024-01-31", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999000000, time.UTC), end)

	start, end, err = ParseDateRange("2024-01-01T10:00:00Z", "2024-01-01T12:00:00Z", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 10, start.Hour())
	assert.Equal(t, 23, end.Hour())

	tests := []struct {
		name       string
		start, end string
	}{
		{name: "missing start", start: "", end: "2024-01-01"},
		{name: "missing end", start: "2024-01-01", end: ""},
		{name: "garbage", start: "yesterday", end: "2024-01-01"},
		{name: "reversed", start: "2024-02-01", end: "2024-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseDateRange(tt.start, tt.end, time.UTC)
			assert.ErrorIs(t, err, ErrInvalidDateRange)
		})
	}
}
