package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m int) time.Time {
	return time.Date(2026, 9, 10, h, m, 0, 0, time.UTC)
}

func TestOverlapsHalfOpen(t *testing.T) {
	assert.True(t, Overlaps(at(10, 0), at(11, 0), at(10, 30), at(11, 30)))
	assert.True(t, Overlaps(at(10, 0), at(12, 0), at(10, 30), at(11, 0)))
	assert.True(t, Overlaps(at(10, 30), at(11, 0), at(10, 0), at(12, 0)))

	// touching endpoints do not collide
	assert.False(t, Overlaps(at(10, 0), at(11, 0), at(11, 0), at(12, 0)))
	assert.False(t, Overlaps(at(11, 0), at(12, 0), at(10, 0), at(11, 0)))
	assert.False(t, Overlaps(at(9, 0), at(10, 0), at(11, 0), at(12, 0)))
}

func TestOnDate(t *testing.T) {
	day, err := ParseDate("2026-09-10", time.UTC)
	require.NoError(t, err)

	got, err := OnDate(day, "13:45", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, at(13, 45), got)

	_, err = OnDate(day, "25:00", time.UTC)
	assert.Error(t, err)
}

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("2026-09-10 10:30", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, at(10, 30), got)
	assert.Equal(t, "2026-09-10 10:30:00", FormatStored(got))

	_, err = ParseDateTime("2026-09-10T10:30", time.UTC)
	assert.Error(t, err)
}
