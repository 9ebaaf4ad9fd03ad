package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInterval(t *testing.T, start, end time.Time) Interval {
	t.Helper()
	i, err := NewInterval(start, end)
	require.NoError(t, err)
	return i
}

func TestNewInterval(t *testing.T) {
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	t.Run("valid interval", func(t *testing.T) {
		i, err := NewInterval(base, base.Add(2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 120, i.DurationMinutes())
	})

	t.Run("start equals end", func(t *testing.T) {
		_, err := NewInterval(base, base)
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("start after end", func(t *testing.T) {
		_, err := NewInterval(base.Add(time.Hour), base)
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("zero endpoints", func(t *testing.T) {
		_, err := NewInterval(time.Time{}, base)
		assert.ErrorIs(t, err, ErrInvalidInterval)

		_, err = NewInterval(base, time.Time{})
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})
}

func TestIntervalOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	a := mustInterval(t, base, base.Add(2*time.Hour)) // [10:00, 12:00)

	t.Run("partial overlap", func(t *testing.T) {
		b := mustInterval(t, base.Add(time.Hour), base.Add(3*time.Hour)) // [11:00, 13:00)
		assert.True(t, a.Overlaps(b))
		assert.True(t, b.Overlaps(a))
	})

	t.Run("containment", func(t *testing.T) {
		b := mustInterval(t, base.Add(30*time.Minute), base.Add(time.Hour)) // [10:30, 11:00)
		assert.True(t, a.Overlaps(b))
		assert.True(t, b.Overlaps(a))
	})

	t.Run("back to back does not overlap", func(t *testing.T) {
		b := mustInterval(t, base.Add(2*time.Hour), base.Add(4*time.Hour)) // [12:00, 14:00)
		assert.False(t, a.Overlaps(b))
		assert.False(t, b.Overlaps(a))
	})

	t.Run("disjoint", func(t *testing.T) {
		b := mustInterval(t, base.Add(5*time.Hour), base.Add(6*time.Hour))
		assert.False(t, a.Overlaps(b))
		assert.False(t, b.Overlaps(a))
	})
}

func TestIntervalWithin(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	window := OperatingWindow{StartHour: 6, EndHour: 23}
	day := func(hour, min int) time.Time {
		return time.Date(2026, 3, 10, hour, min, 0, 0, loc)
	}

	t.Run("inside window", func(t *testing.T) {
		i := mustInterval(t, day(10, 0), day(12, 0))
		assert.True(t, i.Within(window, loc))
	})

	t.Run("exactly at bounds", func(t *testing.T) {
		i := mustInterval(t, day(6, 0), day(23, 0))
		assert.True(t, i.Within(window, loc))
	})

	t.Run("starts before opening", func(t *testing.T) {
		i := mustInterval(t, day(5, 30), day(7, 0))
		assert.False(t, i.Within(window, loc))
	})

	t.Run("ends after closing", func(t *testing.T) {
		i := mustInterval(t, day(22, 0), day(23, 30))
		assert.False(t, i.Within(window, loc))
	})

	t.Run("spans midnight", func(t *testing.T) {
		i := mustInterval(t, day(22, 0), day(22, 0).Add(4*time.Hour))
		assert.False(t, i.Within(window, loc))
	})

	t.Run("evaluated in facility local time", func(t *testing.T) {
		// 14:00 UTC = 10:00 EDT, inside the window regardless of input zone
		start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
		i := mustInterval(t, start, start.Add(2*time.Hour))
		assert.True(t, i.Within(window, loc))
	})
}
