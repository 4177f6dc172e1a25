package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeRangeValidation(t *testing.T) {
	_, err := NewTimeRange("2026-03-14", 600, 720)
	require.NoError(t, err)

	cases := []struct {
		name       string
		date       string
		start, end int
	}{
		{"start equals end", "2026-03-14", 600, 600},
		{"start after end", "2026-03-14", 720, 600},
		{"negative start", "2026-03-14", -10, 600},
		{"start past midnight", "2026-03-14", 1440, 1500},
		{"end past midnight", "2026-03-14", 1380, 1500},
		{"bad date", "14/03/2026", 600, 720},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTimeRange(tc.date, tc.start, tc.end)
			assert.ErrorIs(t, err, ErrInvalidRange)
		})
	}
}

func TestTimeRangeOverlaps(t *testing.T) {
	a, _ := NewTimeRange("2026-03-14", 540, 660) // 09:00-11:00
	b, _ := NewTimeRange("2026-03-14", 600, 720) // 10:00-12:00
	c, _ := NewTimeRange("2026-03-14", 660, 780) // 11:00-13:00
	d, _ := NewTimeRange("2026-03-15", 540, 660) // next day

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	// Half-open: a ends exactly where c starts.
	assert.False(t, a.Overlaps(c))
	assert.False(t, c.Overlaps(a))
	assert.False(t, a.Overlaps(d))
}

func TestTimeRangeDurationAndClock(t *testing.T) {
	r, _ := NewTimeRange("2026-03-14", 600, 870)
	assert.Equal(t, 270, r.DurationMinutes())
	assert.Equal(t, "2026-03-14 10:00-14:30", r.String())
	assert.Equal(t, "2026-03-14T10:00:00Z", r.StartTime().Format("2006-01-02T15:04:05Z07:00"))
	assert.Equal(t, "2026-03-14T14:30:00Z", r.EndTime().Format("2006-01-02T15:04:05Z07:00"))
}

func TestParseTimeOfDay(t *testing.T) {
	m, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, m)
	assert.Equal(t, "09:30", FormatTimeOfDay(570))

	_, err = ParseTimeOfDay("25:00")
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = ParseTimeOfDay("9.30")
	assert.ErrorIs(t, err, ErrInvalidRange)
}
