package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteHourly(t *testing.T) {
	sp := Space{PricePerHour: 50, PricePerDay: 400}

	full, _ := NewTimeRange("2026-03-14", 600, 840) // 10:00-14:00
	assert.Equal(t, 200, Quote(sp, full))

	partial, _ := NewTimeRange("2026-03-14", 600, 630) // 10:00-10:30
	assert.Equal(t, 50, Quote(sp, partial), "started hour bills in full")

	ninety, _ := NewTimeRange("2026-03-14", 600, 690)
	assert.Equal(t, 100, Quote(sp, ninety))
}

func TestQuoteFullDay(t *testing.T) {
	sp := Space{PricePerHour: 50, PricePerDay: 400}
	day, _ := NewTimeRange("2026-03-14", 0, 1440)
	assert.Equal(t, 400, Quote(sp, day))
}

func TestQuoteMonotonicInDuration(t *testing.T) {
	sp := Space{PricePerHour: 20, PricePerDay: 480}
	prev := 0
	for end := 30; end <= 1440; end += 30 {
		r, err := NewTimeRange("2026-03-14", 0, end)
		if err != nil {
			t.Fatalf("range 0-%d: %v", end, err)
		}
		p := Quote(sp, r)
		assert.GreaterOrEqual(t, p, prev, "price dropped at duration %d", r.DurationMinutes())
		prev = p
	}
}
