package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkconnect/internal/booking"
	"parkconnect/internal/entities"
)

func TestParseRange(t *testing.T) {
	r, err := parseRange("2026-03-14", "10:00", "14:30")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", r.Date)
	assert.Equal(t, 600, r.StartMinute)
	assert.Equal(t, 870, r.EndMinute)

	// "24:00" means end of day, which time.Parse alone would reject.
	r, err = parseRange("2026-03-14", "00:00", "24:00")
	require.NoError(t, err)
	assert.Equal(t, 1440, r.EndMinute)

	_, err = parseRange("2026-03-14", "14:00", "10:00")
	assert.ErrorIs(t, err, booking.ErrInvalidRange)
	_, err = parseRange("14-03-2026", "10:00", "12:00")
	assert.ErrorIs(t, err, booking.ErrInvalidRange)
	_, err = parseRange("2026-03-14", "10am", "12:00")
	assert.ErrorIs(t, err, booking.ErrInvalidRange)
}

func TestSpaceFromRequest(t *testing.T) {
	req := entities.SpaceRequest{
		Title:        "Indiranagar Garage",
		Address:      "100 Feet Rd",
		PricePerHour: 60,
		PricePerDay:  500,
		TotalSpots:   3,
		Available:    true,
		OpenTime:     "06:00",
		CloseTime:    "24:00",
	}
	sp, err := spaceFromRequest("sp-1", "owner-1", req)
	require.NoError(t, err)
	assert.Equal(t, 360, sp.OpenMinute)
	assert.Equal(t, 1440, sp.CloseMinute)
	assert.Equal(t, "owner-1", sp.OwnerID)

	req.TotalSpots = 0
	_, err = spaceFromRequest("sp-1", "owner-1", req)
	assert.Error(t, err)

	req.TotalSpots = 3
	req.CloseTime = "26:00"
	_, err = spaceFromRequest("sp-1", "owner-1", req)
	assert.Error(t, err)
}
