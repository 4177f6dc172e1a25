package api

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"parkconnect/internal/booking"
)

func TestToSpaceResponseTimes(t *testing.T) {
	sp := booking.Space{
		ID:          "sp-1",
		OpenMinute:  360,
		CloseMinute: 1320,
	}
	resp := toSpaceResponse(sp)
	assert.Equal(t, "06:00", resp.OpenTime)
	assert.Equal(t, "22:00", resp.CloseTime)

	// An around-the-clock space closes at "24:00", not "00:00".
	sp.OpenMinute = 0
	sp.CloseMinute = 24 * 60
	resp = toSpaceResponse(sp)
	assert.Equal(t, "00:00", resp.OpenTime)
	assert.Equal(t, "24:00", resp.CloseTime)
}
