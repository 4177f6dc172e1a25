package entities

// BookingRequest is the driver-facing create payload. Times are "HH:MM"
// on a single date; cross-midnight bookings are not supported.
type BookingRequest struct {
	SpaceID   string `json:"space_id"`
	Date      string `json:"date"` // "2006-01-02"
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type AvailabilityRequest struct {
	SpaceID   string `json:"space_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
}
