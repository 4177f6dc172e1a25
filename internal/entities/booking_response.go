package entities

import "time"

type BookingResponse struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	SpaceID      string    `json:"space_id"`
	SpaceTitle   string    `json:"space_title,omitempty"`
	SpaceAddress string    `json:"space_address,omitempty"`
	Date         string    `json:"date"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	TotalPrice   int       `json:"total_price"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CheckoutResponse is returned from a successful booking request; the
// driver completes payment at the Stripe checkout URL.
type CheckoutResponse struct {
	BookingID string `json:"booking_id"`
	Code      string `json:"code"`
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

type BookingsList struct {
	Total    int               `json:"total"`
	Bookings []BookingResponse `json:"bookings"`
}
