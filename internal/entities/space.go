package entities

// SpaceRequest is the owner-facing listing payload. OpenTime/CloseTime
// bound the daily window bookings may fall in.
type SpaceRequest struct {
	Title        string  `json:"title"`
	Address      string  `json:"address"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	PricePerHour int     `json:"price_per_hour"`
	PricePerDay  int     `json:"price_per_day"`
	TotalSpots   int     `json:"total_spots"`
	Available    bool    `json:"available"`
	OpenTime     string  `json:"open_time"`  // "HH:MM"
	CloseTime    string  `json:"close_time"` // "HH:MM", "24:00" allowed
}

type SpaceResponse struct {
	ID           string  `json:"id"`
	OwnerID      string  `json:"owner_id"`
	Title        string  `json:"title"`
	Address      string  `json:"address"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	PricePerHour int     `json:"price_per_hour"`
	PricePerDay  int     `json:"price_per_day"`
	Rating       float64 `json:"rating"`
	ReviewCount  int     `json:"review_count"`
	TotalSpots   int     `json:"total_spots"`
	Available    bool    `json:"available"`
	OpenTime     string  `json:"open_time"`
	CloseTime    string  `json:"close_time"`
	DistanceKm   float64 `json:"distance_km,omitempty"`
}
