package booking

// Space is a listed parking space. Capacity (TotalSpots) is only ever
// changed through owner updates, never by bookings; bookings act on the
// space's availability index instead.
type Space struct {
	ID           string
	OwnerID      string
	Title        string
	Address      string
	Latitude     float64
	Longitude    float64
	PricePerHour int
	PricePerDay  int
	Rating       float64
	ReviewCount  int
	TotalSpots   int
	Available    bool
	OpenMinute   int // start of the daily open window, minutes of day
	CloseMinute  int // end of the daily open window
}

// WindowContains reports whether the range falls inside the space's daily
// open/close window.
func (sp Space) WindowContains(r TimeRange) bool {
	return r.StartMinute >= sp.OpenMinute && r.EndMinute <= sp.CloseMinute
}
