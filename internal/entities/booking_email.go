package entities

// BookingEmailData feeds the booking status email template.
type BookingEmailData struct {
	UserName       string
	BookingCode    string
	SpaceTitle     string
	SpaceAddress   string
	DateFormatted  string
	StartFormatted string
	EndFormatted   string
	TotalPrice     int
	Status         string
	CurrentYear    int
}
