package booking

// Quote computes the total price for a range against a space's rates, in
// whole currency units. Ranges of a full day or more are billed per day,
// everything else per hour. Started hours and days always round up; we
// never undercharge a started unit.
func Quote(sp Space, r TimeRange) int {
	mins := r.DurationMinutes()
	if mins >= minutesPerDay {
		days := (mins + minutesPerDay - 1) / minutesPerDay
		return days * sp.PricePerDay
	}
	hours := (mins + 59) / 60
	return hours * sp.PricePerHour
}
