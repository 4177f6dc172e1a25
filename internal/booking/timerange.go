package booking

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// TimeRange is a half-open [StartMinute, EndMinute) interval of minutes of
// day on a single date. Ranges never span midnight; a booking that should
// cross midnight has to be split by the caller, which we deliberately do not
// support.
type TimeRange struct {
	Date        string // "2006-01-02"
	StartMinute int
	EndMinute   int
}

// NewTimeRange validates the bounds and the date format.
func NewTimeRange(date string, startMinute, endMinute int) (TimeRange, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return TimeRange{}, ErrInvalidRange
	}
	if startMinute < 0 || startMinute >= minutesPerDay || endMinute < 0 || endMinute > minutesPerDay {
		return TimeRange{}, ErrInvalidRange
	}
	if startMinute >= endMinute {
		return TimeRange{}, ErrInvalidRange
	}
	return TimeRange{Date: date, StartMinute: startMinute, EndMinute: endMinute}, nil
}

// Overlaps reports whether the two ranges share any instant. Ranges on
// different dates never overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	if r.Date != other.Date {
		return false
	}
	return r.StartMinute < other.EndMinute && other.StartMinute < r.EndMinute
}

func (r TimeRange) DurationMinutes() int {
	return r.EndMinute - r.StartMinute
}

// StartTime and EndTime anchor the range to wall-clock time in UTC.
func (r TimeRange) StartTime() time.Time {
	d, _ := time.Parse("2006-01-02", r.Date)
	return d.Add(time.Duration(r.StartMinute) * time.Minute)
}

func (r TimeRange) EndTime() time.Time {
	d, _ := time.Parse("2006-01-02", r.Date)
	return d.Add(time.Duration(r.EndMinute) * time.Minute)
}

func (r TimeRange) String() string {
	return fmt.Sprintf("%s %s-%s", r.Date, FormatTimeOfDay(r.StartMinute), FormatTimeOfDay(r.EndMinute))
}

// ParseTimeOfDay converts "HH:MM" into minutes of day.
func ParseTimeOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, ErrInvalidRange
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatTimeOfDay(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
