package booking

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Event drives a reservation through its lifecycle.
type Event string

const (
	EventPaymentSucceeded Event = "payment_succeeded"
	EventPaymentFailed    Event = "payment_failed"
	EventTimeout          Event = "timeout"
	EventCancel           Event = "cancel"
	EventRangeElapsed     Event = "range_elapsed"
)

// nextStatus is the transition table. Everything not listed is illegal and
// leaves the reservation untouched.
func nextStatus(from Status, ev Event) (Status, error) {
	switch from {
	case StatusPending:
		switch ev {
		case EventPaymentSucceeded:
			return StatusConfirmed, nil
		case EventPaymentFailed, EventTimeout:
			return StatusCancelled, nil
		}
	case StatusConfirmed:
		switch ev {
		case EventCancel:
			return StatusCancelled, nil
		case EventRangeElapsed:
			return StatusCompleted, nil
		}
	}
	return from, &IllegalTransitionError{From: from, Event: ev}
}

// releasesHold reports whether the event gives the reservation's capacity
// back to the pool.
func releasesHold(ev Event) bool {
	switch ev {
	case EventPaymentFailed, EventTimeout, EventCancel, EventRangeElapsed:
		return true
	}
	return false
}

// Reservation is a driver's claim on a space for one time range. Exactly
// one exists per accepted request; a rejected request never produces one.
type Reservation struct {
	ID         string
	Code       string // short user-facing booking code
	SpaceID    string
	DriverID   string
	Range      TimeRange
	TotalPrice int
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time

	holdToken HoldToken
}

type Role string

const (
	RoleDriver Role = "driver"
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
)

// Actor identifies who is asking for a lifecycle change.
type Actor struct {
	UserID string
	Role   Role
}
