package booking

import "time"

// Transition is emitted on every lifecycle change, including creation
// (From is empty). Consumers hook in via Coordinator.Subscribe.
type Transition struct {
	ReservationID string
	Code          string
	From          Status
	To            Status
	At            time.Time
}

// Subscriber receives transitions after the change has been committed.
// Subscribers must not block; slow work (email, SMS) belongs in their own
// goroutines.
type Subscriber func(Transition)
