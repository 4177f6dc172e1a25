package booking

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange           = errors.New("invalid time range")
	ErrSpaceNotFound          = errors.New("parking space not found")
	ErrSpaceExists            = errors.New("parking space already listed")
	ErrOutsideAvailableWindow = errors.New("range outside the space's available window")
	ErrCapacityExceeded       = errors.New("no capacity available for the requested range")
	ErrReservationNotFound    = errors.New("reservation not found")
	ErrNotAuthorized          = errors.New("actor not authorized for this reservation")
)

// IllegalTransitionError reports a lifecycle event applied to a reservation
// in a state that does not accept it. The reservation is left unchanged.
type IllegalTransitionError struct {
	From  Status
	Event Event
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition: event %q not allowed in state %q", e.Event, e.From)
}
