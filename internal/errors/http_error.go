package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"parkconnect/internal/booking"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message}
}

// FromBooking maps engine errors onto status codes. Unknown errors are
// internal.
func FromBooking(err error) *HTTPError {
	var it *booking.IllegalTransitionError
	switch {
	case errors.Is(err, booking.ErrInvalidRange),
		errors.Is(err, booking.ErrOutsideAvailableWindow):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrSpaceNotFound),
		errors.Is(err, booking.ErrReservationNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, booking.ErrCapacityExceeded),
		errors.Is(err, booking.ErrSpaceExists),
		errors.As(err, &it):
		return NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, booking.ErrNotAuthorized):
		return NewHTTPError(http.StatusForbidden, err.Error())
	}
	return NewHTTPError(http.StatusInternalServerError, "internal error")
}

// WriteJSON renders the mapped error as a JSON body.
func WriteJSON(w http.ResponseWriter, err error) {
	he := FromBooking(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.Code)
	json.NewEncoder(w).Encode(map[string]string{"error": he.Message})
}
