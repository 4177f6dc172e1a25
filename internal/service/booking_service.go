package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"parkconnect/internal/booking"
	"parkconnect/internal/entities"
	"parkconnect/internal/repository"
)

// BookingService sits between the HTTP layer and the booking coordinator.
// It translates DTOs into engine calls and drives the payment collaborator:
// the capacity hold is committed first, and a checkout failure releases it
// through the normal payment-failed transition.
type BookingService struct {
	Coord         *booking.Coordinator
	Repo          *repository.ReservationRepository
	users         repository.UserRepository
	stripeService *StripeService
}

func NewBookingService(coord *booking.Coordinator, repo *repository.ReservationRepository, users repository.UserRepository, stripeService *StripeService) *BookingService {
	return &BookingService{
		Coord:         coord,
		Repo:          repo,
		users:         users,
		stripeService: stripeService,
	}
}

func parseRange(date, startTime, endTime string) (booking.TimeRange, error) {
	startMin, err := booking.ParseTimeOfDay(startTime)
	if err != nil {
		return booking.TimeRange{}, err
	}
	var endMin int
	if endTime == "24:00" {
		endMin = 24 * 60
	} else {
		endMin, err = booking.ParseTimeOfDay(endTime)
		if err != nil {
			return booking.TimeRange{}, err
		}
	}
	return booking.NewTimeRange(date, startMin, endMin)
}

func (s *BookingService) CheckAvailability(req entities.AvailabilityRequest) (*entities.AvailabilityResponse, error) {
	r, err := parseRange(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	available, err := s.Coord.CheckAvailability(req.SpaceID, r)
	if err != nil {
		if errors.Is(err, booking.ErrOutsideAvailableWindow) {
			return &entities.AvailabilityResponse{Available: false, Message: "outside the space's opening hours"}, nil
		}
		return nil, err
	}
	resp := &entities.AvailabilityResponse{Available: available}
	if !available {
		resp.Message = "no spot free for the requested time"
	}
	return resp, nil
}

// RequestBooking creates a pending reservation with its hold committed and
// opens a Stripe checkout session for its total price. If the checkout
// cannot be created the reservation is cancelled and the hold released.
func (s *BookingService) RequestBooking(ctx context.Context, driverID string, req entities.BookingRequest) (*entities.CheckoutResponse, error) {
	r, err := parseRange(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(driverID)
	if err != nil {
		return nil, fmt.Errorf("looking up driver: %w", err)
	}
	if user == nil {
		return nil, booking.ErrNotAuthorized
	}

	res, err := s.Coord.RequestBooking(ctx, req.SpaceID, driverID, r)
	if err != nil {
		return nil, err
	}

	amountPaise := int64(res.TotalPrice) * 100
	sessionURL, sessionID, err := s.stripeService.CreateCheckoutSession(amountPaise, "inr", res.Code, user.Email)
	if err != nil {
		log.Printf("Checkout session failed for booking %s, cancelling: %v", res.Code, err)
		if _, ferr := s.Coord.PaymentFailed(ctx, res.ID); ferr != nil {
			log.Printf("Error cancelling booking %s after checkout failure: %v", res.Code, ferr)
		}
		return nil, fmt.Errorf("could not start payment: %w", err)
	}

	if err := s.Repo.SetStripeSession(ctx, res.ID, sessionID); err != nil {
		log.Printf("Error linking stripe session for booking %s: %v", res.Code, err)
	}

	return &entities.CheckoutResponse{
		BookingID: res.ID,
		Code:      res.Code,
		URL:       sessionURL,
		SessionID: sessionID,
	}, nil
}

// ConfirmBySessionID is driven by the checkout.session.completed webhook.
func (s *BookingService) ConfirmBySessionID(ctx context.Context, sessionID string) (*booking.Reservation, error) {
	id, err := s.Repo.GetReservationIDBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.Coord.ConfirmPayment(ctx, id)
}

// FailBySessionID is driven by checkout.session.expired.
func (s *BookingService) FailBySessionID(ctx context.Context, sessionID string) (*booking.Reservation, error) {
	id, err := s.Repo.GetReservationIDBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.Coord.PaymentFailed(ctx, id)
}

// CancelBooking cancels on behalf of the actor and refunds the payment.
// Cancel only succeeds from confirmed, so a successful cancel always means
// a payment was taken.
func (s *BookingService) CancelBooking(ctx context.Context, id string, actor booking.Actor) (*booking.Reservation, error) {
	res, err := s.Coord.Cancel(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	sessionID, serr := s.Repo.GetStripeSessionID(ctx, id)
	if serr != nil || sessionID == "" {
		log.Printf("No stripe session for cancelled booking %s, skipping refund: %v", res.Code, serr)
		return res, nil
	}
	if rerr := s.stripeService.RefundPaymentBySessionID(sessionID); rerr != nil {
		log.Printf("Refund failed for booking %s: %v", res.Code, rerr)
	}
	return res, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string, actor booking.Actor) (*booking.Reservation, error) {
	res, err := s.Coord.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != booking.RoleAdmin && res.DriverID != actor.UserID {
		sp, serr := s.Coord.GetSpace(res.SpaceID)
		if serr != nil || sp.OwnerID != actor.UserID {
			return nil, booking.ErrNotAuthorized
		}
	}
	return res, nil
}

// ListDriverBookings returns the actor's own bookings, optionally filtered
// by status, earliest start first.
func (s *BookingService) ListDriverBookings(driverID string, status booking.Status) []booking.Reservation {
	rs := s.Coord.ListReservations(booking.ReservationFilter{DriverID: driverID})
	rs = booking.FilterReservationsByStatus(rs, status)
	booking.SortReservationsByStart(rs)
	return rs
}

// ListOwnerBookings returns bookings across all spaces the owner has listed.
func (s *BookingService) ListOwnerBookings(ownerID string, status booking.Status) []booking.Reservation {
	rs := s.Coord.ListReservations(booking.ReservationFilter{OwnerID: ownerID})
	rs = booking.FilterReservationsByStatus(rs, status)
	booking.SortReservationsByStart(rs)
	return rs
}
