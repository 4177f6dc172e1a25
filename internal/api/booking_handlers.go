package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"parkconnect/internal/auth"
	"parkconnect/internal/booking"
	"parkconnect/internal/entities"
	httperr "parkconnect/internal/errors"
	"parkconnect/internal/service"
)

type BookingHandler struct {
	Service *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

func toBookingResponse(res booking.Reservation, sp *booking.Space) entities.BookingResponse {
	out := entities.BookingResponse{
		ID:         res.ID,
		Code:       res.Code,
		SpaceID:    res.SpaceID,
		Date:       res.Range.Date,
		StartTime:  booking.FormatTimeOfDay(res.Range.StartMinute),
		EndTime:    booking.FormatTimeOfDay(res.Range.EndMinute),
		TotalPrice: res.TotalPrice,
		Status:     string(res.Status),
		CreatedAt:  res.CreatedAt,
		UpdatedAt:  res.UpdatedAt,
	}
	if sp != nil {
		out.SpaceTitle = sp.Title
		out.SpaceAddress = sp.Address
	}
	return out
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req entities.AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	resp, err := h.Service.CheckAvailability(req)
	if err != nil {
		httperr.WriteJSON(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req entities.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	resp, err := h.Service.RequestBooking(r.Context(), actor.UserID, req)
	if err != nil {
		httperr.WriteJSON(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]
	res, err := h.Service.GetBooking(r.Context(), id, actor)
	if err != nil {
		httperr.WriteJSON(w, err)
		return
	}
	sp, _ := h.Service.Coord.GetSpace(res.SpaceID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toBookingResponse(*res, &sp))
}

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	status := booking.Status(r.URL.Query().Get("status"))
	h.writeList(w, h.Service.ListDriverBookings(actor.UserID, status))
}

// ListOwnerBookings returns bookings across every space the owner lists.
func (h *BookingHandler) ListOwnerBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	status := booking.Status(r.URL.Query().Get("status"))
	h.writeList(w, h.Service.ListOwnerBookings(actor.UserID, status))
}

func (h *BookingHandler) writeList(w http.ResponseWriter, rs []booking.Reservation) {
	list := entities.BookingsList{Total: len(rs), Bookings: make([]entities.BookingResponse, 0, len(rs))}
	for _, res := range rs {
		sp, err := h.Service.Coord.GetSpace(res.SpaceID)
		if err != nil {
			list.Bookings = append(list.Bookings, toBookingResponse(res, nil))
			continue
		}
		list.Bookings = append(list.Bookings, toBookingResponse(res, &sp))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]
	res, err := h.Service.CancelBooking(r.Context(), id, actor)
	if err != nil {
		httperr.WriteJSON(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toBookingResponse(*res, nil))
}
