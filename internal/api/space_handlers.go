package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"parkconnect/internal/auth"
	"parkconnect/internal/booking"
	"parkconnect/internal/entities"
	httperr "parkconnect/internal/errors"
	"parkconnect/internal/service"
)

type SpaceHandler struct {
	Service *service.SpaceService
}

func NewSpaceHandler(svc *service.SpaceService) *SpaceHandler {
	return &SpaceHandler{Service: svc}
}

func toSpaceResponse(sp booking.Space) entities.SpaceResponse {
	return entities.SpaceResponse{
		ID:           sp.ID,
		OwnerID:      sp.OwnerID,
		Title:        sp.Title,
		Address:      sp.Address,
		Latitude:     sp.Latitude,
		Longitude:    sp.Longitude,
		PricePerHour: sp.PricePerHour,
		PricePerDay:  sp.PricePerDay,
		Rating:       sp.Rating,
		ReviewCount:  sp.ReviewCount,
		TotalSpots:   sp.TotalSpots,
		Available:    sp.Available,
		OpenTime:     booking.FormatTimeOfDay(sp.OpenMinute),
		CloseTime:    booking.FormatTimeOfDay(sp.CloseMinute),
	}
}

// ListSpaces serves the discovery screen. Query params: available=true,
// max_price, min_rating, sort=distance|price|rating, lat, lng.
func (h *SpaceHandler) ListSpaces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var f booking.SpaceFilter
	f.OnlyAvailable = q.Get("available") == "true"
	if v := q.Get("max_price"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.MaxHourlyPrice = n
		}
	}
	if v := q.Get("min_rating"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinRating = n
		}
	}

	sortBy := booking.SpaceSort(q.Get("sort"))
	lat, _ := strconv.ParseFloat(q.Get("lat"), 64)
	lng, _ := strconv.ParseFloat(q.Get("lng"), 64)

	spaces := h.Service.ListSpaces(f, sortBy, lat, lng)
	out := make([]entities.SpaceResponse, 0, len(spaces))
	for _, sp := range spaces {
		out = append(out, toSpaceResponse(sp))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (h *SpaceHandler) CreateSpace(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req entities.SpaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	sp, err := h.Service.CreateSpace(actor.UserID, req)
	if err != nil {
		httperr.WriteJSON(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toSpaceResponse(*sp))
}

func (h *SpaceHandler) UpdateSpace(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]
	var req entities.SpaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	sp, err := h.Service.UpdateSpace(id, actor.UserID, req)
	if err != nil {
		httperr.WriteJSON(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toSpaceResponse(*sp))
}
