package service

import (
	"fmt"

	"github.com/google/uuid"

	"parkconnect/internal/booking"
	"parkconnect/internal/entities"
	"parkconnect/internal/repository"
)

// SpaceService handles owner-side listing management. Writes go to the
// spaces table and to the coordinator, which owns the availability index.
type SpaceService struct {
	Coord *booking.Coordinator
	Repo  *repository.SpaceRepository
}

func NewSpaceService(coord *booking.Coordinator, repo *repository.SpaceRepository) *SpaceService {
	return &SpaceService{Coord: coord, Repo: repo}
}

func spaceFromRequest(id, ownerID string, req entities.SpaceRequest) (booking.Space, error) {
	openMin, err := booking.ParseTimeOfDay(req.OpenTime)
	if err != nil {
		return booking.Space{}, fmt.Errorf("invalid open_time: %w", err)
	}
	var closeMin int
	if req.CloseTime == "24:00" {
		closeMin = 24 * 60
	} else {
		closeMin, err = booking.ParseTimeOfDay(req.CloseTime)
		if err != nil {
			return booking.Space{}, fmt.Errorf("invalid close_time: %w", err)
		}
	}
	if req.TotalSpots <= 0 {
		return booking.Space{}, fmt.Errorf("total_spots must be positive")
	}
	return booking.Space{
		ID:           id,
		OwnerID:      ownerID,
		Title:        req.Title,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		PricePerHour: req.PricePerHour,
		PricePerDay:  req.PricePerDay,
		TotalSpots:   req.TotalSpots,
		Available:    req.Available,
		OpenMinute:   openMin,
		CloseMinute:  closeMin,
	}, nil
}

func (s *SpaceService) CreateSpace(ownerID string, req entities.SpaceRequest) (*booking.Space, error) {
	sp, err := spaceFromRequest(uuid.NewString(), ownerID, req)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.CreateSpace(sp); err != nil {
		return nil, err
	}
	if err := s.Coord.AddSpace(sp); err != nil {
		return nil, err
	}
	return &sp, nil
}

func (s *SpaceService) UpdateSpace(spaceID, ownerID string, req entities.SpaceRequest) (*booking.Space, error) {
	existing, err := s.Coord.GetSpace(spaceID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != ownerID {
		return nil, booking.ErrNotAuthorized
	}

	sp, err := spaceFromRequest(spaceID, ownerID, req)
	if err != nil {
		return nil, err
	}
	// Rating is reviewer-owned, not owner-owned.
	sp.Rating = existing.Rating
	sp.ReviewCount = existing.ReviewCount

	if err := s.Repo.UpdateSpace(sp); err != nil {
		return nil, err
	}
	if err := s.Coord.UpdateSpace(sp); err != nil {
		return nil, err
	}
	return &sp, nil
}

// ListSpaces serves the discovery screen: filter then sort, read-only.
func (s *SpaceService) ListSpaces(f booking.SpaceFilter, sortBy booking.SpaceSort, lat, lng float64) []booking.Space {
	spaces := booking.FilterSpaces(s.Coord.ListSpaces(), f)
	booking.SortSpaces(spaces, sortBy, lat, lng)
	return spaces
}
