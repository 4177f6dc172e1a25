package booking

import (
	"math"
	"sort"
)

// Read-side filtering and sorting for presentation. Everything here works
// on copies and never mutates coordinator state.

type SpaceFilter struct {
	OnlyAvailable  bool
	MaxHourlyPrice int     // 0 means no limit
	MinRating      float64 // 0 means no minimum
}

func FilterSpaces(spaces []Space, f SpaceFilter) []Space {
	out := make([]Space, 0, len(spaces))
	for _, sp := range spaces {
		if f.OnlyAvailable && !sp.Available {
			continue
		}
		if f.MaxHourlyPrice > 0 && sp.PricePerHour > f.MaxHourlyPrice {
			continue
		}
		if f.MinRating > 0 && sp.Rating < f.MinRating {
			continue
		}
		out = append(out, sp)
	}
	return out
}

type SpaceSort string

const (
	SortByDistance SpaceSort = "distance"
	SortByPrice    SpaceSort = "price"
	SortByRating   SpaceSort = "rating"
)

// SortSpaces orders spaces in place. Distance sorting needs the caller's
// coordinates; price ascends, rating descends.
func SortSpaces(spaces []Space, by SpaceSort, lat, lng float64) {
	switch by {
	case SortByPrice:
		sort.Slice(spaces, func(i, j int) bool {
			return spaces[i].PricePerHour < spaces[j].PricePerHour
		})
	case SortByRating:
		sort.Slice(spaces, func(i, j int) bool {
			return spaces[i].Rating > spaces[j].Rating
		})
	case SortByDistance:
		sort.Slice(spaces, func(i, j int) bool {
			return distanceKm(lat, lng, spaces[i].Latitude, spaces[i].Longitude) <
				distanceKm(lat, lng, spaces[j].Latitude, spaces[j].Longitude)
		})
	}
}

func FilterReservationsByStatus(rs []Reservation, status Status) []Reservation {
	if status == "" {
		return rs
	}
	out := make([]Reservation, 0, len(rs))
	for _, r := range rs {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

// SortReservationsByStart orders reservations by their range start,
// earliest first; ties fall back to creation time.
func SortReservationsByStart(rs []Reservation) {
	sort.Slice(rs, func(i, j int) bool {
		si, sj := rs[i].Range.StartTime(), rs[j].Range.StartTime()
		if si.Equal(sj) {
			return rs[i].CreatedAt.Before(rs[j].CreatedAt)
		}
		return si.Before(sj)
	})
}

const earthRadiusKm = 6371.0

// distanceKm is the haversine great-circle distance.
func distanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
