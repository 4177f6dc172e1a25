package booking

import (
	"context"
	"time"
)

// Store is the persistence collaborator. The coordinator owns the
// in-memory state; the store is a durable reservation log read back at
// startup to rebuild each space's availability index.
type Store interface {
	CreateReservation(ctx context.Context, res *Reservation) error
	UpdateReservationStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error
	// ListActiveReservations returns every pending or confirmed
	// reservation, the set whose holds must be replayed on restore.
	ListActiveReservations(ctx context.Context) ([]Reservation, error)
}
