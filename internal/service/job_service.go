package service

import (
	"context"
	"log"

	"parkconnect/internal/booking"
)

// JobService runs the time-driven sweeps: pending reservations past the
// payment timeout are auto-cancelled, confirmed reservations past their
// range are completed. Both go through the coordinator's normal transition
// path, so a sweep racing a late webhook resolves cleanly.
type JobService struct {
	Coord *booking.Coordinator
}

func NewJobService(coord *booking.Coordinator) *JobService {
	return &JobService{Coord: coord}
}

func (s *JobService) ExpirePendingBookings() {
	n, err := s.Coord.ExpirePending(context.Background())
	if err != nil {
		log.Printf("Cron Job: error expiring pending bookings: %v", err)
	}
	if n > 0 {
		log.Printf("Cron Job: auto-cancelled %d unpaid bookings past the payment timeout", n)
	}
}

func (s *JobService) CompleteElapsedBookings() {
	n, err := s.Coord.CompleteElapsed(context.Background())
	if err != nil {
		log.Printf("Cron Job: error completing elapsed bookings: %v", err)
	}
	if n > 0 {
		log.Printf("Cron Job: marked %d bookings as completed", n)
	}
}
