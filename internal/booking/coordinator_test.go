package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type memStore struct {
	mu        sync.Mutex
	rows      map[string]Reservation
	createErr error
}

func newMemStore() *memStore { return &memStore{rows: make(map[string]Reservation)} }

func (s *memStore) CreateReservation(_ context.Context, res *Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.rows[res.ID] = *res
	return nil
}

func (s *memStore) UpdateReservationStatus(_ context.Context, id string, status Status, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return errors.New("row not found")
	}
	row.Status = status
	row.UpdatedAt = updatedAt
	s.rows[id] = row
	return nil
}

func (s *memStore) ListActiveReservations(_ context.Context) ([]Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Reservation
	for _, row := range s.rows {
		if row.Status == StatusPending || row.Status == StatusConfirmed {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *memStore) status(t *testing.T, id string) Status {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	require.True(t, ok, "reservation %s not persisted", id)
	return row.Status
}

var testDay = time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

func testSpace(id string, spots int) Space {
	return Space{
		ID:           id,
		OwnerID:      "owner-1",
		Title:        "Test Driveway",
		PricePerHour: 50,
		PricePerDay:  400,
		TotalSpots:   spots,
		Available:    true,
		OpenMinute:   360,  // 06:00
		CloseMinute:  1320, // 22:00
	}
}

func newTestCoordinator(t *testing.T, spots int) (*Coordinator, *memStore, *fakeClock) {
	t.Helper()
	store := newMemStore()
	clock := newFakeClock(testDay)
	c := NewCoordinator(store, clock, 15*time.Minute)
	require.NoError(t, c.AddSpace(testSpace("sp-1", spots)))
	return c, store, clock
}

func TestRequestBookingHappyPath(t *testing.T) {
	c, store, _ := newTestCoordinator(t, 2)
	r := mustRange(t, 600, 840) // 10:00-14:00

	res, err := c.RequestBooking(context.Background(), "sp-1", "drv-1", r)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, res.Status)
	assert.Equal(t, 200, res.TotalPrice)
	assert.NotEmpty(t, res.ID)
	assert.NotEmpty(t, res.Code)
	assert.Equal(t, StatusPending, store.status(t, res.ID))
}

func TestRequestBookingValidation(t *testing.T) {
	c, _, _ := newTestCoordinator(t, 1)

	_, err := c.RequestBooking(context.Background(), "nope", "drv-1", mustRange(t, 600, 660))
	assert.ErrorIs(t, err, ErrSpaceNotFound)

	// Space opens at 06:00; 05:00 is outside the window.
	_, err = c.RequestBooking(context.Background(), "sp-1", "drv-1", mustRange(t, 300, 420))
	assert.ErrorIs(t, err, ErrOutsideAvailableWindow)

	// Rejected requests never leave a reservation behind.
	assert.Empty(t, c.ListReservations(ReservationFilter{}))
}

func TestConcurrentRequestsLastSpot(t *testing.T) {
	c, _, _ := newTestCoordinator(t, 1)

	ranges := []TimeRange{
		mustRange(t, 540, 660), // 09:00-11:00
		mustRange(t, 600, 720), // 10:00-12:00
	}

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = c.RequestBooking(context.Background(), "sp-1", "drv-1", ranges[i])
		}(i)
	}
	wg.Wait()

	okCount, capCount := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, ErrCapacityExceeded):
			capCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, okCount, "exactly one request wins the last spot")
	assert.Equal(t, 1, capCount)
}

func TestConfirmAndCompleteFlow(t *testing.T) {
	c, store, clock := newTestCoordinator(t, 1)

	var transitions []Transition
	var mu sync.Mutex
	c.Subscribe(func(tr Transition) {
		mu.Lock()
		transitions = append(transitions, tr)
		mu.Unlock()
	})

	res, err := c.RequestBooking(context.Background(), "sp-1", "drv-1", mustRange(t, 600, 720))
	require.NoError(t, err)

	confirmed, err := c.ConfirmPayment(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)

	// Past the range end the sweep completes it and frees the slot.
	clock.Advance(6 * time.Hour)
	n, err := c.CompleteElapsed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, StatusCompleted, store.status(t, res.ID))

	ok, err := c.CheckAvailability("sp-1", mustRange(t, 600, 720))
	require.NoError(t, err)
	assert.True(t, ok)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, transitions, 3)
	assert.Equal(t, StatusPending, transitions[0].To)
	assert.Equal(t, StatusPending, transitions[1].From)
	assert.Equal(t, StatusConfirmed, transitions[1].To)
	assert.Equal(t, StatusConfirmed, transitions[2].From)
	assert.Equal(t, StatusCompleted, transitions[2].To)
}

func TestPaymentFailedReleasesHold(t *testing.T) {
	c, _, _ := newTestCoordinator(t, 1)
	r := mustRange(t, 600, 720)

	res, err := c.RequestBooking(context.Background(), "sp-1", "drv-1", r)
	require.NoError(t, err)

	_, err = c.RequestBooking(context.Background(), "sp-1", "drv-2", r)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	cancelled, err := c.PaymentFailed(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	_, err = c.RequestBooking(context.Background(), "sp-1", "drv-2", r)
	assert.NoError(t, err)
}

func TestPendingTimeoutFreesCapacity(t *testing.T) {
	c, store, clock := newTestCoordinator(t, 1)
	r := mustRange(t, 600, 720)

	res, err := c.RequestBooking(context.Background(), "sp-1", "drv-1", r)
	require.NoError(t, err)

	// 14 minutes in the reservation still blocks the slot.
	clock.Advance(14 * time.Minute)
	n, err := c.ExpirePending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	clock.Advance(2 * time.Minute)
	n, err = c.ExpirePending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, StatusCancelled, store.status(t, res.ID))

	// An identical request now succeeds.
	_, err = c.RequestBooking(context.Background(), "sp-1", "drv-2", r)
	assert.NoError(t, err)

	// The late payment confirmation loses cleanly.
	_, err = c.ConfirmPayment(context.Background(), res.ID)
	var it *IllegalTransitionError
	require.ErrorAs(t, err, &it)
	assert.Equal(t, StatusCancelled, it.From)
}

func TestConfirmPaymentOnCancelledReservation(t *testing.T) {
	c, _, _ := newTestCoordinator(t, 1)

	res, err := c.RequestBooking(context.Background(), "sp-1", "drv-1", mustRange(t, 600, 720))
	require.NoError(t, err)
	_, err = c.PaymentFailed(context.Background(), res.ID)
	require.NoError(t, err)

	_, err = c.ConfirmPayment(context.Background(), res.ID)
	var it *IllegalTransitionError
	require.ErrorAs(t, err, &it)

	got, err := c.GetReservation(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status, "reservation unchanged after illegal event")
}

func TestCancelAuthorization(t *testing.T) {
	c, _, _ := newTestCoordinator(t, 1)

	res, err := c.RequestBooking(context.Background(), "sp-1", "drv-1", mustRange(t, 600, 720))
	require.NoError(t, err)
	_, err = c.ConfirmPayment(context.Background(), res.ID)
	require.NoError(t, err)

	_, err = c.Cancel(context.Background(), res.ID, Actor{UserID: "stranger", Role: RoleDriver})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// The space owner may cancel a confirmed booking on their space.
	cancelled, err := c.Cancel(context.Background(), res.ID, Actor{UserID: "owner-1", Role: RoleOwner})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	_, err = c.Cancel(context.Background(), "missing", Actor{UserID: "drv-1", Role: RoleDriver})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestStoreFailureRollsBackHold(t *testing.T) {
	c, store, _ := newTestCoordinator(t, 1)
	r := mustRange(t, 600, 720)

	store.mu.Lock()
	store.createErr = errors.New("disk full")
	store.mu.Unlock()

	_, err := c.RequestBooking(context.Background(), "sp-1", "drv-1", r)
	require.Error(t, err)

	store.mu.Lock()
	store.createErr = nil
	store.mu.Unlock()

	// The failed request must not leak its hold.
	_, err = c.RequestBooking(context.Background(), "sp-1", "drv-1", r)
	assert.NoError(t, err)
}

func TestGetReservationEagerlyCompletes(t *testing.T) {
	c, _, clock := newTestCoordinator(t, 1)

	res, err := c.RequestBooking(context.Background(), "sp-1", "drv-1", mustRange(t, 600, 720))
	require.NoError(t, err)
	_, err = c.ConfirmPayment(context.Background(), res.ID)
	require.NoError(t, err)

	clock.Advance(8 * time.Hour)
	got, err := c.GetReservation(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestRestoreRebuildsIndexes(t *testing.T) {
	store := newMemStore()
	clock := newFakeClock(testDay)

	first := NewCoordinator(store, clock, 15*time.Minute)
	require.NoError(t, first.AddSpace(testSpace("sp-1", 1)))
	res, err := first.RequestBooking(context.Background(), "sp-1", "drv-1", mustRange(t, 600, 720))
	require.NoError(t, err)
	_, err = first.ConfirmPayment(context.Background(), res.ID)
	require.NoError(t, err)

	// A fresh coordinator over the same store sees the same availability.
	second := NewCoordinator(store, clock, 15*time.Minute)
	require.NoError(t, second.AddSpace(testSpace("sp-1", 1)))
	n, err := second.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = second.RequestBooking(context.Background(), "sp-1", "drv-2", mustRange(t, 630, 690))
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	// Cancelling the restored reservation frees the slot, proving the
	// replayed hold is live, not a dead entry.
	_, err = second.Cancel(context.Background(), res.ID, Actor{UserID: "drv-1", Role: RoleDriver})
	require.NoError(t, err)
	_, err = second.RequestBooking(context.Background(), "sp-1", "drv-2", mustRange(t, 630, 690))
	assert.NoError(t, err)
}

func TestUpdateSpaceCapacity(t *testing.T) {
	c, _, _ := newTestCoordinator(t, 1)
	r := mustRange(t, 600, 720)

	_, err := c.RequestBooking(context.Background(), "sp-1", "drv-1", r)
	require.NoError(t, err)
	_, err = c.RequestBooking(context.Background(), "sp-1", "drv-2", r)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	sp := testSpace("sp-1", 2)
	require.NoError(t, c.UpdateSpace(sp))

	_, err = c.RequestBooking(context.Background(), "sp-1", "drv-2", r)
	assert.NoError(t, err)
}

// Cancel succeeds only from confirmed: an unpaid booking cannot be
// cancelled by the driver, and one already completed by the sweep fails
// cleanly. Refund handling relies on this.
func TestCancelOnlyFromConfirmed(t *testing.T) {
	c, _, clock := newTestCoordinator(t, 1)
	ctx := context.Background()
	actor := Actor{UserID: "drv-1", Role: RoleDriver}

	res, err := c.RequestBooking(ctx, "sp-1", "drv-1", mustRange(t, 600, 720))
	require.NoError(t, err)

	var it *IllegalTransitionError
	_, err = c.Cancel(ctx, res.ID, actor)
	require.ErrorAs(t, err, &it)
	assert.Equal(t, StatusPending, it.From)

	_, err = c.ConfirmPayment(ctx, res.ID)
	require.NoError(t, err)

	clock.Advance(5 * time.Hour) // past the 12:00 end
	n, err := c.CompleteElapsed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = c.Cancel(ctx, res.ID, actor)
	require.ErrorAs(t, err, &it)
	assert.Equal(t, StatusCompleted, it.From)
}

// Owner updates race owner-scoped listings and owner-authorized cancels;
// run under the race detector.
func TestUpdateSpaceConcurrentWithOwnerQueries(t *testing.T) {
	c, _, _ := newTestCoordinator(t, 2)
	ctx := context.Background()

	res, err := c.RequestBooking(ctx, "sp-1", "drv-1", mustRange(t, 600, 720))
	require.NoError(t, err)
	_, err = c.ConfirmPayment(ctx, res.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		sp := testSpace("sp-1", 2)
		for i := 0; i < 200; i++ {
			sp.PricePerHour = 50 + i
			assert.NoError(t, c.UpdateSpace(sp))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			c.ListReservations(ReservationFilter{OwnerID: "owner-1"})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			b, err := c.RequestBooking(ctx, "sp-1", "drv-2", mustRange(t, 780, 840))
			if !assert.NoError(t, err) {
				return
			}
			if _, err := c.ConfirmPayment(ctx, b.ID); !assert.NoError(t, err) {
				return
			}
			if _, err := c.Cancel(ctx, b.ID, Actor{UserID: "owner-1", Role: RoleOwner}); !assert.NoError(t, err) {
				return
			}
		}
	}()
	wg.Wait()

	rs := c.ListReservations(ReservationFilter{OwnerID: "owner-1", Status: StatusConfirmed})
	require.Len(t, rs, 1)
	assert.Equal(t, res.ID, rs[0].ID)
}
