package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultPendingTimeout = 15 * time.Minute

// spaceState couples a space with its availability index. st.mu is the
// per-space critical section: check-then-hold must run under it as one
// unit, and it is never held across store or payment calls.
type spaceState struct {
	mu    sync.Mutex
	space Space
	index *Index
}

// Coordinator orchestrates the booking flow: it validates requests against
// the availability index, prices them, owns every reservation's lifecycle
// and keeps the index consistent with it. Operations on different spaces
// only share the short map lookups on c.mu.
type Coordinator struct {
	mu           sync.RWMutex
	spaces       map[string]*spaceState
	reservations map[string]*Reservation

	store          Store
	clock          Clock
	pendingTimeout time.Duration

	subMu sync.RWMutex
	subs  []Subscriber
}

func NewCoordinator(store Store, clock Clock, pendingTimeout time.Duration) *Coordinator {
	if clock == nil {
		clock = RealClock{}
	}
	if pendingTimeout <= 0 {
		pendingTimeout = DefaultPendingTimeout
	}
	return &Coordinator{
		spaces:         make(map[string]*spaceState),
		reservations:   make(map[string]*Reservation),
		store:          store,
		clock:          clock,
		pendingTimeout: pendingTimeout,
	}
}

// Subscribe registers a consumer of lifecycle transitions. Subscribers are
// invoked after the transition has been committed, outside all locks.
func (c *Coordinator) Subscribe(fn Subscriber) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.subs = append(c.subs, fn)
}

func (c *Coordinator) notify(t Transition) {
	c.subMu.RLock()
	subs := make([]Subscriber, len(c.subs))
	copy(subs, c.subs)
	c.subMu.RUnlock()
	for _, fn := range subs {
		fn(t)
	}
}

// AddSpace lists a space and creates its availability index.
func (c *Coordinator) AddSpace(sp Space) error {
	if sp.CloseMinute == 0 {
		sp.CloseMinute = minutesPerDay
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.spaces[sp.ID]; ok {
		return ErrSpaceExists
	}
	c.spaces[sp.ID] = &spaceState{space: sp, index: NewIndex(sp.TotalSpots)}
	return nil
}

// UpdateSpace applies an owner-side update (rates, capacity, window).
// Existing holds survive a capacity change; only new requests see it.
func (c *Coordinator) UpdateSpace(sp Space) error {
	if sp.CloseMinute == 0 {
		sp.CloseMinute = minutesPerDay
	}
	c.mu.RLock()
	st, ok := c.spaces[sp.ID]
	c.mu.RUnlock()
	if !ok {
		return ErrSpaceNotFound
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.space = sp
	st.index.SetTotalSpots(sp.TotalSpots)
	return nil
}

func (c *Coordinator) GetSpace(id string) (Space, error) {
	c.mu.RLock()
	st, ok := c.spaces[id]
	c.mu.RUnlock()
	if !ok {
		return Space{}, ErrSpaceNotFound
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.space, nil
}

func (c *Coordinator) ListSpaces() []Space {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Space, 0, len(c.spaces))
	for _, st := range c.spaces {
		st.mu.Lock()
		out = append(out, st.space)
		st.mu.Unlock()
	}
	return out
}

// CheckAvailability answers whether one more vehicle fits for the range.
func (c *Coordinator) CheckAvailability(spaceID string, r TimeRange) (bool, error) {
	c.mu.RLock()
	st, ok := c.spaces[spaceID]
	c.mu.RUnlock()
	if !ok {
		return false, ErrSpaceNotFound
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.space.WindowContains(r) {
		return false, ErrOutsideAvailableWindow
	}
	return st.index.CapacityAvailable(r, 1), nil
}

// RequestBooking validates the range against the space's window, commits a
// capacity hold and persists a pending reservation. The request either
// fully succeeds or fully fails; a failed store write rolls the hold back.
func (c *Coordinator) RequestBooking(ctx context.Context, spaceID, driverID string, r TimeRange) (*Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	st, ok := c.spaces[spaceID]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrSpaceNotFound
	}

	st.mu.Lock()
	if !st.space.WindowContains(r) {
		st.mu.Unlock()
		return nil, ErrOutsideAvailableWindow
	}
	price := Quote(st.space, r)
	tok, err := st.index.Hold(r, 1)
	st.mu.Unlock()
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	res := &Reservation{
		ID:         uuid.NewString(),
		Code:       newBookingCode(),
		SpaceID:    spaceID,
		DriverID:   driverID,
		Range:      r,
		TotalPrice: price,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
		holdToken:  tok,
	}

	// The store write happens outside the per-space critical section; the
	// hold is already committed and is rolled back on failure.
	if err := c.store.CreateReservation(ctx, res); err != nil {
		st.mu.Lock()
		st.index.Release(tok)
		st.mu.Unlock()
		return nil, fmt.Errorf("persisting reservation: %w", err)
	}

	c.mu.Lock()
	c.reservations[res.ID] = res
	c.mu.Unlock()

	c.notify(Transition{ReservationID: res.ID, Code: res.Code, To: StatusPending, At: now})

	out := *res
	return &out, nil
}

// ConfirmPayment drives pending -> confirmed after the payment collaborator
// reported success for the reservation's total price.
func (c *Coordinator) ConfirmPayment(ctx context.Context, id string) (*Reservation, error) {
	return c.applyEvent(ctx, id, EventPaymentSucceeded, nil)
}

// PaymentFailed cancels the pending reservation and releases its hold.
func (c *Coordinator) PaymentFailed(ctx context.Context, id string) (*Reservation, error) {
	return c.applyEvent(ctx, id, EventPaymentFailed, nil)
}

// Cancel cancels a confirmed reservation. Only the requester, the space
// owner or an admin may cancel.
func (c *Coordinator) Cancel(ctx context.Context, id string, actor Actor) (*Reservation, error) {
	return c.applyEvent(ctx, id, EventCancel, &actor)
}

// GetReservation returns a snapshot, eagerly completing a confirmed
// reservation whose range has already elapsed.
func (c *Coordinator) GetReservation(ctx context.Context, id string) (*Reservation, error) {
	c.mu.RLock()
	res, ok := c.reservations[id]
	if !ok {
		c.mu.RUnlock()
		return nil, ErrReservationNotFound
	}
	out := *res
	c.mu.RUnlock()

	if out.Status == StatusConfirmed && !out.Range.EndTime().After(c.clock.Now()) {
		completed, err := c.applyEvent(ctx, id, EventRangeElapsed, nil)
		var it *IllegalTransitionError
		if err == nil || !errors.As(err, &it) {
			return completed, err
		}
		// Lost a race against another transition; re-read the snapshot.
		c.mu.RLock()
		out = *res
		c.mu.RUnlock()
	}
	return &out, nil
}

// ReservationFilter narrows ListReservations. Zero values match everything.
type ReservationFilter struct {
	DriverID string
	SpaceID  string
	OwnerID  string
	Status   Status
}

func (c *Coordinator) ListReservations(f ReservationFilter) []Reservation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Reservation
	for _, res := range c.reservations {
		if f.DriverID != "" && res.DriverID != f.DriverID {
			continue
		}
		if f.SpaceID != "" && res.SpaceID != f.SpaceID {
			continue
		}
		if f.Status != "" && res.Status != f.Status {
			continue
		}
		if f.OwnerID != "" {
			st, ok := c.spaces[res.SpaceID]
			if !ok {
				continue
			}
			// st.space is guarded by st.mu, not c.mu; an owner update
			// may run concurrently with this listing.
			st.mu.Lock()
			owner := st.space.OwnerID
			st.mu.Unlock()
			if owner != f.OwnerID {
				continue
			}
		}
		out = append(out, *res)
	}
	return out
}

// ExpirePending auto-cancels pending reservations older than the payment
// timeout, freeing their capacity for other drivers. Runs from the cron
// sweep; a late ConfirmPayment racing the sweep loses cleanly with an
// IllegalTransition.
func (c *Coordinator) ExpirePending(ctx context.Context) (int, error) {
	cutoff := c.clock.Now().Add(-c.pendingTimeout)
	ids := c.collect(func(res *Reservation) bool {
		return res.Status == StatusPending && !res.CreatedAt.After(cutoff)
	})
	return c.applyAll(ctx, ids, EventTimeout)
}

// CompleteElapsed transitions confirmed reservations whose range has
// elapsed to completed, releasing their holds after the fact.
func (c *Coordinator) CompleteElapsed(ctx context.Context) (int, error) {
	now := c.clock.Now()
	ids := c.collect(func(res *Reservation) bool {
		return res.Status == StatusConfirmed && !res.Range.EndTime().After(now)
	})
	return c.applyAll(ctx, ids, EventRangeElapsed)
}

func (c *Coordinator) collect(match func(*Reservation) bool) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var ids []string
	for id, res := range c.reservations {
		if match(res) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (c *Coordinator) applyAll(ctx context.Context, ids []string, ev Event) (int, error) {
	var firstErr error
	n := 0
	for _, id := range ids {
		if _, err := c.applyEvent(ctx, id, ev, nil); err != nil {
			// A racing transition already moved the reservation on;
			// that is expected, not a sweep failure.
			var it *IllegalTransitionError
			if errors.As(err, &it) {
				continue
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		n++
	}
	return n, firstErr
}

// applyEvent is the single path through which every lifecycle change runs:
// authorization, transition table, hold release, persistence, notification.
func (c *Coordinator) applyEvent(ctx context.Context, id string, ev Event, actor *Actor) (*Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	res, ok := c.reservations[id]
	if !ok {
		c.mu.Unlock()
		return nil, ErrReservationNotFound
	}
	st := c.spaces[res.SpaceID]

	if ev == EventCancel && actor != nil && actor.Role != RoleAdmin {
		authorized := actor.UserID == res.DriverID
		if !authorized && st != nil {
			st.mu.Lock()
			authorized = actor.UserID == st.space.OwnerID
			st.mu.Unlock()
		}
		if !authorized {
			c.mu.Unlock()
			return nil, ErrNotAuthorized
		}
	}

	from := res.Status
	next, err := nextStatus(from, ev)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	now := c.clock.Now()
	res.Status = next
	res.UpdatedAt = now
	if releasesHold(ev) && st != nil {
		st.mu.Lock()
		st.index.Release(res.holdToken)
		st.mu.Unlock()
	}
	out := *res
	c.mu.Unlock()

	if err := c.store.UpdateReservationStatus(ctx, id, next, now); err != nil {
		return &out, fmt.Errorf("persisting status %q for reservation %s: %w", next, id, err)
	}

	c.notify(Transition{ReservationID: id, Code: out.Code, From: from, To: next, At: now})
	return &out, nil
}

// Restore reloads active reservations from the store and replays their
// holds, rebuilding every space's availability index. Spaces must be added
// before calling it.
func (c *Coordinator) Restore(ctx context.Context) (int, error) {
	active, err := c.store.ListActiveReservations(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading active reservations: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for i := range active {
		res := active[i]
		st, ok := c.spaces[res.SpaceID]
		if !ok {
			return n, fmt.Errorf("reservation %s references unknown space %s: %w", res.ID, res.SpaceID, ErrSpaceNotFound)
		}
		st.mu.Lock()
		tok, err := st.index.Hold(res.Range, 1)
		st.mu.Unlock()
		if err != nil {
			return n, fmt.Errorf("replaying hold for reservation %s: %w", res.ID, err)
		}
		res.holdToken = tok
		c.reservations[res.ID] = &res
		n++
	}
	return n, nil
}

func newBookingCode() string {
	return fmt.Sprintf("%08X", time.Now().UnixNano()%0x100000000)
}
