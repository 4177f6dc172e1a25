package booking

import (
	"github.com/google/uuid"
)

// HoldToken identifies a committed capacity hold and is the only handle
// through which the hold can later be released.
type HoldToken string

type holdEntry struct {
	rng   TimeRange
	count int
}

// Index tracks the committed capacity holds of one space. It is not safe
// for concurrent use on its own; the Coordinator serializes access per
// space (see spaceState).
type Index struct {
	totalSpots int
	holds      map[HoldToken]holdEntry
}

func NewIndex(totalSpots int) *Index {
	return &Index{
		totalSpots: totalSpots,
		holds:      make(map[HoldToken]holdEntry),
	}
}

func (ix *Index) TotalSpots() int { return ix.totalSpots }

// SetTotalSpots applies an owner-side capacity change. Existing holds are
// kept even if the new capacity is lower; only new holds see the new limit.
func (ix *Index) SetTotalSpots(n int) { ix.totalSpots = n }

// CapacityAvailable reports whether `requested` more vehicles fit at every
// instant of r. The held sum over a set of half-open intervals can only
// reach its maximum at an interval start, so it is enough to probe r's
// start plus the start of every overlapping hold.
func (ix *Index) CapacityAvailable(r TimeRange, requested int) bool {
	if requested <= 0 {
		return true
	}
	probes := []int{r.StartMinute}
	for _, h := range ix.holds {
		if h.rng.Overlaps(r) && h.rng.StartMinute > r.StartMinute {
			probes = append(probes, h.rng.StartMinute)
		}
	}
	for _, at := range probes {
		held := 0
		for _, h := range ix.holds {
			if h.rng.Date == r.Date && h.rng.StartMinute <= at && at < h.rng.EndMinute {
				held += h.count
			}
		}
		if held+requested > ix.totalSpots {
			return false
		}
	}
	return true
}

// Hold re-checks capacity and commits in one step. The caller must hold the
// per-space critical section, otherwise two holds can both pass the check.
func (ix *Index) Hold(r TimeRange, count int) (HoldToken, error) {
	if !ix.CapacityAvailable(r, count) {
		return "", ErrCapacityExceeded
	}
	tok := HoldToken(uuid.NewString())
	ix.holds[tok] = holdEntry{rng: r, count: count}
	return tok, nil
}

// Release returns the hold's capacity to the pool. Releasing an unknown or
// already-released token is a no-op.
func (ix *Index) Release(tok HoldToken) {
	delete(ix.holds, tok)
}

// HeldCount is the number of live holds, exposed for recovery checks.
func (ix *Index) HeldCount() int { return len(ix.holds) }

// RebuildIndex replays holds for a reservation history, e.g. when the
// coordinator restores state from the store at startup. The result answers
// CapacityAvailable identically to an index maintained incrementally with
// the same live holds.
func RebuildIndex(totalSpots int, ranges []TimeRange) (*Index, map[int]HoldToken, error) {
	ix := NewIndex(totalSpots)
	tokens := make(map[int]HoldToken, len(ranges))
	for i, r := range ranges {
		tok, err := ix.Hold(r, 1)
		if err != nil {
			return nil, nil, err
		}
		tokens[i] = tok
	}
	return ix, tokens, nil
}
