// ABOUTME: Contiguous range expansion from a position by calendar day or month.
// ABOUTME: Walks one position at a time until the boundary or a group change.
package vitals

import (
	"fmt"
	"time"
)

// Direction of a crawl relative to the sorted order.
type Direction int

const (
	// Earlier walks toward position 0.
	Earlier Direction = iota
	// Later walks toward the end of the store.
	Later
)

// Granularity is the calendar unit deciding whether adjacent records
// belong to the same group.
type Granularity int

const (
	// Day groups records sharing a calendar date.
	Day Granularity = iota
	// Month groups records sharing a month of the year.
	Month
)

// Crawl returns the farthest position reachable from start in the given
// direction such that every record along the way shares start's
// calendar group. The result equals start when the neighbor already
// differs or start sits on the store boundary. An invalid direction or
// granularity is a programming error, reported as such rather than
// treated as data-dependent.
func (s *Store) Crawl(start int, dir Direction, g Granularity) (int, error) {
	if start < 0 || start >= len(s.records) {
		return 0, fmt.Errorf("position %d: %w", start, ErrNotFound)
	}
	if g != Day && g != Month {
		return 0, fmt.Errorf("invalid granularity %d", g)
	}
	if dir != Earlier && dir != Later {
		return 0, fmt.Errorf("invalid direction %d", dir)
	}

	step := 1
	if dir == Earlier {
		step = -1
	}

	pos := start
	for {
		next := pos + step
		if next < 0 || next >= len(s.records) {
			return pos, nil
		}
		if !sameGroup(s.records[pos].RecordedAt, s.records[next].RecordedAt, g) {
			return pos, nil
		}
		pos = next
	}
}

// sameGroup reports whether two timestamps fall in the same calendar
// group. Month matches on month-of-year alone: since the store is
// sorted, a crawl only bridges years when no record exists for any
// intervening month.
func sameGroup(a, b time.Time, g Granularity) bool {
	if g == Month {
		return a.Month() == b.Month()
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
