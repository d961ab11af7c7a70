// ABOUTME: Binary search over the sorted store by calendar date or exact timestamp.
// ABOUTME: Tracks low/high bounds; a step cap turns a broken sort order into an error.
package vitals

import (
	"fmt"
	"time"
)

// Match selects the comparison granularity for SearchDate.
type Match int

const (
	// MatchDate compares calendar dates, ignoring the time of day.
	MatchDate Match = iota
	// MatchExact compares full timestamps to the minute.
	MatchExact
)

// SearchDate returns the position of a record matching target at the
// given granularity. With MatchDate, several records can share the
// target date; the position returned is whichever the probe sequence
// hit first, and Crawl widens it to the rest of the day. Returns
// ErrNotFound when nothing matches (including on an empty store) and
// ErrSearchLimit if the probe count exceeds the configured bound, which
// only happens when the sort invariant has been violated.
func (s *Store) SearchDate(target time.Time, match Match) (int, error) {
	low, high := 0, len(s.records)-1
	for steps := 0; low <= high; steps++ {
		if steps >= s.cfg.SearchStepLimit {
			return 0, fmt.Errorf("%w after %d steps", ErrSearchLimit, steps)
		}
		mid := low + (high-low)/2
		switch c := compareAt(s.records[mid].RecordedAt, target, match); {
		case c == 0:
			return mid, nil
		case c < 0:
			low = mid + 1
		default:
			high = mid - 1
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrNotFound, formatTarget(target, match))
}

// compareAt orders a against b at the requested granularity.
func compareAt(a, b time.Time, match Match) int {
	if match == MatchDate {
		a = dateOnly(a)
		b = dateOnly(b)
	}
	return a.Compare(b)
}

// dateOnly normalizes a timestamp to midnight UTC so that date
// comparison ignores both time of day and location.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func formatTarget(t time.Time, match Match) string {
	if match == MatchDate {
		return t.Format("2006-01-02")
	}
	return t.Format(timeLayout)
}
