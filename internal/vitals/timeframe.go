// ABOUTME: Timeframe selection: whole store, single record, same-day/month spans,
// ABOUTME: and N-record windows with clamping at the start of the data.
package vitals

import "fmt"

// Window is an ordered set of positions selected from the store.
type Window struct {
	Positions []int

	// Notice carries a short status line for the caller when the
	// selection had to be adjusted, e.g. an N-record window clamped at
	// the first record.
	Notice string
}

// Count returns the number of selected positions.
func (w Window) Count() int {
	return len(w.Positions)
}

// SelectAll selects every position in the store.
func (s *Store) SelectAll() Window {
	positions := make([]int, len(s.records))
	for i := range positions {
		positions[i] = i
	}
	return Window{Positions: positions}
}

// SelectSingle selects exactly the given position.
func (s *Store) SelectSingle(pos int) (Window, error) {
	if pos < 0 || pos >= len(s.records) {
		return Window{}, fmt.Errorf("position %d: %w", pos, ErrNotFound)
	}
	return Window{Positions: []int{pos}}, nil
}

// SelectSpan selects the contiguous run of positions sharing pos's
// calendar day or month, crawling outward in both directions.
func (s *Store) SelectSpan(pos int, g Granularity) (Window, error) {
	first, err := s.Crawl(pos, Earlier, g)
	if err != nil {
		return Window{}, err
	}
	last, err := s.Crawl(pos, Later, g)
	if err != nil {
		return Window{}, err
	}

	positions := make([]int, 0, last-first+1)
	for p := first; p <= last; p++ {
		positions = append(positions, p)
	}
	return Window{Positions: positions}, nil
}

// SelectBefore selects a window of n positions ending at pos inclusive.
// When fewer than n records exist up to pos the window is clamped to
// start at position 0 and the Notice reports how many were available.
func (s *Store) SelectBefore(pos, n int) (Window, error) {
	if pos < 0 || pos >= len(s.records) {
		return Window{}, fmt.Errorf("position %d: %w", pos, ErrNotFound)
	}
	if n < 1 {
		return Window{}, fmt.Errorf("window size %d: must be at least 1", n)
	}

	first := pos - n + 1
	var notice string
	if first < 0 {
		first = 0
		notice = fmt.Sprintf("only %d record(s) before this one; showing all %d", pos, pos+1)
	}

	positions := make([]int, 0, pos-first+1)
	for p := first; p <= pos; p++ {
		positions = append(positions, p)
	}
	return Window{Positions: positions, Notice: notice}, nil
}
