package ferret

import (
	"fmt"
	"regexp"
	"sync"
)

// Match describes one located match as a half-open byte range [Start, End)
// into the document snapshot, plus the matched text.
type Match struct {
	Start int    // Start position in bytes
	End   int    // End position in bytes (exclusive)
	Text  string // The matched text
}

// Navigator owns a search over one document snapshot: the compiled pattern,
// the forward-only match cursor, and the ordered record of match start
// offsets visited so far. The visited list is what makes Previous possible
// on top of a cursor that can only move forward or reset.
//
// All three operations return (nil, nil) for "no match"; that is a normal
// result, not an error. A Navigator must not be shared between concurrent
// searches, but the operations themselves are safe to call from a worker
// goroutine: a single mutex makes them mutually exclusive.
type Navigator struct {
	mu      sync.Mutex
	doc     string
	cur     *cursor
	visited []int
	current *Match
}

// New returns an empty Navigator. Next and Previous fail with
// ErrNoActiveSearch until StartSearch has succeeded.
func New() *Navigator {
	return &Navigator{}
}

// StartSearch compiles searchText against a snapshot of document and reports
// the first match. When isRegex is false, non-word characters in searchText
// are escaped so the pattern matches them literally. An empty searchText
// follows the regex engine's empty-pattern convention and matches (with
// length zero) at every position.
//
// Any previous search state is discarded. A malformed expression fails with
// ErrInvalidPattern and leaves the Navigator without an active search; it
// stays usable for a later StartSearch.
func (n *Navigator) StartSearch(document, searchText string, isRegex bool) (*Match, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	expr := searchText
	if !isRegex {
		expr = escapeLiteral(expr)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		n.doc = ""
		n.cur = nil
		n.visited = n.visited[:0]
		n.current = nil
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}

	n.doc = document
	n.cur = newCursor(re, document)
	n.visited = n.visited[:0]
	n.current = nil
	return n.findNext(), nil
}

// Next advances to the match after the current position. After the last
// match it reports no match exactly once and rewinds, so the following call
// wraps around to the first match again.
func (n *Navigator) Next() (*Match, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cur == nil {
		return nil, ErrNoActiveSearch
	}
	if m := n.findNext(); m != nil {
		return m, nil
	}
	// Exhausted: rewind so the next call starts over from the top.
	n.visited = n.visited[:0]
	n.cur.reset()
	return nil, nil
}

// Previous steps back to the match before the current one, wrapping from the
// first match to the last. The cursor itself cannot move backward, so the
// target offset is taken from the visited list when it holds enough history,
// or recovered by one full forward scan when it does not; either way the
// cursor is then rebuilt by scanning forward to the target.
func (n *Navigator) Previous() (*Match, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cur == nil {
		return nil, ErrNoActiveSearch
	}

	var target int
	if len(n.visited) > 1 {
		// The current match is always the most recent visited entry (both
		// findNext and the rebuild below append it last), so the desired
		// match is the one recorded just before it.
		target = n.visited[len(n.visited)-2]
	} else {
		// Zero entries means Next just wrapped and the conceptual position
		// is past the last match; one entry means we are at the very first
		// match. Either way the rest of the match set is unknown, so scan
		// the remaining matches to complete the list.
		firstOrLast := 1 - len(n.visited)
		for {
			s, _, ok := n.cur.next()
			if !ok {
				break
			}
			n.visited = append(n.visited, s)
		}
		i := len(n.visited) - 1 - firstOrLast
		if i < 0 {
			// No matches in the document, or backing up past the only
			// match after a wrap. Leave the navigator rewound.
			n.visited = n.visited[:0]
			n.cur.reset()
			return nil, nil
		}
		target = n.visited[i]
	}

	// Rebuild the cursor from the top, re-recording every start offset on
	// the way, so the state is exactly what a forward-only walk to the
	// target would have produced.
	n.visited = n.visited[:0]
	n.cur.reset()
	for {
		s, e, ok := n.cur.next()
		if !ok {
			break
		}
		n.visited = append(n.visited, s)
		if s == target {
			n.current = &Match{Start: s, End: e, Text: n.doc[s:e]}
			return n.current, nil
		}
	}
	// The snapshot is fixed, so the target is always reachable; treat a
	// missed target as no match rather than panic.
	n.visited = n.visited[:0]
	n.cur.reset()
	return nil, nil
}

// Current returns the most recently located match, or nil if the active
// search has not located one. It is not cleared by the single "no match"
// report at the end of a cycle.
func (n *Navigator) Current() *Match {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Active reports whether a successful StartSearch has state to navigate.
func (n *Navigator) Active() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cur != nil
}

// findNext moves the cursor one match forward and records it. The caller
// must hold n.mu.
func (n *Navigator) findNext() *Match {
	s, e, ok := n.cur.next()
	if !ok {
		return nil
	}
	n.visited = append(n.visited, s)
	n.current = &Match{Start: s, End: e, Text: n.doc[s:e]}
	return n.current
}
