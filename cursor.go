package ferret

import (
	"regexp"
	"unicode/utf8"
)

// cursor is a forward-only match iterator over a compiled pattern and a fixed
// document snapshot. It mirrors the resettable matcher the navigator is built
// around: find the next match strictly after the previous one, or reset back
// to "has not started" without recompiling.
//
// An empty match is reported at every position, including a position adjacent
// to a previous non-empty match; after one the scan advances by a single rune
// so that progress is always made. Match starts are therefore strictly
// increasing between resets.
type cursor struct {
	re   *regexp.Regexp
	doc  string
	pos  int
	done bool
}

func newCursor(re *regexp.Regexp, doc string) *cursor {
	return &cursor{re: re, doc: doc}
}

// next returns the bounds of the next match in document order, or ok=false
// once the scan is exhausted. After exhaustion it keeps returning ok=false
// until reset is called.
func (c *cursor) next() (start, end int, ok bool) {
	if c.done {
		return 0, 0, false
	}
	loc := c.re.FindStringIndex(c.doc[c.pos:])
	if loc == nil {
		c.done = true
		return 0, 0, false
	}
	start = c.pos + loc[0]
	end = c.pos + loc[1]
	if end > start {
		c.pos = end
	} else if end >= len(c.doc) {
		// Empty match at the end of the document: nothing left to scan.
		c.done = true
	} else {
		_, w := utf8.DecodeRuneInString(c.doc[end:])
		c.pos = end + w
	}
	return start, end, true
}

// reset rewinds the cursor to "has not started" so the next call to next
// begins at the start of the document again.
func (c *cursor) reset() {
	c.pos = 0
	c.done = false
}
