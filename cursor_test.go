package ferret

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collect drains the cursor and returns every [start,end) pair.
func collect(c *cursor) [][2]int {
	var out [][2]int
	for {
		s, e, ok := c.next()
		if !ok {
			return out
		}
		out = append(out, [2]int{s, e})
	}
}

func TestCursorForwardScan(t *testing.T) {
	c := newCursor(regexp.MustCompile("cat"), "cat cat dog cat")
	assert.Equal(t, [][2]int{{0, 3}, {4, 7}, {12, 15}}, collect(c))

	// Exhausted cursors stay exhausted until reset.
	_, _, ok := c.next()
	assert.False(t, ok)
	_, _, ok = c.next()
	assert.False(t, ok)
}

func TestCursorReset(t *testing.T) {
	c := newCursor(regexp.MustCompile("ab"), "ab ab")
	first := collect(c)
	c.reset()
	assert.Equal(t, first, collect(c))
}

func TestCursorEmptyMatches(t *testing.T) {
	c := newCursor(regexp.MustCompile(""), "xyz")
	assert.Equal(t, [][2]int{{0, 0}, {1, 1}, {2, 2}, {3, 3}}, collect(c))
}

func TestCursorEmptyMatchAdvancesWholeRune(t *testing.T) {
	// "é" is two bytes; empty matches land on rune boundaries only.
	c := newCursor(regexp.MustCompile(""), "héj")
	assert.Equal(t, [][2]int{{0, 0}, {1, 1}, {3, 3}, {4, 4}}, collect(c))
}

func TestCursorEmptyMatchAdjacentToNonEmpty(t *testing.T) {
	// "a*" on "bab": empty at 0, "a" at [1,2), then an empty match at 2 as
	// well. The matcher convention reports the empty match right after a
	// non-empty one; regexp's FindAll would suppress it.
	c := newCursor(regexp.MustCompile("a*"), "bab")
	require.Equal(t, [][2]int{{0, 0}, {1, 2}, {2, 2}, {3, 3}}, collect(c))
}

func TestCursorStartsStrictlyIncrease(t *testing.T) {
	c := newCursor(regexp.MustCompile("a*"), "aab baa")
	prev := -1
	for {
		s, e, ok := c.next()
		if !ok {
			break
		}
		assert.Greater(t, s, prev, "start offsets must strictly increase")
		assert.GreaterOrEqual(t, e, s)
		prev = s
	}
}
