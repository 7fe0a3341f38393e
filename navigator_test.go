package ferret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireFound asserts that the result is a match with the given bounds.
func requireFound(t *testing.T, m *Match, err error, start, end int) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, m, "expected a match")
	assert.Equal(t, start, m.Start, "match start")
	assert.Equal(t, end, m.End, "match end")
}

// requireNotFound asserts the normal "no match" result.
func requireNotFound(t *testing.T, m *Match, err error) {
	t.Helper()
	require.NoError(t, err)
	assert.Nil(t, m, "expected no match")
}

// ====================
// Forward traversal
// ====================

func TestStartSearchFirstMatch(t *testing.T) {
	nav := New()
	m, err := nav.StartSearch("cat cat dog cat", "cat", false)
	requireFound(t, m, err, 0, 3)
	assert.Equal(t, "cat", m.Text)
}

func TestNextCyclesWithSingleNotFound(t *testing.T) {
	// "cat cat dog cat": matches at 0, 4, 12, each of length 3.
	nav := New()
	m, err := nav.StartSearch("cat cat dog cat", "cat", false)
	requireFound(t, m, err, 0, 3)

	m, err = nav.Next()
	requireFound(t, m, err, 4, 7)
	m, err = nav.Next()
	requireFound(t, m, err, 12, 15)

	// Past the last match: exactly one "no match", then wrap to the first.
	m, err = nav.Next()
	requireNotFound(t, m, err)
	m, err = nav.Next()
	requireFound(t, m, err, 0, 3)
}

func TestNextCycleRepeatsIdentically(t *testing.T) {
	nav := New()
	starts := []int{0, 4, 12}

	m, err := nav.StartSearch("cat cat dog cat", "cat", false)
	requireFound(t, m, err, 0, 3)

	for cycle := 0; cycle < 3; cycle++ {
		for _, want := range starts[1:] {
			m, err = nav.Next()
			requireFound(t, m, err, want, want+3)
		}
		m, err = nav.Next()
		requireNotFound(t, m, err)
		m, err = nav.Next()
		requireFound(t, m, err, 0, 3)
	}
}

func TestRegexSearch(t *testing.T) {
	nav := New()
	m, err := nav.StartSearch("abc 123 def 45", `\d+`, true)
	requireFound(t, m, err, 4, 7)
	assert.Equal(t, "123", m.Text)

	m, err = nav.Next()
	requireFound(t, m, err, 12, 14)
	assert.Equal(t, "45", m.Text)
}

// ====================
// Backward traversal
// ====================

func TestPreviousFromFirstWrapsToLast(t *testing.T) {
	nav := New()
	m, err := nav.StartSearch("cat cat dog cat", "cat", false)
	requireFound(t, m, err, 0, 3)

	m, err = nav.Previous()
	requireFound(t, m, err, 12, 15)
}

func TestPreviousWalksBackwards(t *testing.T) {
	nav := New()
	_, err := nav.StartSearch("cat cat dog cat", "cat", false)
	require.NoError(t, err)

	// Forward to the last match, then walk all the way back.
	nav.Next()
	nav.Next()

	m, err := nav.Previous()
	requireFound(t, m, err, 4, 7)
	m, err = nav.Previous()
	requireFound(t, m, err, 0, 3)

	// From the first match, Previous wraps to the last again.
	m, err = nav.Previous()
	requireFound(t, m, err, 12, 15)
}

func TestPreviousAfterWrapPicksPenultimate(t *testing.T) {
	nav := New()
	_, err := nav.StartSearch("cat cat dog cat", "cat", false)
	require.NoError(t, err)

	nav.Next() // 4
	nav.Next() // 12
	m, err := nav.Next()
	requireNotFound(t, m, err) // wrapped, visited list cleared

	// Conceptually still at the last match; one step back is the
	// second-to-last.
	m, err = nav.Previous()
	requireFound(t, m, err, 4, 7)
}

func TestNextThenPreviousReturnsToInteriorMatch(t *testing.T) {
	// Five matches at 0, 2, 4, 6, 8.
	doc := "a a a a a"
	for i := 2; i <= 4; i++ {
		nav := New()
		_, err := nav.StartSearch(doc, "a", false)
		require.NoError(t, err)
		for step := 1; step < i; step++ {
			nav.Next()
		}
		want := (i - 1) * 2

		m, err := nav.Next()
		requireFound(t, m, err, want+2, want+3)
		m, err = nav.Previous()
		requireFound(t, m, err, want, want+1)

		m, err = nav.Previous()
		requireFound(t, m, err, want-2, want-1)
		m, err = nav.Next()
		requireFound(t, m, err, want, want+1)
	}
}

func TestSingleMatchDocument(t *testing.T) {
	nav := New()
	m, err := nav.StartSearch("the needle here", "needle", false)
	requireFound(t, m, err, 4, 10)

	// Backing up from the only match wraps onto itself.
	m, err = nav.Previous()
	requireFound(t, m, err, 4, 10)

	// Forward: one "no match", then wrap back to it.
	m, err = nav.Next()
	requireNotFound(t, m, err)
	m, err = nav.Next()
	requireFound(t, m, err, 4, 10)

	// Backing up past the only match after a wrap has nowhere to land.
	m, err = nav.Next()
	requireNotFound(t, m, err)
	m, err = nav.Previous()
	requireNotFound(t, m, err)
	m, err = nav.Next()
	requireFound(t, m, err, 4, 10)
}

// ====================
// Literal mode
// ====================

func TestLiteralModeEscapesMetacharacters(t *testing.T) {
	// "." must match only a literal dot, never "any character".
	nav := New()
	m, err := nav.StartSearch("a.b a.b", "a.b", false)
	requireFound(t, m, err, 0, 3)
	m, err = nav.Next()
	requireFound(t, m, err, 4, 7)
	m, err = nav.Next()
	requireNotFound(t, m, err)
}

func TestLiteralVersusRegexMode(t *testing.T) {
	doc := "a.b axb"

	nav := New()
	m, err := nav.StartSearch(doc, "a.b", false)
	requireFound(t, m, err, 0, 3)
	m, err = nav.Next()
	requireNotFound(t, m, err) // "axb" is not a literal hit

	m, err = nav.StartSearch(doc, "a.b", true)
	requireFound(t, m, err, 0, 3)
	m, err = nav.Next()
	requireFound(t, m, err, 4, 7) // "." as wildcard matches "axb"
}

func TestLiteralModeUnicode(t *testing.T) {
	doc := "日本語 の 日本" // "日本" at bytes 0 and 14
	nav := New()
	m, err := nav.StartSearch(doc, "日本", false)
	requireFound(t, m, err, 0, 6)
	m, err = nav.Next()
	requireFound(t, m, err, 14, 20)
}

// ====================
// Empty pattern
// ====================

func TestEmptySearchTextMatchesEveryPosition(t *testing.T) {
	// The empty pattern matches with length zero at every position,
	// including the end of the document.
	nav := New()
	m, err := nav.StartSearch("xyz", "", false)
	requireFound(t, m, err, 0, 0)

	for _, want := range []int{1, 2, 3} {
		m, err = nav.Next()
		requireFound(t, m, err, want, want)
	}
	m, err = nav.Next()
	requireNotFound(t, m, err)
	m, err = nav.Next()
	requireFound(t, m, err, 0, 0)
}

func TestEmptyPatternAdvancesByRune(t *testing.T) {
	// "héj" is h(1) é(2) j(1): positions 0, 1, 3, 4.
	nav := New()
	m, err := nav.StartSearch("héj", "", true)
	requireFound(t, m, err, 0, 0)
	for _, want := range []int{1, 3, 4} {
		m, err = nav.Next()
		requireFound(t, m, err, want, want)
	}
	m, err = nav.Next()
	requireNotFound(t, m, err)
}

func TestEmptyPatternEmptyDocument(t *testing.T) {
	nav := New()
	m, err := nav.StartSearch("", "", false)
	requireFound(t, m, err, 0, 0)
	m, err = nav.Next()
	requireNotFound(t, m, err)
	m, err = nav.Next()
	requireFound(t, m, err, 0, 0)
}

// ====================
// No matches / errors
// ====================

func TestNoMatchesAnywhere(t *testing.T) {
	nav := New()
	m, err := nav.StartSearch("hello world", "xyz", false)
	requireNotFound(t, m, err)

	// Navigation stays a consistent "no match" in both directions.
	for i := 0; i < 3; i++ {
		m, err = nav.Next()
		requireNotFound(t, m, err)
		m, err = nav.Previous()
		requireNotFound(t, m, err)
	}
	assert.Nil(t, nav.Current())
}

func TestSearchEmptyDocument(t *testing.T) {
	nav := New()
	m, err := nav.StartSearch("", "needle", false)
	requireNotFound(t, m, err)
}

func TestNoActiveSearch(t *testing.T) {
	nav := New()

	_, err := nav.Next()
	assert.ErrorIs(t, err, ErrNoActiveSearch)
	_, err = nav.Previous()
	assert.ErrorIs(t, err, ErrNoActiveSearch)
	assert.False(t, nav.Active())
}

func TestInvalidPattern(t *testing.T) {
	nav := New()
	_, err := nav.StartSearch("hello world", "[unclosed", true)
	assert.ErrorIs(t, err, ErrInvalidPattern)

	// The failed search leaves no active state behind...
	assert.False(t, nav.Active())
	_, err = nav.Next()
	assert.ErrorIs(t, err, ErrNoActiveSearch)

	// ...but the navigator stays usable.
	m, err := nav.StartSearch("hello world", "world", false)
	requireFound(t, m, err, 6, 11)
}

func TestInvalidPatternIsLiteralInNonRegexMode(t *testing.T) {
	// With the regex toggle off, metacharacter soup is just text.
	nav := New()
	m, err := nav.StartSearch("x [unclosed y", "[unclosed", false)
	requireFound(t, m, err, 2, 11)
}

// ====================
// Accessors
// ====================

func TestCurrentTracksLastLocatedMatch(t *testing.T) {
	nav := New()
	assert.Nil(t, nav.Current())

	_, err := nav.StartSearch("cat cat dog cat", "cat", false)
	require.NoError(t, err)
	require.NotNil(t, nav.Current())
	assert.Equal(t, 0, nav.Current().Start)

	nav.Next()
	assert.Equal(t, 4, nav.Current().Start)

	nav.Next()
	nav.Next() // no match: the last located match is kept
	assert.Equal(t, 12, nav.Current().Start)

	// A new search discards it.
	_, err = nav.StartSearch("nothing here", "zz", false)
	require.NoError(t, err)
	assert.Nil(t, nav.Current())
}

func TestStartSearchReplacesPriorSearch(t *testing.T) {
	nav := New()
	_, err := nav.StartSearch("cat cat dog cat", "cat", false)
	require.NoError(t, err)
	nav.Next()

	m, err := nav.StartSearch("dog dog", "dog", false)
	requireFound(t, m, err, 0, 3)
	m, err = nav.Next()
	requireFound(t, m, err, 4, 7)
	m, err = nav.Next()
	requireNotFound(t, m, err)
}
