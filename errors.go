// Package ferret implements the match search and navigation engine behind a
// text editor's find toolbar: compile a search expression (literal or regular
// expression) against a document snapshot, then step forward and backward
// through the matches with wraparound.
package ferret

import "errors"

// Search errors
var (
	// ErrInvalidPattern indicates that the search text is not a valid
	// regular expression. The navigator is left without an active search.
	ErrInvalidPattern = errors.New("invalid search pattern")

	// ErrNoActiveSearch indicates that Next or Previous was called before
	// any successful StartSearch.
	ErrNoActiveSearch = errors.New("no active search")
)
