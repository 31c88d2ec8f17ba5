package feed

import (
	"errors"
	"fmt"
)

// EmptyResultError reports a legitimate end of feed: the backend answered
// successfully but had no items left. It is terminal for pagination - the
// store sets hasMore=false and does not retry automatically.
type EmptyResultError struct {
	Cursor string
}

// Error implements the error interface.
func (e *EmptyResultError) Error() string {
	if e.Cursor == "" {
		return "feed: empty result for first page"
	}
	return fmt.Sprintf("feed: empty result at cursor %q", e.Cursor)
}

// IsEmptyResult returns true if the error is an end-of-feed marker.
// Uses errors.As to handle wrapped errors.
func IsEmptyResult(err error) bool {
	var ee *EmptyResultError
	return errors.As(err, &ee)
}
