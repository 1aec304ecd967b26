package assertion

import "errors"

// ErrSessionFinalized is returned by AssertAll once a soft
// session has already been finalized.
var ErrSessionFinalized = errors.New(
	"soft assertion session already finalized",
)

// AssertionError is the single failure kind returned by every
// check. Message is exactly the text shown to the user.
type AssertionError struct {
	Message string
}

// Error returns the failure message.
func (e *AssertionError) Error() string {
	return e.Message
}

// IsAssertionError reports whether err is, or wraps, an
// *AssertionError.
func IsAssertionError(err error) bool {
	var ae *AssertionError
	return errors.As(err, &ae)
}
