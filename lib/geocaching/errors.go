package geocaching

import (
	"errors"
	"fmt"
)

// ErrRestricted marks a record that exists but is gated behind a
// premium membership. Callers can tell it apart from a record that
// failed to load at all.
var ErrRestricted = errors.New("premium members only")

// ErrLoginFailed is returned by Session.Login when the site rejects
// the given credentials.
var ErrLoginFailed = errors.New("failed to log in with the given credentials")

// ValidationError reports a value rejected by an attribute setter.
// These are local and caller-fixable, never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidf(field, format string, args ...any) ValidationError {
	return ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// LoadError reports an entity that could not be populated: missing
// identifying info, a transport failure, or an unusable response. Err
// carries the transport cause when there is one.
type LoadError struct {
	Msg string
	Err error
}

func (e LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Msg, e.Err)
	}
	return e.Msg
}

func (e LoadError) Unwrap() error { return e.Err }
