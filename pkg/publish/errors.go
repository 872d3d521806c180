package publish

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEnvironmentGuard reports a remote write refused because the receiving
// environment does not accept content writes.
var ErrEnvironmentGuard = errors.New("publish: rejected by environment guard")

// ErrInvalidDocument reports a payload that is not a JSON object.
var ErrInvalidDocument = errors.New("publish: document must be a JSON object")

// GuardCode is the error code returned in the response body of guarded
// rejections.
const GuardCode = "environment_guard"

// RemoteError describes a failed remote write.
type RemoteError struct {
	Status int
	Code   string
	Body   string
	Err    error
}

func (e *RemoteError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("publish: remote write failed")
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, ": %s", e.Code)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes ErrEnvironmentGuard for guarded rejections and the
// transport error otherwise.
func (e *RemoteError) Unwrap() error {
	if e == nil {
		return nil
	}
	if e.Code == GuardCode {
		return ErrEnvironmentGuard
	}
	return e.Err
}
