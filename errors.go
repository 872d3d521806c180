package overlay

import (
	"errors"
	"fmt"
)

// ErrLocalSave wraps failures writing the local overlay store.
var ErrLocalSave = errors.New("overlay: local save failed")

// PublishError reports a save whose local write succeeded but whose remote
// durable write failed. The editor already treats the document as saved.
type PublishError struct {
	SnapshotID string
	Err        error
}

func (e *PublishError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("overlay: saved locally (snapshot %s) but remote publish failed: %v", e.SnapshotID, e.Err)
}

func (e *PublishError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// SavedLocally is always true: a PublishError is only returned after the
// local write.
func (e *PublishError) SavedLocally() bool {
	return e != nil
}
