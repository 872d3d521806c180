package activity

import (
	"strings"
	"time"
)

// Content lifecycle verbs.
const (
	VerbUpdated   = "content.updated"
	VerbSaved     = "content.saved"
	VerbDiscarded = "content.discarded"
	VerbPublished = "content.published"
	VerbLoaded    = "content.loaded"
)

// ObjectTypeContent is the object type of every content event.
const ObjectTypeContent = "content"

// ContentEventInput describes the fields shared by content lifecycle events.
type ContentEventInput struct {
	ActorID    string
	ObjectID   string
	Channel    string
	Path       string
	OldValue   any
	NewValue   any
	SnapshotID string
	ETag       string
	Error      error
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildUpdatedEvent describes a path edit.
func BuildUpdatedEvent(input ContentEventInput) Event {
	return buildContentEvent(VerbUpdated, input)
}

// BuildSavedEvent describes a successful local write.
func BuildSavedEvent(input ContentEventInput) Event {
	return buildContentEvent(VerbSaved, input)
}

// BuildDiscardedEvent describes a revert to the last saved document.
func BuildDiscardedEvent(input ContentEventInput) Event {
	return buildContentEvent(VerbDiscarded, input)
}

// BuildPublishedEvent describes a remote durable write attempt. Input.Error is
// recorded when the remote rejected it.
func BuildPublishedEvent(input ContentEventInput) Event {
	return buildContentEvent(VerbPublished, input)
}

// BuildLoadedEvent describes a session start from the persisted overlay.
func BuildLoadedEvent(input ContentEventInput) Event {
	return buildContentEvent(VerbLoaded, input)
}

func buildContentEvent(verb string, input ContentEventInput) Event {
	metadata := cloneMap(input.Metadata)
	set := func(key string, value any) {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata[key] = value
	}
	if input.Path != "" {
		set("path", input.Path)
	}
	if input.OldValue != nil {
		set("old_value", input.OldValue)
	}
	if input.NewValue != nil {
		set("new_value", input.NewValue)
	}
	if input.SnapshotID != "" {
		set("snapshot_id", input.SnapshotID)
	}
	if input.ETag != "" {
		set("etag", input.ETag)
	}
	if input.Error != nil {
		set("error", input.Error.Error())
	}

	objectID := strings.TrimSpace(input.ObjectID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.SnapshotID)
	}
	if objectID == "" {
		objectID = ObjectTypeContent
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		ObjectType: ObjectTypeContent,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}
