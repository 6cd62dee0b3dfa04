package session

import "github.com/google/uuid"

// CreatedEvent fires once per session, right after the row exists.
type CreatedEvent struct {
	Session ImportSession
}

// StatusChangedEvent fires on every persisted forward transition.
type StatusChangedEvent struct {
	SessionID uuid.UUID
	From      Status
	To        Status
	Session   ImportSession
}
