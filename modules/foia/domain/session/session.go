package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUploading, StatusProcessing, StatusCompleted, StatusError:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// rank orders statuses along the only legal path:
// uploading -> processing -> {completed, error}.
func (s Status) rank() int {
	switch s {
	case StatusUploading:
		return 0
	case StatusProcessing:
		return 1
	case StatusCompleted, StatusError:
		return 2
	}
	return -1
}

// CanTransition reports whether moving from s to next is legal.
// Same-status transitions are allowed so Advance stays idempotent.
// The error state is reachable from any non-terminal state: a stage can
// fail before the session ever reaches processing.
func (s Status) CanTransition(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	if s.Terminal() {
		return false
	}
	if next == StatusError {
		return true
	}
	return next.rank() == s.rank()+1
}

// ImportSession is one tracked file-import attempt. TotalRecords is fixed
// at creation; status only moves forward.
type ImportSession struct {
	id               uuid.UUID
	filename         string
	originalFilename string
	totalRecords     int
	status           Status
	errorMessage     *string
	createdAt        time.Time
	updatedAt        time.Time
}

func New(filename, originalFilename string, totalRecords int) ImportSession {
	return ImportSession{
		id:               uuid.New(),
		filename:         strings.TrimSpace(filename),
		originalFilename: strings.TrimSpace(originalFilename),
		totalRecords:     totalRecords,
		status:           StatusUploading,
	}
}

func Hydrate(
	id uuid.UUID,
	filename string,
	originalFilename string,
	totalRecords int,
	status Status,
	errorMessage *string,
	createdAt time.Time,
	updatedAt time.Time,
) ImportSession {
	return ImportSession{
		id:               id,
		filename:         filename,
		originalFilename: originalFilename,
		totalRecords:     totalRecords,
		status:           status,
		errorMessage:     errorMessage,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (s ImportSession) ID() uuid.UUID            { return s.id }
func (s ImportSession) Filename() string         { return s.filename }
func (s ImportSession) OriginalFilename() string { return s.originalFilename }
func (s ImportSession) TotalRecords() int        { return s.totalRecords }
func (s ImportSession) Status() Status           { return s.status }
func (s ImportSession) ErrorMessage() *string    { return s.errorMessage }
func (s ImportSession) CreatedAt() time.Time     { return s.createdAt }
func (s ImportSession) UpdatedAt() time.Time     { return s.updatedAt }
func (s ImportSession) IsZero() bool             { return s.id == uuid.Nil }

// Advance returns a copy in the new status, or ErrInvalidTransition if
// the move is backward or otherwise illegal.
func (s ImportSession) Advance(next Status) (ImportSession, error) {
	if !s.status.CanTransition(next) {
		return s, ErrInvalidTransition
	}
	s.status = next
	return s, nil
}

// WithError moves the session to the error terminal state carrying a reason.
func (s ImportSession) WithError(reason string) (ImportSession, error) {
	out, err := s.Advance(StatusError)
	if err != nil {
		return s, err
	}
	out.errorMessage = &reason
	return out, nil
}
