package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/session"
	"github.com/Dcavise/SEEK-sub001/pkg/eventbus"
	"github.com/Dcavise/SEEK-sub001/pkg/serrors"
)

var ErrEmptyFilename = serrors.NewError("SESSION_EMPTY_FILENAME", "filename is required", "")

// SessionService owns the import-session lifecycle. All status changes go
// through Advance or Fail so the aggregate validates every transition
// before anything is persisted.
type SessionService struct {
	repo      session.Repository
	publisher eventbus.EventBus
}

func NewSessionService(repo session.Repository, publisher eventbus.EventBus) *SessionService {
	return &SessionService{repo: repo, publisher: publisher}
}

func (s *SessionService) Create(ctx context.Context, filename, originalFilename string, totalRecords int) (session.ImportSession, error) {
	entity := session.New(filename, originalFilename, totalRecords)
	if entity.Filename() == "" {
		return session.ImportSession{}, ErrEmptyFilename
	}
	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return session.ImportSession{}, err
	}
	s.publisher.Publish(session.CreatedEvent{Session: created})
	return created, nil
}

func (s *SessionService) GetByID(ctx context.Context, id uuid.UUID) (session.ImportSession, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *SessionService) List(ctx context.Context, params *session.FindParams) ([]session.ImportSession, int64, error) {
	return s.repo.List(ctx, params)
}

// Advance moves a session to next. Re-advancing to the current status is a
// no-op so callers can retry safely.
func (s *SessionService) Advance(ctx context.Context, id uuid.UUID, next session.Status) (session.ImportSession, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return session.ImportSession{}, err
	}
	if current.Status() == next {
		return current, nil
	}
	moved, err := current.Advance(next)
	if err != nil {
		return session.ImportSession{}, err
	}
	if err := s.repo.UpdateStatus(ctx, id, moved.Status(), nil); err != nil {
		return session.ImportSession{}, err
	}
	s.publisher.Publish(session.StatusChangedEvent{
		SessionID: id,
		From:      current.Status(),
		To:        moved.Status(),
		Session:   moved,
	})
	return moved, nil
}

// Fail moves a session to the error terminal state carrying the reason a
// pipeline stage gave up.
func (s *SessionService) Fail(ctx context.Context, id uuid.UUID, reason string) (session.ImportSession, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return session.ImportSession{}, err
	}
	failed, err := current.WithError(reason)
	if err != nil {
		return session.ImportSession{}, err
	}
	if err := s.repo.UpdateStatus(ctx, id, session.StatusError, failed.ErrorMessage()); err != nil {
		return session.ImportSession{}, err
	}
	s.publisher.Publish(session.StatusChangedEvent{
		SessionID: id,
		From:      current.Status(),
		To:        session.StatusError,
		Session:   failed,
	})
	return failed, nil
}
