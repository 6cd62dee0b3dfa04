package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/foiaupdate"
	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/session"
	"github.com/Dcavise/SEEK-sub001/modules/registry/domain/aggregates/property"
)

// RollbackService undoes the registry writes of a session using its undo
// records. Rolling back does not touch the session status: the session
// remains a faithful log of an import that happened and was then undone.
type RollbackService struct {
	sessions session.Repository
	updates  foiaupdate.Repository
	registry property.Repository
	log      *logrus.Logger
}

func NewRollbackService(
	sessions session.Repository,
	updates foiaupdate.Repository,
	registry property.Repository,
	log *logrus.Logger,
) *RollbackService {
	return &RollbackService{sessions: sessions, updates: updates, registry: registry, log: log}
}

// Rollback restores OldValue for every active undo record of the session
// and marks each record reverted. Records fail independently; a second
// call finds no active records and succeeds reverting zero.
func (s *RollbackService) Rollback(ctx context.Context, sessionID uuid.UUID) (RollbackResult, error) {
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return RollbackResult{}, err
	}

	active, err := s.updates.ListActiveBySession(ctx, sessionID)
	if err != nil {
		return RollbackResult{}, err
	}

	out := RollbackResult{}
	for _, u := range active {
		if err := s.revertOne(ctx, u); err != nil {
			out.FailedCount++
			out.Failures = append(out.Failures, RecordError{
				RecordRef: u.ID.String(),
				Reason:    err.Error(),
			})
			continue
		}
		out.RevertedCount++
	}
	observeRollback(out)
	s.log.WithFields(logrus.Fields{
		"session_id":     sessionID,
		"reverted_count": out.RevertedCount,
		"failed_count":   out.FailedCount,
	}).Info("rollback finished")
	return out, nil
}

func (s *RollbackService) revertOne(ctx context.Context, u foiaupdate.FOIAUpdate) error {
	if err := s.registry.WriteField(ctx, u.PropertyID, u.FieldName, u.OldValue); err != nil {
		return fmt.Errorf("restore %s: %w", u.FieldName, err)
	}
	// The registry value is already restored here. A failed flag flip
	// leaves the record active, so a retry re-writes the same old value,
	// which is harmless.
	if err := s.updates.MarkReverted(ctx, u.ID); err != nil {
		return fmt.Errorf("mark reverted: %w", err)
	}
	return nil
}
