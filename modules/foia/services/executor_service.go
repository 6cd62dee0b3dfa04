package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/foiaupdate"
	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/matching"
	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/session"
	"github.com/Dcavise/SEEK-sub001/modules/registry/domain/aggregates/property"
	"github.com/Dcavise/SEEK-sub001/pkg/serrors"
)

var (
	ErrSessionNotExecutable = serrors.NewError("EXECUTE_BAD_STATUS", "session is not in an executable status", "")
	ErrStoreUnreachable     = serrors.NewError("EXECUTE_STORE_UNREACHABLE", "registry or audit store unreachable", "")
)

const DefaultAuditRetryAttempts = 3

// UpdateExecutor applies the matched results of a session to the property
// registry and writes one undo record per field it changes.
//
// Each registry write is followed by the audit insert rather than sharing
// a transaction with it: losing an undo record must never silently undo a
// registry change that already happened. When the audit insert fails after
// retries the record is reported as a warning instead.
type UpdateExecutor struct {
	sessions session.Repository
	matches  matching.Repository
	updates  foiaupdate.Repository
	registry property.Repository

	auditRetryAttempts int
	log                *logrus.Logger
}

func NewUpdateExecutor(
	sessions session.Repository,
	matches matching.Repository,
	updates foiaupdate.Repository,
	registry property.Repository,
	auditRetryAttempts int,
	log *logrus.Logger,
) *UpdateExecutor {
	if auditRetryAttempts <= 0 {
		auditRetryAttempts = DefaultAuditRetryAttempts
	}
	return &UpdateExecutor{
		sessions:           sessions,
		matches:            matches,
		updates:            updates,
		registry:           registry,
		auditRetryAttempts: auditRetryAttempts,
		log:                log,
	}
}

// Execute walks every stored match result of the session and applies the
// matched ones. It is safe to call again: fields that already carry an
// active undo record are not re-applied, and such records are counted as
// failures with reason "already applied" so the totals per pass still add
// up to the session's record count.
//
// Record-level problems (no match, unknown property, unknown field) are
// accumulated as failures. Errors that come from the stores themselves are
// kept per record only once at least one record has been applied; a store
// error before any record has been applied means the stores are unreachable
// and Execute aborts with ErrStoreUnreachable.
func (e *UpdateExecutor) Execute(ctx context.Context, sessionID uuid.UUID) (DatabaseUpdateResult, error) {
	sess, err := e.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return DatabaseUpdateResult{}, err
	}
	switch sess.Status() {
	case session.StatusProcessing, session.StatusCompleted:
	default:
		return DatabaseUpdateResult{}, fmt.Errorf("%w: %s", ErrSessionNotExecutable, sess.Status())
	}

	results, err := e.matches.ListBySession(ctx, sessionID)
	if err != nil {
		return DatabaseUpdateResult{}, err
	}

	out := DatabaseUpdateResult{}
	for _, res := range results {
		outcome := e.applyRecord(ctx, sessionID, res)
		if outcome.storeErr != nil {
			if out.UpdatedCount == 0 {
				return DatabaseUpdateResult{}, fmt.Errorf("%w: %v", ErrStoreUnreachable, outcome.storeErr)
			}
			out.FailedCount++
			out.Failures = append(out.Failures, RecordError{RecordRef: res.RecordRef, Reason: outcome.storeErr.Error()})
			continue
		}
		if outcome.failReason != "" {
			out.FailedCount++
			out.Failures = append(out.Failures, RecordError{RecordRef: res.RecordRef, Reason: outcome.failReason})
			continue
		}
		out.UpdatedCount++
		if outcome.warnReason != "" {
			out.Warnings = append(out.Warnings, RecordError{RecordRef: res.RecordRef, Reason: outcome.warnReason})
		}
	}
	e.log.WithFields(logrus.Fields{
		"session_id":    sessionID,
		"updated_count": out.UpdatedCount,
		"failed_count":  out.FailedCount,
		"warnings":      len(out.Warnings),
	}).Info("update execution finished")
	return out, nil
}

type recordOutcome struct {
	failReason string
	warnReason string
	// storeErr carries errors the registry or audit store returned that do
	// not describe the record itself, such as a closed pool or a refused
	// connection.
	storeErr error
}

func (e *UpdateExecutor) applyRecord(ctx context.Context, sessionID uuid.UUID, res matching.StoredMatchResult) recordOutcome {
	switch res.Status {
	case matching.StatusMatched:
	case matching.StatusAmbiguous:
		return recordOutcome{failReason: reasonOf(res, "ambiguous match")}
	default:
		return recordOutcome{failReason: reasonOf(res, "no matching property")}
	}
	if res.PropertyID == nil {
		return recordOutcome{failReason: "match result has no property id"}
	}

	fields := res.Compliance.Fields()
	if len(fields) == 0 {
		return recordOutcome{failReason: "no compliance values present"}
	}

	propertyID := *res.PropertyID
	applied := 0
	skipped := 0
	warned := false
	for _, field := range fields {
		exists, err := e.updates.ExistsActive(ctx, sessionID, propertyID, field.Name)
		if err != nil {
			return recordOutcome{storeErr: fmt.Errorf("audit lookup: %w", err)}
		}
		if exists {
			skipped++
			continue
		}

		oldValue, err := e.registry.ReadField(ctx, propertyID, field.Name)
		if err != nil {
			if isRecordError(err) {
				return recordOutcome{failReason: fmt.Sprintf("read %s: %v", field.Name, err)}
			}
			return recordOutcome{storeErr: fmt.Errorf("read %s: %w", field.Name, err)}
		}
		if err := e.registry.WriteField(ctx, propertyID, field.Name, field.Value); err != nil {
			if isRecordError(err) {
				return recordOutcome{failReason: fmt.Sprintf("write %s: %v", field.Name, err)}
			}
			return recordOutcome{storeErr: fmt.Errorf("write %s: %w", field.Name, err)}
		}
		applied++

		if err := e.writeAudit(ctx, foiaupdate.New(sessionID, propertyID, field.Name, oldValue, field.Value)); err != nil {
			warned = true
			e.log.WithFields(logrus.Fields{
				"session_id":  sessionID,
				"property_id": propertyID,
				"field":       field.Name,
			}).WithError(err).Warn("undo record could not be persisted; update kept")
		}
	}

	if applied == 0 && skipped > 0 {
		return recordOutcome{failReason: "already applied"}
	}
	if warned {
		return recordOutcome{warnReason: "applied without undo record"}
	}
	return recordOutcome{}
}

func (e *UpdateExecutor) writeAudit(ctx context.Context, u foiaupdate.FOIAUpdate) error {
	var err error
	for attempt := 0; attempt < e.auditRetryAttempts; attempt++ {
		if _, err = e.updates.Create(ctx, u); err == nil {
			return nil
		}
	}
	return err
}

// isRecordError reports whether err describes the record being applied
// rather than the health of the store that returned it.
func isRecordError(err error) bool {
	return errors.Is(err, property.ErrNotFound) || errors.Is(err, property.ErrUnknownField)
}

func reasonOf(res matching.StoredMatchResult, fallback string) string {
	if res.ErrorReason != nil && *res.ErrorReason != "" {
		return *res.ErrorReason
	}
	return fallback
}
