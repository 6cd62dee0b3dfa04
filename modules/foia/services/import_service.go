package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/matching"
	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/session"
	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/storage"
	"github.com/Dcavise/SEEK-sub001/modules/registry/domain/aggregates/property"
	"github.com/Dcavise/SEEK-sub001/pkg/eventbus"
)

// ImportFile is the raw uploaded file plus the parsed records derived
// from it. Content may be nil when the caller has nothing to archive.
type ImportFile struct {
	Filename         string
	OriginalFilename string
	Content          io.Reader
}

// ImportOrchestrator drives a full import: create the session, archive
// the file, match every record against a registry snapshot, persist the
// match results, then execute the updates. Any stage failure moves the
// session to error and stops the run.
type ImportOrchestrator struct {
	sessions  *SessionService
	store     storage.Store
	registry  property.Repository
	matches   matching.Repository
	executor  *UpdateExecutor
	matcher   *matching.Matcher
	publisher eventbus.EventBus
	log       *logrus.Logger
}

func NewImportOrchestrator(
	sessions *SessionService,
	store storage.Store,
	registry property.Repository,
	matches matching.Repository,
	executor *UpdateExecutor,
	matcher *matching.Matcher,
	publisher eventbus.EventBus,
	log *logrus.Logger,
) *ImportOrchestrator {
	return &ImportOrchestrator{
		sessions:  sessions,
		store:     store,
		registry:  registry,
		matches:   matches,
		executor:  executor,
		matcher:   matcher,
		publisher: publisher,
		log:       log,
	}
}

// progressTracker clamps reported progress to be monotone within a run.
// Every event goes to the caller's observer and onto the bus.
type progressTracker struct {
	obs ProgressObserver
	bus eventbus.EventBus

	last int
}

func (t *progressTracker) report(sessionID uuid.UUID, stage string, progress int, message string) {
	if progress < t.last {
		progress = t.last
	}
	if progress > 100 {
		progress = 100
	}
	t.last = progress
	e := ProgressEvent{
		SessionID: sessionID,
		Stage:     stage,
		Progress:  progress,
		Message:   message,
	}
	t.obs.OnProgress(e)
	if t.bus != nil {
		t.bus.Publish(e)
	}
}

// Run executes the whole pipeline for one uploaded file. The returned
// result is the execution accounting; on a stage failure the session is
// in the error state and the stage error is returned.
func (o *ImportOrchestrator) Run(
	ctx context.Context,
	file ImportFile,
	records []matching.SourceRecord,
	obs ProgressObserver,
) (DatabaseUpdateResult, error) {
	if obs == nil {
		obs = NopProgressObserver{}
	}
	started := time.Now()
	tracker := &progressTracker{obs: obs, bus: o.publisher}

	sess, err := o.sessions.Create(ctx, file.Filename, file.OriginalFilename, len(records))
	if err != nil {
		observePipelineRun("error", time.Since(started).Seconds())
		return DatabaseUpdateResult{}, fmt.Errorf("create session: %w", err)
	}
	sessionID := sess.ID()
	tracker.report(sessionID, string(session.StatusUploading), 10, "session created")

	if len(records) == 0 {
		return o.fail(ctx, tracker, sessionID, started, fmt.Errorf("no records to process"))
	}

	if file.Content != nil {
		if _, err := o.store.Store(ctx, sessionID, file.Filename, file.Content); err != nil {
			return o.fail(ctx, tracker, sessionID, started, fmt.Errorf("archive file: %w", err))
		}
	}
	if _, err := o.sessions.Advance(ctx, sessionID, session.StatusProcessing); err != nil {
		return o.fail(ctx, tracker, sessionID, started, fmt.Errorf("advance to processing: %w", err))
	}
	tracker.report(sessionID, string(session.StatusProcessing), 20, "file archived")

	entries, err := o.registry.ListAddresses(ctx)
	if err != nil {
		return o.fail(ctx, tracker, sessionID, started, fmt.Errorf("load registry addresses: %w", err))
	}
	snap := matching.NewRegistrySnapshot(toRegistryEntries(entries))
	tracker.report(sessionID, string(session.StatusProcessing), 40, "registry snapshot loaded")

	results := make([]matching.MatchResult, 0, len(records))
	for _, rec := range records {
		results = append(results, o.matcher.Match(rec, snap))
	}
	if err := o.matches.CreateBatch(ctx, sessionID, results); err != nil {
		return o.fail(ctx, tracker, sessionID, started, fmt.Errorf("persist match results: %w", err))
	}
	tracker.report(sessionID, string(session.StatusProcessing), 60, "records matched")

	execResult, err := o.executor.Execute(ctx, sessionID)
	if err != nil {
		return o.fail(ctx, tracker, sessionID, started, fmt.Errorf("execute updates: %w", err))
	}
	observeExecution(execResult)

	if _, err := o.sessions.Advance(ctx, sessionID, session.StatusCompleted); err != nil {
		return o.fail(ctx, tracker, sessionID, started, fmt.Errorf("advance to completed: %w", err))
	}
	tracker.report(sessionID, string(session.StatusCompleted), 100, "import completed")
	observePipelineRun("completed", time.Since(started).Seconds())
	o.log.WithFields(logrus.Fields{
		"session_id":    sessionID,
		"total_records": len(records),
		"updated_count": execResult.UpdatedCount,
		"failed_count":  execResult.FailedCount,
	}).Info("import pipeline completed")
	return execResult, nil
}

func (o *ImportOrchestrator) fail(
	ctx context.Context,
	tracker *progressTracker,
	sessionID uuid.UUID,
	started time.Time,
	cause error,
) (DatabaseUpdateResult, error) {
	if _, err := o.sessions.Fail(ctx, sessionID, cause.Error()); err != nil {
		o.log.WithError(err).WithField("session_id", sessionID).Error("could not mark session failed")
	}
	tracker.report(sessionID, string(session.StatusError), tracker.last, cause.Error())
	observePipelineRun("error", time.Since(started).Seconds())
	return DatabaseUpdateResult{}, cause
}

func toRegistryEntries(entries []property.AddressEntry) []matching.RegistryEntry {
	out := make([]matching.RegistryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, matching.RegistryEntry{PropertyID: e.PropertyID, Address: e.Address})
	}
	return out
}
