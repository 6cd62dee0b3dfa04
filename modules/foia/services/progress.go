package services

import "github.com/google/uuid"

// ProgressEvent is one observable step of a pipeline run. Progress is a
// percentage in [0, 100] and never decreases within a run.
type ProgressEvent struct {
	SessionID uuid.UUID `json:"session_id"`
	Stage     string    `json:"stage"`
	Progress  int       `json:"progress"`
	Message   string    `json:"message"`
}

type ProgressObserver interface {
	OnProgress(e ProgressEvent)
}

// ProgressObserverFunc adapts a plain function to ProgressObserver.
type ProgressObserverFunc func(e ProgressEvent)

func (f ProgressObserverFunc) OnProgress(e ProgressEvent) { f(e) }

// NopProgressObserver ignores all events.
type NopProgressObserver struct{}

func (NopProgressObserver) OnProgress(ProgressEvent) {}
