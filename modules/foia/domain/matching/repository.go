package matching

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the append-only audit store for match results. Results are
// written exactly once per session, before any update executes.
type Repository interface {
	CreateBatch(ctx context.Context, sessionID uuid.UUID, results []MatchResult) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]StoredMatchResult, error)
	CountBySession(ctx context.Context, sessionID uuid.UUID) (int64, error)
}
