package foiaupdate

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	Limit  int
	Offset int
}

// Repository is append-mostly: records are created at apply time and the
// only mutation is flipping Reverted, done by the rollback engine.
type Repository interface {
	Create(ctx context.Context, u FOIAUpdate) (FOIAUpdate, error)
	// ExistsActive reports whether a non-reverted update already exists
	// for the (session, property, field) triple.
	ExistsActive(ctx context.Context, sessionID, propertyID uuid.UUID, fieldName string) (bool, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID, params *FindParams) ([]FOIAUpdate, int64, error)
	ListActiveBySession(ctx context.Context, sessionID uuid.UUID) ([]FOIAUpdate, error)
	MarkReverted(ctx context.Context, id uuid.UUID) error
}
