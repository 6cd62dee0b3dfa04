package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/Dcavise/SEEK-sub001/pkg/serrors"
)

var (
	ErrNotFound          = serrors.NewError("SESSION_NOT_FOUND", "import session not found", "")
	ErrInvalidTransition = serrors.NewError("SESSION_INVALID_TRANSITION", "invalid status transition", "")
)

type FindParams struct {
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, s ImportSession) (ImportSession, error)
	GetByID(ctx context.Context, id uuid.UUID) (ImportSession, error)
	List(ctx context.Context, params *FindParams) ([]ImportSession, int64, error)
	// UpdateStatus persists a status change already validated by the
	// aggregate; errorMessage is only written for the error status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, errorMessage *string) error
}
