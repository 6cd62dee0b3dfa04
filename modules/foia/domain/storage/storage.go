package storage

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/Dcavise/SEEK-sub001/pkg/serrors"
)

var ErrNotFound = serrors.NewError("STORAGE_NOT_FOUND", "stored file not found", "")

// Ref identifies a stored raw import file.
type Ref string

// Store is the file-store collaborator boundary. An unreachable store is
// a pipeline stage failure, not a per-record one.
type Store interface {
	Store(ctx context.Context, sessionID uuid.UUID, name string, r io.Reader) (Ref, error)
	Fetch(ctx context.Context, ref Ref) (io.ReadCloser, error)
}
